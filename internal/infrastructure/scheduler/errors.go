package scheduler

import "errors"

// Scheduler errors
var (
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
)

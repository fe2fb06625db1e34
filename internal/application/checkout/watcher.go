package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/domain/order"
)

// Polling bounds for payment confirmation
const (
	DefaultInitialPoll = 3 * time.Second
	DefaultMaxPoll     = 30 * time.Second
	DefaultWatchLimit  = 15 * time.Minute
)

// StatusProvider reads the current state of an order
type StatusProvider interface {
	OrderStatus(ctx context.Context, userID, orderID uuid.UUID) (order.Status, error)
}

// StatusUpdate is one observation delivered by a watch
type StatusUpdate struct {
	Status   order.Status
	TimedOut bool
	Err      error
}

// ConfirmationWatcher polls an order after checkout until the async
// webhook settles it. The poll interval starts small and doubles up to a
// cap, so a fast confirmation is seen within seconds while a slow one
// does not hammer the store. A watch always ends: on a terminal status,
// on the overall time limit, or when the caller's context is done.
type ConfirmationWatcher struct {
	provider StatusProvider
	initial  time.Duration
	max      time.Duration
	limit    time.Duration
}

// NewConfirmationWatcher creates a watcher with the default bounds
func NewConfirmationWatcher(provider StatusProvider) *ConfirmationWatcher {
	return NewConfirmationWatcherWithBounds(provider, DefaultInitialPoll, DefaultMaxPoll, DefaultWatchLimit)
}

// NewConfirmationWatcherWithBounds creates a watcher with custom bounds
func NewConfirmationWatcherWithBounds(provider StatusProvider, initial, max, limit time.Duration) *ConfirmationWatcher {
	return &ConfirmationWatcher{
		provider: provider,
		initial:  initial,
		max:      max,
		limit:    limit,
	}
}

// Watch polls the order until it settles. Every observation is delivered
// on the returned channel; the channel closes when the watch ends.
func (w *ConfirmationWatcher) Watch(ctx context.Context, userID, orderID uuid.UUID) <-chan StatusUpdate {
	updates := make(chan StatusUpdate, 1)

	go func() {
		defer close(updates)

		deadline := time.NewTimer(w.limit)
		defer deadline.Stop()
		interval := w.initial

		for {
			status, err := w.provider.OrderStatus(ctx, userID, orderID)
			if err != nil {
				select {
				case updates <- StatusUpdate{Err: err}:
				case <-ctx.Done():
				}
				return
			}

			select {
			case updates <- StatusUpdate{Status: status}:
			case <-ctx.Done():
				return
			}
			if status.IsTerminal() {
				return
			}

			wait := time.NewTimer(interval)
			select {
			case <-wait.C:
			case <-deadline.C:
				wait.Stop()
				select {
				case updates <- StatusUpdate{Status: status, TimedOut: true}:
				case <-ctx.Done():
				}
				return
			case <-ctx.Done():
				wait.Stop()
				return
			}

			if interval *= 2; interval > w.max {
				interval = w.max
			}
		}
	}()

	return updates
}

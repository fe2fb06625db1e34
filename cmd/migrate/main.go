package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/infrastructure/config"
	"github.com/luxemart/storefront/internal/infrastructure/logger"
	"github.com/luxemart/storefront/internal/infrastructure/migration"
)

func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "path", "migrations", "migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	// create and list only touch the filesystem
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("usage: migrate create <name>")
		}
		mf, err := migration.CreateMigration(dir, args[1])
		if err != nil {
			log.Fatal("create migration failed", zap.Error(err))
		}
		log.Info("migration created",
			zap.Uint("version", mf.Version),
			zap.String("up", mf.UpPath),
			zap.String("down", mf.DownPath))
		return
	case "list":
		names, err := migration.ListMigrations(dir)
		if err != nil {
			log.Fatal("list migrations failed", zap.Error(err))
		}
		log.Info("migrations on disk", zap.Int("count", len(names)))
		for _, name := range names {
			fmt.Println("  -", name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load configuration failed", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("open database failed", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("database unreachable", zap.Error(err))
	}

	mg, err := migration.New(db, dir, log)
	if err != nil {
		log.Fatal("init migrator failed", zap.Error(err))
	}
	defer mg.Close()

	switch command {
	case "up":
		if err := mg.Up(); err != nil {
			log.Fatal("migrate up failed", zap.Error(err))
		}
	case "down":
		if err := mg.Down(); err != nil {
			log.Fatal("migrate down failed", zap.Error(err))
		}
	case "step":
		if len(args) < 2 {
			log.Fatal("usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("step count must be an integer", zap.String("value", args[1]))
		}
		if err := mg.Steps(n); err != nil {
			log.Fatal("migrate step failed", zap.Error(err))
		}
	case "version":
		version, dirty, err := mg.Version()
		if err != nil {
			log.Fatal("read version failed", zap.Error(err))
		}
		if version == 0 {
			log.Info("no migrations applied")
		} else {
			log.Info("current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	case "force":
		if len(args) < 2 {
			log.Fatal("usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("version must be an integer", zap.String("value", args[1]))
		}
		if err := mg.Force(version); err != nil {
			log.Fatal("force version failed", zap.Error(err))
		}
	default:
		log.Error("unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: migrate [flags] <command> [arguments]

Commands:
  up               apply all pending migrations
  down             roll back all migrations
  step <n>         apply n migrations (negative rolls back)
  version          show the applied schema version
  force <version>  overwrite the recorded version (dirty-state recovery)
  create <name>    create a numbered up/down file pair
  list             list migrations on disk

Flags:
  -path string       migrations directory (default "migrations")
  -log-level string  debug, info, warn, error (default "info")

Database settings come from config.toml or STOREFRONT_DATABASE_* variables.`)
}

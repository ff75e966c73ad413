package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/marks-analytics-api/pkg/config"
	"github.com/noah-isme/marks-analytics-api/pkg/database"
	"github.com/noah-isme/marks-analytics-api/pkg/logger"
)

const usage = `usage: migrate <command> [args]

commands:
  up           apply all pending migrations
  up-to V      apply migrations up to version V
  down         roll back the latest migration
  down-to V    roll back to version V
  redo         roll back and re-apply the latest migration
  status       print migration status
  version      print the current version
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(context.Background(), cfg.Database)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	command := flag.Arg(0)
	if err := database.Migrate(db, logr, command, flag.Args()[1:]...); err != nil {
		logr.Fatal("migration failed", zap.String("command", command), zap.Error(err))
	}
}

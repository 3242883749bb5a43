// Command menud serves the restaurant catalog over HTTP and keeps it in sync
// with the admin spreadsheet.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dailyyoga/menuhub/cache"
	"github.com/dailyyoga/menuhub/config"
	"github.com/dailyyoga/menuhub/cron"
	"github.com/dailyyoga/menuhub/db"
	"github.com/dailyyoga/menuhub/httpapi"
	"github.com/dailyyoga/menuhub/importer"
	"github.com/dailyyoga/menuhub/logger"
	"github.com/dailyyoga/menuhub/model"
	"github.com/dailyyoga/menuhub/routine"
	"github.com/dailyyoga/menuhub/service"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	migrateOnly := flag.Bool("migrate", false, "create the schema and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, *migrateOnly); err != nil {
		log.Error("menud stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger, migrateOnly bool) error {
	database, err := db.New(log, cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	gdb, err := database.DB()
	if err != nil {
		return err
	}
	if err := model.Migrate(gdb); err != nil {
		return db.ErrMigrate(err)
	}
	if migrateOnly {
		log.Info("schema migrated")
		return nil
	}

	checks := []httpapi.Option{httpapi.WithHealthCheck("database", database.Ping)}

	var rdb cache.Redis
	if cfg.Redis.Enabled {
		rdb, err = cache.NewRedis(log, cfg.Redis)
		if err != nil {
			// the catalog works without its cache
			log.Warn("redis unavailable, running without cache", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
			checks = append(checks, httpapi.WithHealthCheck("redis", func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}))
		}
	}

	catalog := service.New(gdb, rdb, cfg.Cache.TTL, log)

	job, err := importer.New(cfg.Sync, catalog, log)
	if err != nil {
		return err
	}

	opts := append(checks, httpapi.WithSynchronizer(job))
	srv, err := httpapi.New(cfg.HTTP, catalog, log, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var scheduler cron.Scheduler
	if cfg.Sync.Enabled {
		scheduler = cron.New(log, cron.Timeout(cfg.Sync.Timeout))
		if err := scheduler.AddChain(job.Chain()); err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Close()
		log.Info("catalog sync scheduled",
			zap.String("path", cfg.Sync.Path),
			zap.String("spec", cfg.Sync.Spec),
		)
	}

	group := routine.NewGroup(ctx, log)
	group.GoNamed("http", srv.Serve)
	if scheduler != nil {
		// first check without waiting for the first tick
		group.GoNamed("initial-sync", func(ctx context.Context) error {
			if err := scheduler.RunChain(ctx, importer.ChainName); err != nil {
				log.Warn("initial catalog sync failed", zap.Error(err))
			}
			return nil
		})
	}

	err = group.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info("menud shutting down")
	return err
}

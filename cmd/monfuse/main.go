// Package main runs the monster fusion console. It wires configuration,
// logging, the catalog, the encyclopedia store, both resolvers and the
// console REPL into one lifecycle.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/monfuse/internal/config"
	"github.com/cory-johannsen/monfuse/internal/console"
	"github.com/cory-johannsen/monfuse/internal/dispatch"
	"github.com/cory-johannsen/monfuse/internal/game/battle"
	"github.com/cory-johannsen/monfuse/internal/game/catalog"
	"github.com/cory-johannsen/monfuse/internal/game/dice"
	"github.com/cory-johannsen/monfuse/internal/game/encyclopedia"
	"github.com/cory-johannsen/monfuse/internal/game/fusion"
	"github.com/cory-johannsen/monfuse/internal/observability"
	"github.com/cory-johannsen/monfuse/internal/render"
	"github.com/cory-johannsen/monfuse/internal/server"
	"github.com/cory-johannsen/monfuse/internal/storage"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (defaults and MONFUSE_* env when empty)")
	envFile := flag.String("env", ".env", "dotenv file loaded before the environment is read")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Fatalf("loading %s: %v", *envFile, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		cat, err = catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			logger.Fatal("loading catalog", zap.String("path", cfg.Catalog.Path), zap.Error(err))
		}
	}
	logger.Info("catalog loaded",
		zap.Strings("elements", cat.Elements()),
		zap.Strings("species", cat.Species()),
	)

	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	registry := encyclopedia.NewRegistry(cat)
	loaded, err := storage.Restore(ctx, registry, backend)
	if err != nil {
		logger.Fatal("restoring encyclopedia", zap.Error(err))
	}
	logger.Info("encyclopedia restored",
		zap.Int("loaded", loaded),
		zap.Int("entries", registry.Len()),
	)

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	dispatcher := dispatch.New(
		registry,
		fusion.NewResolver(cat, roller),
		battle.NewResolver(roller),
		render.NewText(os.Stdout, cfg.Console.Color),
		backend,
		logger,
	)
	repl := console.New(dispatcher, os.Stdin, os.Stdout, cfg.Console.Prompt, logger)

	lifecycle := server.NewLifecycle(logger)
	if backend.Health != nil {
		lifecycle.Add("store-health", &server.FuncService{
			StartFn: func(ctx context.Context) error {
				ticker := time.NewTicker(30 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
						if err := backend.Health(ctx); err != nil {
							logger.Warn("store health check failed", zap.String("driver", backend.Driver), zap.Error(err))
						}
					}
				}
			},
			StopFn: func(context.Context) error { return backend.Close() },
		})
	} else {
		lifecycle.Add("store", &server.FuncService{
			StartFn: func(ctx context.Context) error {
				<-ctx.Done()
				return nil
			},
			StopFn: func(context.Context) error { return backend.Close() },
		})
	}
	lifecycle.Add("console", repl)

	logger.Info("monfuse initialized",
		zap.String("session", repl.SessionID()),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("exiting with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// Package storage selects the encyclopedia persistence backend named by the
// store configuration.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/monfuse/internal/config"
	"github.com/cory-johannsen/monfuse/internal/game/creature"
	"github.com/cory-johannsen/monfuse/internal/game/encyclopedia"
	"github.com/cory-johannsen/monfuse/internal/storage/file"
	"github.com/cory-johannsen/monfuse/internal/storage/object"
	"github.com/cory-johannsen/monfuse/internal/storage/postgres"
	"github.com/cory-johannsen/monfuse/internal/storage/sqlite"
)

// Store loads and saves full encyclopedia snapshots keyed by identifier.
type Store interface {
	Load(ctx context.Context) (map[string]creature.Record, error)
	Save(ctx context.Context, records map[string]creature.Record) error
}

// Backend is an opened Store plus its resource hooks.
type Backend struct {
	Store
	// Driver is the configured driver name.
	Driver string
	// Health pings the backing service. It is nil for local drivers.
	Health func(ctx context.Context) error
	close  func() error
}

// Close releases the backend's resources.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects the backend selected by cfg.Store. The postgres driver applies
// pending migrations before returning.
//
// Precondition: cfg must have passed Validate.
// Postcondition: Returns a ready Backend or a non-nil error.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Backend, error) {
	start := time.Now()
	var (
		b        *Backend
		location string
	)
	switch cfg.Store.Driver {
	case config.DriverJSON, config.DriverYAML:
		format := file.JSON
		if cfg.Store.Driver == config.DriverYAML {
			format = file.YAML
		}
		s := file.New(cfg.Store.Path, format)
		b = &Backend{Store: s}
		location = s.Path()
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		b = &Backend{Store: s, close: s.Close}
		location = s.Path()
	case config.DriverPostgres:
		version, err := postgres.Migrate(cfg.Database.DSN(), 0)
		if err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		repo := postgres.NewCreatureRepository(pool.DB())
		stored, err := repo.Count(ctx)
		if err != nil {
			pool.Close()
			return nil, err
		}
		b = &Backend{
			Store:  repo,
			Health: func(ctx context.Context) error { return pool.Health(ctx, 5*time.Second) },
			close: func() error {
				pool.Close()
				return nil
			},
		}
		location = fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Uint("schema_version", version),
			zap.Int("stored_creatures", stored),
		)
	case config.DriverS3:
		s, err := object.New(ctx, cfg.Object)
		if err != nil {
			return nil, err
		}
		b = &Backend{Store: s, Health: s.Health}
		location = s.Location()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	b.Driver = cfg.Store.Driver
	logger.Info("store opened",
		zap.String("driver", b.Driver),
		zap.String("location", location),
		zap.Duration("elapsed", time.Since(start)),
	)
	return b, nil
}

// Restore replaces reg's contents with the stored snapshot, seeds any missing
// base creatures, and writes the result back once.
//
// Postcondition: reg holds every stored record plus the base creatures, and
// the store holds the same snapshot.
func Restore(ctx context.Context, reg *encyclopedia.Registry, store Store) (loaded int, err error) {
	records, err := store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading encyclopedia: %w", err)
	}
	if err := reg.Load(records); err != nil {
		return 0, fmt.Errorf("restoring encyclopedia: %w", err)
	}
	if err := store.Save(ctx, reg.All()); err != nil {
		return 0, fmt.Errorf("persisting encyclopedia: %w", err)
	}
	return len(records), nil
}

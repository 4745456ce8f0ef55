package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/monfuse/internal/config"
	"github.com/cory-johannsen/monfuse/internal/game/catalog"
	"github.com/cory-johannsen/monfuse/internal/game/creature"
	"github.com/cory-johannsen/monfuse/internal/game/encyclopedia"
	"github.com/cory-johannsen/monfuse/internal/storage"
)

func cfgFor(driver, path string) config.Config {
	return config.Config{Store: config.StoreConfig{Driver: driver, Path: path}}
}

func TestOpen_FileAndSQLiteDrivers(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		driver string
		path   string
	}{
		{config.DriverJSON, filepath.Join(dir, "pokedex.json")},
		{config.DriverYAML, filepath.Join(dir, "pokedex.yaml")},
		{config.DriverSQLite, filepath.Join(dir, "pokedex.db")},
	}
	rec := creature.Record{Name: "fire_rat", Elements: []string{"fire"}, Species: "rat", Attack: 45, Defense: 35, Speed: 70}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			b, err := storage.Open(context.Background(), cfgFor(tt.driver, tt.path), zap.NewNop())
			require.NoError(t, err)
			t.Cleanup(func() { _ = b.Close() })

			assert.Equal(t, tt.driver, b.Driver)
			assert.Nil(t, b.Health)

			require.NoError(t, b.Save(context.Background(), map[string]creature.Record{"fire_rat": rec}))
			got, err := b.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, rec.Clone(), got["fire_rat"])

			_, err = os.Stat(tt.path)
			assert.NoError(t, err)
		})
	}
}

func TestOpen_LogsStoreLocation(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dir := t.TempDir()
	for _, tt := range []struct{ driver, path string }{
		{config.DriverJSON, filepath.Join(dir, "pokedex.json")},
		{config.DriverSQLite, filepath.Join(dir, "pokedex.db")},
	} {
		b, err := storage.Open(context.Background(), cfgFor(tt.driver, tt.path), zap.New(core))
		require.NoError(t, err)
		require.NoError(t, b.Close())
	}
	cfg := cfgFor(config.DriverS3, "")
	cfg.Object = config.ObjectConfig{Bucket: "monfuse", Key: "pokedex.json", Region: "us-east-1"}
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	_, err := storage.Open(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)

	entries := logs.FilterMessage("store opened").All()
	require.Len(t, entries, 3)
	assert.Equal(t, filepath.Join(dir, "pokedex.json"), entries[0].ContextMap()["location"])
	assert.Equal(t, filepath.Join(dir, "pokedex.db"), entries[1].ContextMap()["location"])
	assert.Equal(t, "s3://monfuse/pokedex.json", entries[2].ContextMap()["location"])
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := storage.Open(context.Background(), cfgFor("etcd", "x"), zap.NewNop())
	assert.Error(t, err)
}

func TestOpen_ObjectDriverHasHealthCheck(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	cfg := cfgFor(config.DriverS3, "")
	cfg.Object = config.ObjectConfig{Bucket: "monfuse", Key: "pokedex.json", Region: "us-east-1"}

	b, err := storage.Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, config.DriverS3, b.Driver)
	assert.NotNil(t, b.Health)
	assert.NoError(t, b.Close())
}

func TestBackend_CloseWithoutResources(t *testing.T) {
	b, err := storage.Open(context.Background(), cfgFor(config.DriverJSON, filepath.Join(t.TempDir(), "p.json")), zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, b.Close())
}

func TestRestore_SeedsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pokedex.json")
	b, err := storage.Open(context.Background(), cfgFor(config.DriverJSON, path), zap.NewNop())
	require.NoError(t, err)
	fused := creature.Record{
		Name: "torrent_tigron_2", Elements: []string{"water", "water"}, Species: "tigron",
		Attack: 90, Defense: 33, Speed: 101, Skills: []string{}, Mutations: []string{},
	}
	require.NoError(t, b.Save(context.Background(), map[string]creature.Record{"torrent_tigron_2": fused}))

	reg := encyclopedia.NewRegistry(catalog.Default())
	loaded, err := storage.Restore(context.Background(), reg, b)
	require.NoError(t, err)

	assert.Equal(t, 1, loaded)
	assert.Equal(t, 10, reg.Len())
	assert.Equal(t, "torrent_tigron_3", reg.NextIdentifier("torrent_tigron"))

	stored, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 10)
	assert.Equal(t, fused, stored["torrent_tigron_2"])
}

func TestRestore_EmptyStore(t *testing.T) {
	b, err := storage.Open(context.Background(), cfgFor(config.DriverYAML, filepath.Join(t.TempDir(), "dex.yaml")), zap.NewNop())
	require.NoError(t, err)

	reg := encyclopedia.NewRegistry(catalog.Default())
	loaded, err := storage.Restore(context.Background(), reg, b)
	require.NoError(t, err)
	assert.Zero(t, loaded)
	assert.Equal(t, 9, reg.Len())
}

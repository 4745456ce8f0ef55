package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/monfuse/internal/storage/postgres"
	"github.com/cory-johannsen/monfuse/internal/testutil"
)

func TestPool_Health(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	assert.NoError(t, pc.Pool.Health(context.Background(), 5*time.Second))
}

func TestMigrate_IsIdempotent(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)

	v1, err := postgres.Migrate(pc.DSN(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v1)

	v2, err := postgres.Migrate(pc.DSN(), 0)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestMigrate_RollBack(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)

	v, err := postgres.Migrate(pc.DSN(), -1)
	require.NoError(t, err)
	assert.Equal(t, uint(0), v)

	var exists bool
	require.NoError(t, pc.RawPool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'creatures')`).Scan(&exists))
	assert.False(t, exists)
}

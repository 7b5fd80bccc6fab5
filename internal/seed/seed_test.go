package seed_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/gigbook/internal/repository/sqlite"
	"github.com/msomdec/gigbook/internal/seed"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.CreateTables(context.Background()))
	return db
}

func TestRun(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, seed.Run(ctx, db.Bands(), db.Venues()))

	bands, err := db.Bands().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, bands, 3)

	venues, err := db.Venues().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, venues, 3)

	concerts, err := db.Concerts().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, concerts, 5)

	// Band 1 and Band 2 each played twice.
	top, err := db.Bands().MostPerformances(ctx)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Band 1", top[0].Name)
	assert.Equal(t, "Band 2", top[1].Name)
}

func TestRun_Idempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, seed.Run(ctx, db.Bands(), db.Venues()))
	require.NoError(t, seed.Run(ctx, db.Bands(), db.Venues()))

	bands, err := db.Bands().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, bands, 3)

	concerts, err := db.Concerts().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, concerts, 5)
}

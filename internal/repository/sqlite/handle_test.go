package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/gigbook/internal/repository/sqlite"
)

func TestMetrics_CountsStatements(t *testing.T) {
	reg := prometheus.NewRegistry()
	db := newTestDB(t, sqlite.WithMetrics(reg))
	ctx := context.Background()

	band := mustBand(t, db, "Band", "Home", "")
	_, err := db.Bands().FindByID(ctx, band.ID)
	require.NoError(t, err)

	m := db.Metrics()
	require.NotNil(t, m)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Statements.WithLabelValues("bands", "insert", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Statements.WithLabelValues("bands", "select", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Statements.WithLabelValues("concerts", "create_table", "ok")))
}

func TestMetrics_CountsFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	db := newTestDB(t, sqlite.WithMetrics(reg))
	ctx := context.Background()

	require.NoError(t, db.DropTables(ctx))

	_, err := db.Bands().Create(ctx, "Band", "Home", "")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(db.Metrics().Statements.WithLabelValues("bands", "insert", "error")))
}

func TestMetrics_DisabledByDefault(t *testing.T) {
	db := newTestDB(t)
	assert.Nil(t, db.Metrics())
}

func TestNew_DuplicateMetricsRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	newTestDB(t, sqlite.WithMetrics(reg))

	_, err := sqlite.New(filepath.Join(t.TempDir(), "second.db"), sqlite.WithMetrics(reg))
	require.Error(t, err)
}

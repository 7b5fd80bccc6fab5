package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	_ "modernc.org/sqlite"

	"github.com/msomdec/gigbook/internal/domain"
	"github.com/msomdec/gigbook/internal/identity"
)

// Option configures New using the functional options pattern.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	registerer prometheus.Registerer

	bandCache    *identity.Map[domain.Band]
	venueCache   *identity.Map[domain.Venue]
	concertCache *identity.Map[domain.Concert]
}

// WithLogger sets the logger used for statement tracing. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics registers statement metrics with reg. If reg is nil, this option is ignored.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		if reg != nil {
			o.registerer = reg
		}
	}
}

// WithIdentityMaps supplies the identity maps the stores register loaded
// records in. Nil maps are replaced with fresh ones.
func WithIdentityMaps(bands *identity.Map[domain.Band], venues *identity.Map[domain.Venue], concerts *identity.Map[domain.Concert]) Option {
	return func(o *options) {
		o.bandCache = bands
		o.venueCache = venues
		o.concertCache = concerts
	}
}

// DB is the composition root for the SQLite store. It owns the connection,
// the shared statement handle and the three entity stores, and wires their
// cross references after construction.
type DB struct {
	SqlDB *sql.DB

	handle   *Handle
	bands    *BandStore
	venues   *VenueStore
	concerts *ConcertStore
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string, opts ...Option) (*DB, error) {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.bandCache == nil {
		o.bandCache = identity.New[domain.Band]()
	}
	if o.venueCache == nil {
		o.venueCache = identity.New[domain.Venue]()
	}
	if o.concertCache == nil {
		o.concertCache = identity.New[domain.Concert]()
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection keeps the pragmas below in effect for every statement.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := sqlDB.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	var metrics *Metrics
	if o.registerer != nil {
		metrics, err = NewMetrics(o.registerer)
		if err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	h := NewHandle(sqlDB, o.logger, metrics)
	db := &DB{
		SqlDB:    sqlDB,
		handle:   h,
		bands:    newBandStore(h, o.bandCache),
		venues:   newVenueStore(h, o.venueCache),
		concerts: newConcertStore(h, o.concertCache),
	}

	db.bands.venues = db.venues
	db.bands.concerts = db.concerts
	db.venues.bands = db.bands
	db.venues.concerts = db.concerts
	db.concerts.bands = db.bands
	db.concerts.venues = db.venues

	return db, nil
}

// Bands returns the band store.
func (db *DB) Bands() *BandStore { return db.bands }

// Venues returns the venue store.
func (db *DB) Venues() *VenueStore { return db.venues }

// Concerts returns the concert store.
func (db *DB) Concerts() *ConcertStore { return db.concerts }

// Metrics returns the statement metrics, or nil when WithMetrics was not used.
func (db *DB) Metrics() *Metrics { return db.handle.metrics }

// CreateTables creates every table that does not exist yet, parents first.
func (db *DB) CreateTables(ctx context.Context) error {
	if err := db.bands.CreateTable(ctx); err != nil {
		return err
	}
	if err := db.venues.CreateTable(ctx); err != nil {
		return err
	}
	return db.concerts.CreateTable(ctx)
}

// DropTables drops every table that exists, children first.
func (db *DB) DropTables(ctx context.Context) error {
	if err := db.concerts.DropTable(ctx); err != nil {
		return err
	}
	if err := db.venues.DropTable(ctx); err != nil {
		return err
	}
	return db.bands.DropTable(ctx)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

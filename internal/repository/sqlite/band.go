package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/gigbook/internal/domain"
	"github.com/msomdec/gigbook/internal/identity"
)

const bandsTable = "bands"

// BandStore implements domain.BandRepository using SQLite.
type BandStore struct {
	h     *Handle
	cache *identity.Map[domain.Band]

	venues   domain.VenueLookup
	concerts domain.ConcertLookup
}

func newBandStore(h *Handle, cache *identity.Map[domain.Band]) *BandStore {
	return &BandStore{h: h, cache: cache}
}

func (s *BandStore) CreateTable(ctx context.Context) error {
	_, err := s.h.Exec(ctx, bandsTable, "create_table",
		`CREATE TABLE IF NOT EXISTS bands (
			id INTEGER PRIMARY KEY,
			name TEXT,
			hometown TEXT,
			genre TEXT
		)`)
	if err != nil {
		return fmt.Errorf("create bands table: %w", err)
	}
	return nil
}

func (s *BandStore) DropTable(ctx context.Context) error {
	if _, err := s.h.Exec(ctx, bandsTable, "drop_table", "DROP TABLE IF EXISTS bands"); err != nil {
		return fmt.Errorf("drop bands table: %w", err)
	}
	s.cache.Clear()
	return nil
}

// Create builds a band and saves it.
func (s *BandStore) Create(ctx context.Context, name, hometown, genre string) (*domain.Band, error) {
	band := &domain.Band{Name: name, Hometown: hometown, Genre: genre}
	if err := s.Save(ctx, band); err != nil {
		return nil, err
	}
	return band, nil
}

// Save inserts a row for a transient band, assigns the generated id and
// registers the instance in the identity map.
func (s *BandStore) Save(ctx context.Context, band *domain.Band) error {
	if band.Persisted() {
		return fmt.Errorf("save band %d: %w", band.ID, domain.ErrAlreadyPersisted)
	}

	result, err := s.h.Exec(ctx, bandsTable, "insert",
		`INSERT INTO bands (name, hometown, genre) VALUES (?, ?, ?)`,
		band.Name, band.Hometown, nullString(band.Genre),
	)
	if err != nil {
		return fmt.Errorf("insert band: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	band.ID = id
	s.cache.Put(id, band)
	return nil
}

func (s *BandStore) Update(ctx context.Context, band *domain.Band) error {
	if !band.Persisted() {
		return fmt.Errorf("update band: %w", domain.ErrNotPersisted)
	}

	result, err := s.h.Exec(ctx, bandsTable, "update",
		`UPDATE bands SET name = ?, hometown = ?, genre = ? WHERE id = ?`,
		band.Name, band.Hometown, nullString(band.Genre), band.ID,
	)
	if err != nil {
		return fmt.Errorf("update band: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the band's row, evicts it from the identity map and resets
// its id. A band still referenced by concerts cannot be deleted.
func (s *BandStore) Delete(ctx context.Context, band *domain.Band) error {
	if !band.Persisted() {
		return fmt.Errorf("delete band: %w", domain.ErrNotPersisted)
	}

	result, err := s.h.Exec(ctx, bandsTable, "delete", "DELETE FROM bands WHERE id = ?", band.ID)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("delete band %d: band has concerts: %w", band.ID, domain.ErrReferentialFailure)
		}
		return fmt.Errorf("delete band: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	s.cache.Evict(band.ID)
	band.ID = 0
	return nil
}

func (s *BandStore) FindByID(ctx context.Context, id int64) (*domain.Band, error) {
	row := s.h.QueryRow(ctx, bandsTable, "select",
		`SELECT id, name, hometown, genre FROM bands WHERE id = ?`, id)
	band, err := scanBand(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get band by id: %w", err)
	}
	return s.cache.Reconcile(band.ID, band), nil
}

// FindByName returns the first band with the given name.
func (s *BandStore) FindByName(ctx context.Context, name string) (*domain.Band, error) {
	row := s.h.QueryRow(ctx, bandsTable, "select",
		`SELECT id, name, hometown, genre FROM bands WHERE name = ? ORDER BY id LIMIT 1`, name)
	band, err := scanBand(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get band by name: %w", err)
	}
	return s.cache.Reconcile(band.ID, band), nil
}

func (s *BandStore) GetAll(ctx context.Context) ([]*domain.Band, error) {
	rows, err := s.h.Query(ctx, bandsTable, "select",
		`SELECT id, name, hometown, genre FROM bands ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list bands: %w", err)
	}
	defer rows.Close()

	var bands []*domain.Band
	for rows.Next() {
		band, err := scanBand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan band: %w", err)
		}
		bands = append(bands, s.cache.Reconcile(band.ID, band))
	}
	return bands, rows.Err()
}

// ConcertsOf returns every concert the band has played.
func (s *BandStore) ConcertsOf(ctx context.Context, band *domain.Band) ([]*domain.Concert, error) {
	if !band.Persisted() {
		return nil, fmt.Errorf("concerts of band: %w", domain.ErrNotPersisted)
	}
	return s.concerts.ListByBand(ctx, band.ID)
}

func (s *BandStore) VenuesOf(ctx context.Context, band *domain.Band) ([]*domain.Venue, error) {
	concerts, err := s.ConcertsOf(ctx, band)
	if err != nil {
		return nil, err
	}

	venues := make([]*domain.Venue, 0, len(concerts))
	for _, c := range concerts {
		venue, err := s.venues.FindByID(ctx, c.VenueID)
		if err != nil {
			return nil, fmt.Errorf("venue of concert %d: %w", c.ID, err)
		}
		venues = append(venues, venue)
	}
	return venues, nil
}

// BookConcert schedules the band at the venue named venueName. The venue
// must already exist.
func (s *BandStore) BookConcert(ctx context.Context, band *domain.Band, venueName, date string) (*domain.Concert, error) {
	if !band.Persisted() {
		return nil, fmt.Errorf("book concert: %w", domain.ErrNotPersisted)
	}

	venue, err := s.venues.FindByName(ctx, venueName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("book concert: venue %q does not exist: %w", venueName, domain.ErrReferentialFailure)
		}
		return nil, fmt.Errorf("book concert: %w", err)
	}

	return s.concerts.Create(ctx, band.ID, venue.ID, date)
}

// IntroductionLines returns the band's stage greeting for each of its concerts.
func (s *BandStore) IntroductionLines(ctx context.Context, band *domain.Band) ([]string, error) {
	venues, err := s.VenuesOf(ctx, band)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(venues))
	for _, venue := range venues {
		lines = append(lines, fmt.Sprintf(
			"Hello %s!!!!! We are %s and we're from %s and we play %s",
			venue.City, band.Name, band.Hometown, band.Genre,
		))
	}
	return lines, nil
}

// MostPerformances returns every band tied for the highest number of
// concerts. It returns an empty slice when no concerts exist.
func (s *BandStore) MostPerformances(ctx context.Context) ([]*domain.Band, error) {
	counts, err := s.performanceCounts(ctx)
	if err != nil {
		return nil, err
	}

	bands := []*domain.Band{}
	for _, pc := range counts {
		if pc.performances != counts[0].performances {
			break
		}
		band, err := s.FindByID(ctx, pc.bandID)
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", pc.bandID, err)
		}
		bands = append(bands, band)
	}
	return bands, nil
}

type performanceCount struct {
	bandID       int64
	performances int
}

// performanceCounts returns concert counts per band, highest first. Rows
// are drained before returning so callers can issue follow-up lookups.
func (s *BandStore) performanceCounts(ctx context.Context) ([]performanceCount, error) {
	rows, err := s.h.Query(ctx, concertsTable, "aggregate",
		`SELECT band_id, COUNT(*) AS performances
		 FROM concerts
		 GROUP BY band_id
		 ORDER BY performances DESC, band_id`)
	if err != nil {
		return nil, fmt.Errorf("count performances: %w", err)
	}
	defer rows.Close()

	var counts []performanceCount
	for rows.Next() {
		var pc performanceCount
		if err := rows.Scan(&pc.bandID, &pc.performances); err != nil {
			return nil, fmt.Errorf("scan performance count: %w", err)
		}
		counts = append(counts, pc)
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBand(row scanner) (*domain.Band, error) {
	var (
		b     domain.Band
		genre sql.NullString
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Hometown, &genre); err != nil {
		return nil, err
	}
	b.Genre = genre.String
	return &b, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/gigbook/internal/domain"
	"github.com/msomdec/gigbook/internal/identity"
)

const concertsTable = "concerts"

// ConcertStore implements domain.ConcertRepository using SQLite.
type ConcertStore struct {
	h     *Handle
	cache *identity.Map[domain.Concert]

	bands  domain.BandLookup
	venues domain.VenueLookup
}

func newConcertStore(h *Handle, cache *identity.Map[domain.Concert]) *ConcertStore {
	return &ConcertStore{h: h, cache: cache}
}

func (s *ConcertStore) CreateTable(ctx context.Context) error {
	_, err := s.h.Exec(ctx, concertsTable, "create_table",
		`CREATE TABLE IF NOT EXISTS concerts (
			id INTEGER PRIMARY KEY,
			band_id INTEGER,
			venue_id INTEGER,
			date TEXT,
			FOREIGN KEY (band_id) REFERENCES bands(id),
			FOREIGN KEY (venue_id) REFERENCES venues(id)
		)`)
	if err != nil {
		return fmt.Errorf("create concerts table: %w", err)
	}
	return nil
}

func (s *ConcertStore) DropTable(ctx context.Context) error {
	if _, err := s.h.Exec(ctx, concertsTable, "drop_table", "DROP TABLE IF EXISTS concerts"); err != nil {
		return fmt.Errorf("drop concerts table: %w", err)
	}
	s.cache.Clear()
	return nil
}

// Create builds a concert and saves it.
func (s *ConcertStore) Create(ctx context.Context, bandID, venueID int64, date string) (*domain.Concert, error) {
	concert := &domain.Concert{BandID: bandID, VenueID: venueID, Date: date}
	if err := s.Save(ctx, concert); err != nil {
		return nil, err
	}
	return concert, nil
}

// Save inserts a row for a transient concert. The referenced band and venue
// must exist.
func (s *ConcertStore) Save(ctx context.Context, concert *domain.Concert) error {
	if concert.Persisted() {
		return fmt.Errorf("save concert %d: %w", concert.ID, domain.ErrAlreadyPersisted)
	}

	result, err := s.h.Exec(ctx, concertsTable, "insert",
		`INSERT INTO concerts (band_id, venue_id, date) VALUES (?, ?, ?)`,
		concert.BandID, concert.VenueID, concert.Date,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("insert concert: band %d or venue %d does not exist: %w",
				concert.BandID, concert.VenueID, domain.ErrReferentialFailure)
		}
		return fmt.Errorf("insert concert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	concert.ID = id
	s.cache.Put(id, concert)
	return nil
}

func (s *ConcertStore) Update(ctx context.Context, concert *domain.Concert) error {
	if !concert.Persisted() {
		return fmt.Errorf("update concert: %w", domain.ErrNotPersisted)
	}

	result, err := s.h.Exec(ctx, concertsTable, "update",
		`UPDATE concerts SET band_id = ?, venue_id = ?, date = ? WHERE id = ?`,
		concert.BandID, concert.VenueID, concert.Date, concert.ID,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("update concert %d: %w", concert.ID, domain.ErrReferentialFailure)
		}
		return fmt.Errorf("update concert: %w", err)
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

func (s *ConcertStore) Delete(ctx context.Context, concert *domain.Concert) error {
	if !concert.Persisted() {
		return fmt.Errorf("delete concert: %w", domain.ErrNotPersisted)
	}

	result, err := s.h.Exec(ctx, concertsTable, "delete", "DELETE FROM concerts WHERE id = ?", concert.ID)
	if err != nil {
		return fmt.Errorf("delete concert: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	s.cache.Evict(concert.ID)
	concert.ID = 0
	return nil
}

func (s *ConcertStore) FindByID(ctx context.Context, id int64) (*domain.Concert, error) {
	c := &domain.Concert{}
	err := s.h.QueryRow(ctx, concertsTable, "select",
		`SELECT id, band_id, venue_id, date FROM concerts WHERE id = ?`, id,
	).Scan(&c.ID, &c.BandID, &c.VenueID, &c.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get concert by id: %w", err)
	}
	return s.cache.Reconcile(c.ID, c), nil
}

func (s *ConcertStore) GetAll(ctx context.Context) ([]*domain.Concert, error) {
	return s.list(ctx, "list concerts",
		`SELECT id, band_id, venue_id, date FROM concerts ORDER BY id`)
}

func (s *ConcertStore) ListByBand(ctx context.Context, bandID int64) ([]*domain.Concert, error) {
	return s.list(ctx, "list concerts by band",
		`SELECT id, band_id, venue_id, date FROM concerts WHERE band_id = ? ORDER BY id`, bandID)
}

func (s *ConcertStore) ListByVenue(ctx context.Context, venueID int64) ([]*domain.Concert, error) {
	return s.list(ctx, "list concerts by venue",
		`SELECT id, band_id, venue_id, date FROM concerts WHERE venue_id = ? ORDER BY id`, venueID)
}

// FindByVenueAndDate returns the first concert at the venue on exactly date.
func (s *ConcertStore) FindByVenueAndDate(ctx context.Context, venueID int64, date string) (*domain.Concert, error) {
	c := &domain.Concert{}
	err := s.h.QueryRow(ctx, concertsTable, "select",
		`SELECT id, band_id, venue_id, date FROM concerts
		 WHERE venue_id = ? AND date = ? ORDER BY id LIMIT 1`, venueID, date,
	).Scan(&c.ID, &c.BandID, &c.VenueID, &c.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get concert by venue and date: %w", err)
	}
	return s.cache.Reconcile(c.ID, c), nil
}

// Band resolves the concert's band.
func (s *ConcertStore) Band(ctx context.Context, concert *domain.Concert) (*domain.Band, error) {
	return s.bands.FindByID(ctx, concert.BandID)
}

// Venue resolves the concert's venue.
func (s *ConcertStore) Venue(ctx context.Context, concert *domain.Concert) (*domain.Venue, error) {
	return s.venues.FindByID(ctx, concert.VenueID)
}

// IsHometownShow reports whether the concert's venue is in the band's hometown.
func (s *ConcertStore) IsHometownShow(ctx context.Context, concert *domain.Concert) (bool, error) {
	band, venue, err := s.participants(ctx, concert)
	if err != nil {
		return false, err
	}
	return venue.City == band.Hometown, nil
}

// Introduction returns the band's stage greeting for this concert.
func (s *ConcertStore) Introduction(ctx context.Context, concert *domain.Concert) (string, error) {
	band, venue, err := s.participants(ctx, concert)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Hello %s!!!!! We are %s and i am a %s", venue.City, band.Name, band.Genre), nil
}

func (s *ConcertStore) participants(ctx context.Context, concert *domain.Concert) (*domain.Band, *domain.Venue, error) {
	band, err := s.Band(ctx, concert)
	if err != nil {
		return nil, nil, fmt.Errorf("band of concert %d: %w", concert.ID, err)
	}
	venue, err := s.Venue(ctx, concert)
	if err != nil {
		return nil, nil, fmt.Errorf("venue of concert %d: %w", concert.ID, err)
	}
	return band, venue, nil
}

func (s *ConcertStore) list(ctx context.Context, what, query string, args ...any) ([]*domain.Concert, error) {
	rows, err := s.h.Query(ctx, concertsTable, "select", query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	var concerts []*domain.Concert
	for rows.Next() {
		c := &domain.Concert{}
		if err := rows.Scan(&c.ID, &c.BandID, &c.VenueID, &c.Date); err != nil {
			return nil, fmt.Errorf("scan concert: %w", err)
		}
		concerts = append(concerts, s.cache.Reconcile(c.ID, c))
	}
	return concerts, rows.Err()
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/gigbook/internal/domain"
	"github.com/msomdec/gigbook/internal/identity"
)

const venuesTable = "venues"

// VenueStore implements domain.VenueRepository using SQLite.
type VenueStore struct {
	h     *Handle
	cache *identity.Map[domain.Venue]

	bands    domain.BandLookup
	concerts domain.ConcertLookup
}

func newVenueStore(h *Handle, cache *identity.Map[domain.Venue]) *VenueStore {
	return &VenueStore{h: h, cache: cache}
}

func (s *VenueStore) CreateTable(ctx context.Context) error {
	_, err := s.h.Exec(ctx, venuesTable, "create_table",
		`CREATE TABLE IF NOT EXISTS venues (
			id INTEGER PRIMARY KEY,
			name TEXT,
			city TEXT
		)`)
	if err != nil {
		return fmt.Errorf("create venues table: %w", err)
	}
	return nil
}

func (s *VenueStore) DropTable(ctx context.Context) error {
	if _, err := s.h.Exec(ctx, venuesTable, "drop_table", "DROP TABLE IF EXISTS venues"); err != nil {
		return fmt.Errorf("drop venues table: %w", err)
	}
	s.cache.Clear()
	return nil
}

// Create builds a venue and saves it.
func (s *VenueStore) Create(ctx context.Context, name, city string) (*domain.Venue, error) {
	venue := &domain.Venue{Name: name, City: city}
	if err := s.Save(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

func (s *VenueStore) Save(ctx context.Context, venue *domain.Venue) error {
	if venue.Persisted() {
		return fmt.Errorf("save venue %d: %w", venue.ID, domain.ErrAlreadyPersisted)
	}

	result, err := s.h.Exec(ctx, venuesTable, "insert",
		`INSERT INTO venues (name, city) VALUES (?, ?)`, venue.Name, venue.City)
	if err != nil {
		return fmt.Errorf("insert venue: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	venue.ID = id
	s.cache.Put(id, venue)
	return nil
}

func (s *VenueStore) Update(ctx context.Context, venue *domain.Venue) error {
	if !venue.Persisted() {
		return fmt.Errorf("update venue: %w", domain.ErrNotPersisted)
	}

	result, err := s.h.Exec(ctx, venuesTable, "update",
		`UPDATE venues SET name = ?, city = ? WHERE id = ?`, venue.Name, venue.City, venue.ID)
	if err != nil {
		return fmt.Errorf("update venue: %w", err)
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

func (s *VenueStore) Delete(ctx context.Context, venue *domain.Venue) error {
	if !venue.Persisted() {
		return fmt.Errorf("delete venue: %w", domain.ErrNotPersisted)
	}

	result, err := s.h.Exec(ctx, venuesTable, "delete", "DELETE FROM venues WHERE id = ?", venue.ID)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("delete venue %d: venue has concerts: %w", venue.ID, domain.ErrReferentialFailure)
		}
		return fmt.Errorf("delete venue: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	s.cache.Evict(venue.ID)
	venue.ID = 0
	return nil
}

func (s *VenueStore) FindByID(ctx context.Context, id int64) (*domain.Venue, error) {
	v := &domain.Venue{}
	err := s.h.QueryRow(ctx, venuesTable, "select",
		`SELECT id, name, city FROM venues WHERE id = ?`, id,
	).Scan(&v.ID, &v.Name, &v.City)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get venue by id: %w", err)
	}
	return s.cache.Reconcile(v.ID, v), nil
}

// FindByName returns the first venue with the given name.
func (s *VenueStore) FindByName(ctx context.Context, name string) (*domain.Venue, error) {
	v := &domain.Venue{}
	err := s.h.QueryRow(ctx, venuesTable, "select",
		`SELECT id, name, city FROM venues WHERE name = ? ORDER BY id LIMIT 1`, name,
	).Scan(&v.ID, &v.Name, &v.City)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get venue by name: %w", err)
	}
	return s.cache.Reconcile(v.ID, v), nil
}

func (s *VenueStore) GetAll(ctx context.Context) ([]*domain.Venue, error) {
	rows, err := s.h.Query(ctx, venuesTable, "select", `SELECT id, name, city FROM venues ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var venues []*domain.Venue
	for rows.Next() {
		v := &domain.Venue{}
		if err := rows.Scan(&v.ID, &v.Name, &v.City); err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, s.cache.Reconcile(v.ID, v))
	}
	return venues, rows.Err()
}

func (s *VenueStore) ConcertsOf(ctx context.Context, venue *domain.Venue) ([]*domain.Concert, error) {
	if !venue.Persisted() {
		return nil, fmt.Errorf("concerts of venue: %w", domain.ErrNotPersisted)
	}
	return s.concerts.ListByVenue(ctx, venue.ID)
}

// BandsOf returns the band of every concert at the venue. A band that played
// the venue more than once appears once per concert.
func (s *VenueStore) BandsOf(ctx context.Context, venue *domain.Venue) ([]*domain.Band, error) {
	concerts, err := s.ConcertsOf(ctx, venue)
	if err != nil {
		return nil, err
	}

	bands := make([]*domain.Band, 0, len(concerts))
	for _, c := range concerts {
		band, err := s.bands.FindByID(ctx, c.BandID)
		if err != nil {
			return nil, fmt.Errorf("band of concert %d: %w", c.ID, err)
		}
		bands = append(bands, band)
	}
	return bands, nil
}

// ConcertOn returns the first concert at the venue whose date equals date exactly.
func (s *VenueStore) ConcertOn(ctx context.Context, venue *domain.Venue, date string) (*domain.Concert, error) {
	if !venue.Persisted() {
		return nil, fmt.Errorf("concert on: %w", domain.ErrNotPersisted)
	}
	return s.concerts.FindByVenueAndDate(ctx, venue.ID, date)
}

func (s *VenueStore) MostFrequentBand(ctx context.Context, venue *domain.Venue) (*domain.Band, error) {
	if !venue.Persisted() {
		return nil, fmt.Errorf("most frequent band: %w", domain.ErrNotPersisted)
	}

	// No secondary ordering: ties go to whichever group SQLite yields first.
	var bandID int64
	err := s.h.QueryRow(ctx, concertsTable, "aggregate",
		`SELECT band_id
		 FROM concerts
		 WHERE venue_id = ?
		 GROUP BY band_id
		 ORDER BY COUNT(*) DESC
		 LIMIT 1`, venue.ID,
	).Scan(&bandID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("most frequent band: %w", err)
	}

	return s.bands.FindByID(ctx, bandID)
}

package domain

import (
	"context"
	"fmt"
)

// Venue is a place where concerts happen. City doubles as the venue's
// location for hometown-show checks.
type Venue struct {
	ID   int64
	Name string
	City string
}

// Persisted reports whether the venue is backed by a table row.
func (v *Venue) Persisted() bool {
	return v != nil && v.ID != 0
}

func (v *Venue) String() string {
	return fmt.Sprintf("<Venue %d: %s, %s>", v.ID, v.Name, v.City)
}

// VenueLookup resolves venues by primary key or by name.
type VenueLookup interface {
	FindByID(ctx context.Context, id int64) (*Venue, error)
	FindByName(ctx context.Context, name string) (*Venue, error)
}

// VenueRepository defines persistence and association operations for venues.
type VenueRepository interface {
	VenueLookup
	CreateTable(ctx context.Context) error
	DropTable(ctx context.Context) error
	Create(ctx context.Context, name, city string) (*Venue, error)
	Save(ctx context.Context, venue *Venue) error
	Update(ctx context.Context, venue *Venue) error
	Delete(ctx context.Context, venue *Venue) error
	GetAll(ctx context.Context) ([]*Venue, error)
	ConcertsOf(ctx context.Context, venue *Venue) ([]*Concert, error)
	BandsOf(ctx context.Context, venue *Venue) ([]*Band, error)
	ConcertOn(ctx context.Context, venue *Venue, date string) (*Concert, error)
	// MostFrequentBand returns the band with the most concerts at the venue.
	// Ties resolve to whichever row the database yields first.
	MostFrequentBand(ctx context.Context, venue *Venue) (*Band, error)
}

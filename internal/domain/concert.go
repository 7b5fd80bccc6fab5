package domain

import (
	"context"
	"fmt"
)

// Concert links a band to a venue on a date. Date is an ISO date string and
// is not validated.
type Concert struct {
	ID      int64
	BandID  int64
	VenueID int64
	Date    string
}

// Persisted reports whether the concert is backed by a table row.
func (c *Concert) Persisted() bool {
	return c != nil && c.ID != 0
}

func (c *Concert) String() string {
	return fmt.Sprintf("<Concert %d: %d, %d, %s>", c.ID, c.BandID, c.VenueID, c.Date)
}

// ConcertLookup is the slice of ConcertStore the band and venue stores use
// for reverse associations and booking.
type ConcertLookup interface {
	FindByID(ctx context.Context, id int64) (*Concert, error)
	Create(ctx context.Context, bandID, venueID int64, date string) (*Concert, error)
	ListByBand(ctx context.Context, bandID int64) ([]*Concert, error)
	ListByVenue(ctx context.Context, venueID int64) ([]*Concert, error)
	FindByVenueAndDate(ctx context.Context, venueID int64, date string) (*Concert, error)
}

// ConcertRepository defines persistence and association operations for concerts.
type ConcertRepository interface {
	ConcertLookup
	CreateTable(ctx context.Context) error
	DropTable(ctx context.Context) error
	Save(ctx context.Context, concert *Concert) error
	Update(ctx context.Context, concert *Concert) error
	Delete(ctx context.Context, concert *Concert) error
	GetAll(ctx context.Context) ([]*Concert, error)
	Band(ctx context.Context, concert *Concert) (*Band, error)
	Venue(ctx context.Context, concert *Concert) (*Venue, error)
	IsHometownShow(ctx context.Context, concert *Concert) (bool, error)
	Introduction(ctx context.Context, concert *Concert) (string, error)
}

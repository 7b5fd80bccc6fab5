package domain

import (
	"context"
	"fmt"
)

// Band is a performing act. Genre is optional and stored as NULL when empty.
type Band struct {
	ID       int64
	Name     string
	Hometown string
	Genre    string
}

// Persisted reports whether the band is backed by a table row.
func (b *Band) Persisted() bool {
	return b != nil && b.ID != 0
}

func (b *Band) String() string {
	return fmt.Sprintf("<Band %d: %s, %s, %s>", b.ID, b.Name, b.Hometown, b.Genre)
}

// BandLookup resolves bands by primary key. ConcertStore depends on it
// instead of on a concrete band store.
type BandLookup interface {
	FindByID(ctx context.Context, id int64) (*Band, error)
}

// BandRepository defines persistence and association operations for bands.
type BandRepository interface {
	BandLookup
	CreateTable(ctx context.Context) error
	DropTable(ctx context.Context) error
	Create(ctx context.Context, name, hometown, genre string) (*Band, error)
	Save(ctx context.Context, band *Band) error
	Update(ctx context.Context, band *Band) error
	Delete(ctx context.Context, band *Band) error
	FindByName(ctx context.Context, name string) (*Band, error)
	GetAll(ctx context.Context) ([]*Band, error)
	ConcertsOf(ctx context.Context, band *Band) ([]*Concert, error)
	// VenuesOf returns one venue per concert, so a venue played twice
	// appears twice.
	VenuesOf(ctx context.Context, band *Band) ([]*Venue, error)
	BookConcert(ctx context.Context, band *Band, venueName, date string) (*Concert, error)
	IntroductionLines(ctx context.Context, band *Band) ([]string, error)
	MostPerformances(ctx context.Context) ([]*Band, error)
}

// Package seed populates an empty store with sample bands, venues and concerts.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/msomdec/gigbook/internal/domain"
)

type sampleBand struct{ name, hometown string }

type sampleVenue struct{ name, city string }

type sampleConcert struct{ band, venue, date string }

var (
	sampleBands = []sampleBand{
		{"Band 1", "City 1"},
		{"Band 2", "City 2"},
		{"Band 3", "City 3"},
	}
	sampleVenues = []sampleVenue{
		{"Venue 1", "City 1"},
		{"Venue 2", "City 2"},
		{"Venue 3", "City 3"},
	}
	sampleConcerts = []sampleConcert{
		{"Band 1", "Venue 1", "2022-01-01"},
		{"Band 1", "Venue 2", "2022-01-02"},
		{"Band 2", "Venue 1", "2022-01-03"},
		{"Band 2", "Venue 3", "2022-01-04"},
		{"Band 3", "Venue 2", "2022-01-05"},
	}
)

// Run inserts the sample data through the stores. It is idempotent: rows
// that already exist, matched by name (or by venue and date for concerts),
// are left alone.
func Run(ctx context.Context, bands domain.BandRepository, venues domain.VenueRepository) error {
	for _, sb := range sampleBands {
		_, err := bands.FindByName(ctx, sb.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("check band %s: %w", sb.name, err)
		}
		if _, err := bands.Create(ctx, sb.name, sb.hometown, ""); err != nil {
			return fmt.Errorf("seed band %s: %w", sb.name, err)
		}
	}

	for _, sv := range sampleVenues {
		_, err := venues.FindByName(ctx, sv.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("check venue %s: %w", sv.name, err)
		}
		if _, err := venues.Create(ctx, sv.name, sv.city); err != nil {
			return fmt.Errorf("seed venue %s: %w", sv.name, err)
		}
	}

	for _, sc := range sampleConcerts {
		venue, err := venues.FindByName(ctx, sc.venue)
		if err != nil {
			return fmt.Errorf("venue %s: %w", sc.venue, err)
		}
		_, err = venues.ConcertOn(ctx, venue, sc.date)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("check concert %s at %s: %w", sc.date, sc.venue, err)
		}

		band, err := bands.FindByName(ctx, sc.band)
		if err != nil {
			return fmt.Errorf("band %s: %w", sc.band, err)
		}
		if _, err := bands.BookConcert(ctx, band, sc.venue, sc.date); err != nil {
			return fmt.Errorf("seed concert %s at %s: %w", sc.band, sc.venue, err)
		}
	}

	slog.InfoContext(ctx, "sample data seeded",
		"bands", len(sampleBands), "venues", len(sampleVenues), "concerts", len(sampleConcerts))
	return nil
}

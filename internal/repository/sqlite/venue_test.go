package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/gigbook/internal/domain"
)

func TestVenueStore_Create(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	venue, err := db.Venues().Create(ctx, "Barrowland", "Glasgow")
	require.NoError(t, err)
	require.NotZero(t, venue.ID)

	found, err := db.Venues().FindByID(ctx, venue.ID)
	require.NoError(t, err)
	assert.Same(t, venue, found)
	assert.Equal(t, "Barrowland", found.Name)
	assert.Equal(t, "Glasgow", found.City)
}

func TestVenueStore_Save_AlreadyPersisted(t *testing.T) {
	db := newTestDB(t)

	venue := mustVenue(t, db, "Hall", "City")

	err := db.Venues().Save(context.Background(), venue)
	require.ErrorIs(t, err, domain.ErrAlreadyPersisted)
	assert.Equal(t, 1, countRows(t, db, "venues"))
}

func TestVenueStore_FindByName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	venue := mustVenue(t, db, "Club", "Town")

	found, err := db.Venues().FindByName(ctx, "Club")
	require.NoError(t, err)
	assert.Same(t, venue, found)

	_, err = db.Venues().FindByName(ctx, "club")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVenueStore_GetAll(t *testing.T) {
	db := newTestDB(t)

	mustVenue(t, db, "One", "A")
	mustVenue(t, db, "Two", "B")

	venues, err := db.Venues().GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, venues, 2)
	assert.Equal(t, "One", venues[0].Name)
	assert.Equal(t, "Two", venues[1].Name)
}

func TestVenueStore_Update(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	venue := mustVenue(t, db, "Old Name", "Old City")
	venue.Name = "New Name"
	venue.City = "New City"
	require.NoError(t, db.Venues().Update(ctx, venue))

	var name, city string
	require.NoError(t, db.SqlDB.QueryRowContext(ctx,
		"SELECT name, city FROM venues WHERE id = ?", venue.ID).Scan(&name, &city))
	assert.Equal(t, "New Name", name)
	assert.Equal(t, "New City", city)

	err := db.Venues().Update(ctx, &domain.Venue{Name: "Transient"})
	require.ErrorIs(t, err, domain.ErrNotPersisted)
}

func TestVenueStore_Delete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	venue := mustVenue(t, db, "Closing", "Down")
	id := venue.ID

	require.NoError(t, db.Venues().Delete(ctx, venue))
	assert.Zero(t, venue.ID)

	_, err := db.Venues().FindByID(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = db.Venues().Delete(ctx, venue)
	require.ErrorIs(t, err, domain.ErrNotPersisted)
}

func TestVenueStore_Delete_WithConcerts(t *testing.T) {
	db := newTestDB(t)

	venue := mustVenue(t, db, "Hall", "City")
	mustConcert(t, db, mustBand(t, db, "Band", "Home", ""), venue, "2022-01-01")

	err := db.Venues().Delete(context.Background(), venue)
	require.ErrorIs(t, err, domain.ErrReferentialFailure)
	assert.True(t, venue.Persisted())
}

func TestVenueStore_ConcertsOf(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	hall := mustVenue(t, db, "Hall", "City")
	club := mustVenue(t, db, "Club", "Town")
	band := mustBand(t, db, "Band", "Home", "")
	c1 := mustConcert(t, db, band, hall, "2022-01-01")
	mustConcert(t, db, band, club, "2022-01-02")

	concerts, err := db.Venues().ConcertsOf(ctx, hall)
	require.NoError(t, err)
	require.Len(t, concerts, 1)
	assert.Same(t, c1, concerts[0])
}

func TestVenueStore_BandsOf_KeepsDuplicates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	venue := mustVenue(t, db, "Hall", "City")
	regular := mustBand(t, db, "Regular", "Home", "")
	guest := mustBand(t, db, "Guest", "Away", "")
	mustConcert(t, db, regular, venue, "2022-01-01")
	mustConcert(t, db, guest, venue, "2022-01-02")
	mustConcert(t, db, regular, venue, "2022-01-03")

	bands, err := db.Venues().BandsOf(ctx, venue)
	require.NoError(t, err)
	require.Len(t, bands, 3)
	assert.Same(t, regular, bands[0])
	assert.Same(t, guest, bands[1])
	assert.Same(t, regular, bands[2])
}

func TestVenueStore_ConcertOn(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	venue := mustVenue(t, db, "Hall", "City")
	band := mustBand(t, db, "Band", "Home", "")
	mustConcert(t, db, band, venue, "2022-01-01")
	want := mustConcert(t, db, band, venue, "2022-01-02")

	got, err := db.Venues().ConcertOn(ctx, venue, "2022-01-02")
	require.NoError(t, err)
	assert.Same(t, want, got)

	_, err = db.Venues().ConcertOn(ctx, venue, "2022-01-02T20:00")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVenueStore_MostFrequentBand(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	venue := mustVenue(t, db, "Hall", "City")
	regular := mustBand(t, db, "Regular", "Home", "")
	guest := mustBand(t, db, "Guest", "Away", "")
	mustConcert(t, db, guest, venue, "2022-01-01")
	mustConcert(t, db, regular, venue, "2022-01-02")
	mustConcert(t, db, regular, venue, "2022-01-03")

	top, err := db.Venues().MostFrequentBand(ctx, venue)
	require.NoError(t, err)
	assert.Same(t, regular, top)
}

func TestVenueStore_MostFrequentBand_NoConcerts(t *testing.T) {
	db := newTestDB(t)

	venue := mustVenue(t, db, "Empty", "City")

	_, err := db.Venues().MostFrequentBand(context.Background(), venue)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

package content

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/harborline/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.Open("", 1)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	store, err := NewStore(database)
	require.NoError(t, err)
	return store
}

func TestGalleryCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := &GalleryEntry{Title: "Harbor View", ImageID: uuid.New()}
	require.NoError(t, store.CreateGalleryEntry(ctx, entry))
	require.NotEqual(t, uuid.Nil, entry.ID)

	got, err := store.GetGalleryEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harbor View", got.Title)
	assert.Equal(t, entry.ImageID, got.ImageID)

	require.NoError(t, store.UpdateGalleryTitle(ctx, entry.ID, "Harbor View at Dusk"))
	got, err = store.GetGalleryEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harbor View at Dusk", got.Title)

	old, err := store.DeleteGalleryEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, old)
	assert.Equal(t, entry.ImageID, *old)

	_, err = store.GetGalleryEntry(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGalleryValidation(t *testing.T) {
	store := newTestStore(t)

	err := store.CreateGalleryEntry(context.Background(), &GalleryEntry{Title: "", ImageID: uuid.New()})
	require.Error(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
}

func TestSwapGalleryImage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	firstImage := uuid.New()
	entry := &GalleryEntry{Title: "Pier 4", ImageID: firstImage}
	require.NoError(t, store.CreateGalleryEntry(ctx, entry))

	newImage := uuid.New()
	old, err := store.SwapGalleryImage(ctx, entry.ID, newImage)
	require.NoError(t, err)
	require.NotNil(t, old)
	assert.Equal(t, firstImage, *old)

	got, err := store.GetGalleryEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, newImage, got.ImageID)

	_, err = store.SwapGalleryImage(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPageSectionImageSwap(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	page := &Page{
		Slug:  "About Us",
		Title: "About Us",
		Sections: []Section{
			{Type: SectionHero, Hero: &HeroSection{Heading: "Who we are"}},
			{Type: SectionText, Text: &TextSection{Body: "Decades of coastal freight."}},
		},
	}
	require.NoError(t, store.CreatePage(ctx, page))
	assert.Equal(t, "about-us", page.Slug)

	newImage := uuid.New()
	old, err := store.SwapSectionImage(ctx, "about-us", 0, newImage)
	require.NoError(t, err)
	assert.Nil(t, old)

	got, err := store.GetPage(ctx, "about-us")
	require.NoError(t, err)
	require.NotNil(t, got.Sections[0].ImageRef())
	assert.Equal(t, newImage, *got.Sections[0].ImageRef())

	// other sections untouched
	assert.Equal(t, "Decades of coastal freight.", got.Sections[1].Text.Body)

	// swapping a text section fails validation
	_, err = store.SwapSectionImage(ctx, "about-us", 1, uuid.New())
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	// out of range index
	_, err = store.SwapSectionImage(ctx, "about-us", 7, uuid.New())
	assert.ErrorAs(t, err, &verr)

	// unknown page
	_, err = store.SwapSectionImage(ctx, "no-such-page", 0, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleSingletonUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetSchedule(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	first := uuid.New()
	old, err := store.UpsertSchedule(ctx, &Schedule{FileID: first, Filename: "q1.pdf", ContentType: "application/pdf"})
	require.NoError(t, err)
	assert.Nil(t, old)

	second := uuid.New()
	old, err = store.UpsertSchedule(ctx, &Schedule{FileID: second, Filename: "q2.pdf", ContentType: "application/pdf"})
	require.NoError(t, err)
	require.NotNil(t, old)
	assert.Equal(t, first, *old)

	got, err := store.GetSchedule(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got.FileID)
	assert.Equal(t, "q2.pdf", got.Filename)

	// only ever one row
	var count int
	require.NoError(t, store.db.Get(&count, "SELECT COUNT(*) FROM schedule"))
	assert.Equal(t, 1, count)
}

func TestLocationCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lat, lng := -33.86, 151.2
	loc := &Location{Name: "Port Botany", Address: "Sydney NSW", Lat: &lat, Lng: &lng}
	require.NoError(t, store.CreateLocation(ctx, loc))

	got, err := store.GetLocation(ctx, loc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Lat)
	assert.InDelta(t, -33.86, *got.Lat, 0.0001)

	got.Address = "Botany Bay, Sydney NSW"
	require.NoError(t, store.UpdateLocation(ctx, got))

	require.NoError(t, store.DeleteLocation(ctx, loc.ID))
	_, err = store.GetLocation(ctx, loc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// idempotent delete
	assert.NoError(t, store.DeleteLocation(ctx, loc.ID))
}

func TestMessageValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.CreateMessage(ctx, &Message{Name: "A", Email: "not-an-email", Body: "hi"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	msg := &Message{Name: "Alex", Email: "alex@example.com", Subject: "Rates", Body: "Quote please"}
	require.NoError(t, store.CreateMessage(ctx, msg))

	list, err := store.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Rates", list[0].Subject)
}

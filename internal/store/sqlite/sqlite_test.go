package sqlite

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhoard/internal/models"
	"linkhoard/internal/store"
)

func setupTestStore(t *testing.T) *Store {
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newBookmark(url string) *models.Bookmark {
	return &models.Bookmark{
		ID:    uuid.NewString(),
		Title: "Title for " + url,
		URL:   url,
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	b := newBookmark("https://example.com/a")
	b.Category = "Development"
	b.Tags = []string{"go", "testing"}
	require.NoError(t, s.CreateBookmark(ctx, b))

	got, err := s.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Title, got.Title)
	assert.Equal(t, "Development", got.Category)
	assert.Equal(t, []string{"go", "testing"}, got.Tags)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_GetMissing(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetBookmark(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_DuplicateURL(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBookmark(ctx, newBookmark("https://example.com/dup")))
	err := s.CreateBookmark(ctx, newBookmark("https://example.com/dup"))
	assert.ErrorIs(t, err, models.ErrUniqueViolation)
}

func TestStore_ListFilters(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a := newBookmark("https://example.com/1")
	a.Category = "News"
	a.Tags = []string{"daily"}
	b := newBookmark("https://example.com/2")
	b.Category = "News"
	c := newBookmark("https://example.com/3") // uncategorized
	for _, bm := range []*models.Bookmark{a, b, c} {
		require.NoError(t, s.CreateBookmark(ctx, bm))
	}

	news, err := s.ListBookmarks(ctx, store.BookmarkFilter{Category: "News"})
	require.NoError(t, err)
	assert.Len(t, news, 2)

	uncat, err := s.ListBookmarks(ctx, store.BookmarkFilter{Uncategorized: true})
	require.NoError(t, err)
	require.Len(t, uncat, 1)
	assert.Equal(t, c.ID, uncat[0].ID)

	tagged, err := s.ListBookmarks(ctx, store.BookmarkFilter{Tag: "daily"})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, a.ID, tagged[0].ID)

	limited, err := s.ListBookmarks(ctx, store.BookmarkFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_UpdateAndDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	b := newBookmark("https://example.com/x")
	require.NoError(t, s.CreateBookmark(ctx, b))

	b.Title = "Renamed"
	b.Category = "Reference"
	require.NoError(t, s.UpdateBookmark(ctx, b))

	got, err := s.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "Reference", got.Category)

	require.NoError(t, s.DeleteBookmark(ctx, b.ID))
	_, err = s.GetBookmark(ctx, b.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, s.DeleteBookmark(ctx, b.ID), models.ErrNotFound)
	assert.ErrorIs(t, s.UpdateBookmark(ctx, b), models.ErrNotFound)
}

func TestStore_ListCategories(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i, cat := range []string{"News", "", "Development", "News"} {
		b := newBookmark("https://example.com/c" + string(rune('a'+i)))
		b.Category = cat
		require.NoError(t, s.CreateBookmark(ctx, b))
	}

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Development", "News"}, cats)
}

func TestStore_ApplyClassifications(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	b := newBookmark("https://example.com/ai")
	b.Tags = []string{"existing"}
	require.NoError(t, s.CreateBookmark(ctx, b))

	applied, err := s.ApplyClassifications(ctx, []models.Classification{
		{BookmarkID: b.ID, Category: "Development", Tags: []string{"go", "existing"}},
		{BookmarkID: "ghost", Category: "Other", Tags: []string{"ignored"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, applied, "unknown bookmark ids are skipped")

	got, err := s.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Development", got.Category)
	assert.Equal(t, []string{"existing", "go"}, got.Tags, "tags are unioned without duplicates")
}

func TestStore_ApplyClassificationsEmpty(t *testing.T) {
	s := setupTestStore(t)

	applied, err := s.ApplyClassifications(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, applied)
}

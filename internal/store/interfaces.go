package store

import (
	"context"

	"linkhoard/internal/models"
)

// BookmarkFilter narrows a List call. Zero value lists everything.
type BookmarkFilter struct {
	Category      string
	Tag           string
	Uncategorized bool // only bookmarks with no category yet
	Limit         int
}

// BookmarkStore is the persistence boundary. The organization pipeline does
// not touch it; reconciliation of classifications happens here, driven by
// the caller.
type BookmarkStore interface {
	Ping(ctx context.Context) error
	Close() error

	CreateBookmark(ctx context.Context, b *models.Bookmark) error
	GetBookmark(ctx context.Context, id string) (*models.Bookmark, error)
	ListBookmarks(ctx context.Context, f BookmarkFilter) ([]*models.Bookmark, error)
	UpdateBookmark(ctx context.Context, b *models.Bookmark) error
	DeleteBookmark(ctx context.Context, id string) error

	// ListCategories returns the distinct categories currently in use.
	ListCategories(ctx context.Context) ([]string, error)

	// ApplyClassifications merges AI suggestions back into bookmarks: the
	// category is replaced, tags are unioned with existing ones. Unknown
	// bookmark ids are skipped. Returns the number of bookmarks updated.
	ApplyClassifications(ctx context.Context, cs []models.Classification) (int, error)
}

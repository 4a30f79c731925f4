package models

import (
	"time"
)

// Bookmark is a stored link with its organization metadata.
type Bookmark struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Category  string    `json:"category,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Classification is an AI suggestion to merge back into a bookmark.
// Tags are unioned with the bookmark's existing tags on apply.
type Classification struct {
	BookmarkID string   `json:"bookmark_id"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
}

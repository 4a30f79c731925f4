// Package sqlite implements the bookmark store on a local SQLite file,
// mirroring the single-user, local-first nature of the app.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"linkhoard/internal/models"
	"linkhoard/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS bookmarks (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	url        TEXT NOT NULL UNIQUE,
	category   TEXT NOT NULL DEFAULT '',
	tags       TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bookmarks_category ON bookmarks(category);
`

// Store implements store.BookmarkStore on SQLite.
type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path cannot be empty")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *Store) Close() error                   { return s.db.Close() }

func (s *Store) CreateBookmark(ctx context.Context, b *models.Bookmark) error {
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	tags, err := marshalTags(b.Tags)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bookmarks (id, title, url, category, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.URL, b.Category, tags, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: url %s", models.ErrUniqueViolation, b.URL)
		}
		return fmt.Errorf("insert bookmark: %w", err)
	}
	return nil
}

func (s *Store) GetBookmark(ctx context.Context, id string) (*models.Bookmark, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, url, category, tags, created_at, updated_at
		 FROM bookmarks WHERE id = ?`, id)
	b, err := scanBookmark(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: bookmark %s", models.ErrNotFound, id)
	}
	return b, err
}

func (s *Store) ListBookmarks(ctx context.Context, f store.BookmarkFilter) ([]*models.Bookmark, error) {
	query := `SELECT id, title, url, category, tags, created_at, updated_at FROM bookmarks`
	var conds []string
	var args []any
	if f.Uncategorized {
		conds = append(conds, `category = ''`)
	} else if f.Category != "" {
		conds = append(conds, `category = ?`)
		args = append(args, f.Category)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var result []*models.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		// Tag filtering happens here; tags live in a JSON column.
		if f.Tag != "" && !hasTag(b.Tags, f.Tag) {
			continue
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (s *Store) UpdateBookmark(ctx context.Context, b *models.Bookmark) error {
	b.UpdatedAt = time.Now().UTC()
	tags, err := marshalTags(b.Tags)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookmarks SET title = ?, url = ?, category = ?, tags = ?, updated_at = ?
		 WHERE id = ?`,
		b.Title, b.URL, b.Category, tags, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("update bookmark: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: bookmark %s", models.ErrNotFound, b.ID)
	}
	return nil
}

func (s *Store) DeleteBookmark(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: bookmark %s", models.ErrNotFound, id)
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM bookmarks WHERE category != '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) ApplyClassifications(ctx context.Context, cs []models.Classification) (int, error) {
	if len(cs) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	applied := 0
	for _, c := range cs {
		var tagsJSON string
		err := tx.QueryRowContext(ctx,
			`SELECT tags FROM bookmarks WHERE id = ?`, c.BookmarkID).Scan(&tagsJSON)
		if errors.Is(err, sql.ErrNoRows) {
			log.Warnf("Skipping classification for unknown bookmark %s", c.BookmarkID)
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("load bookmark %s: %w", c.BookmarkID, err)
		}

		existing := unmarshalTags(tagsJSON)
		merged, err := marshalTags(unionTags(existing, c.Tags))
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE bookmarks SET category = ?, tags = ?, updated_at = ? WHERE id = ?`,
			c.Category, merged, time.Now().UTC(), c.BookmarkID); err != nil {
			return 0, fmt.Errorf("apply classification to %s: %w", c.BookmarkID, err)
		}
		applied++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return applied, nil
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row rowScanner) (*models.Bookmark, error) {
	var b models.Bookmark
	var tagsJSON string
	err := row.Scan(&b.ID, &b.Title, &b.URL, &b.Category, &tagsJSON, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Tags = unmarshalTags(tagsJSON)
	return &b, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(b), nil
}

func unmarshalTags(raw string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		log.Warnf("Corrupt tags column %q, treating as empty", raw)
		return []string{}
	}
	return tags
}

func unionTags(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing)+len(incoming))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, t := range append(append([]string{}, existing...), incoming...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		merged = append(merged, t)
	}
	return merged
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

var _ store.BookmarkStore = (*Store)(nil)

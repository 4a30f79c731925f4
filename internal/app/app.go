package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"linkhoard/internal/config"
	"linkhoard/internal/models"
	"linkhoard/internal/organize"
	"linkhoard/internal/store"
	"linkhoard/internal/store/sqlite"
)

// App wires the stores and services every command and handler uses.
type App struct {
	Config    *config.Config
	Bookmarks store.BookmarkStore
	Organizer *organize.Organizer

	jobClientOnce sync.Once
	jobClient     *asynq.Client
}

func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	configureLogging(cfg)

	bookmarks, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("init bookmark store: %w", err)
	}

	a := &App{
		Config:    cfg,
		Bookmarks: bookmarks,
	}
	a.Organizer = organize.New(a)
	log.Debug("Application initialization complete")
	return a, nil
}

func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// Settings implements organize.SettingsSource. The organizer calls it fresh
// for every chunk.
func (a *App) Settings() organize.Settings {
	ai := a.Config.AI
	return organize.Settings{
		Provider:         ai.Provider,
		GeminiAPIKey:     ai.Gemini.APIKey,
		GeminiModel:      ai.Gemini.Model,
		OpenRouterAPIKey: ai.OpenRouter.APIKey,
		OpenRouterModel:  ai.OpenRouter.Model,
		OllamaBaseURL:    ai.Ollama.BaseURL,
		OllamaModel:      ai.Ollama.Model,
		OllamaAPIKey:     ai.Ollama.APIKey,
		BatchSize:        ai.BatchSize,
		BatchDelay:       time.Duration(ai.BatchDelayMs) * time.Millisecond,
	}
}

// JobClient returns the shared asynq client, creating it on first use so
// commands that never enqueue jobs don't need Redis.
func (a *App) JobClient() *asynq.Client {
	a.jobClientOnce.Do(func() {
		a.jobClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     a.Config.Redis.Address,
			Password: a.Config.Redis.Password,
			DB:       a.Config.Redis.DB,
		})
	})
	return a.jobClient
}

func (a *App) Close() {
	if a.jobClient != nil {
		a.jobClient.Close()
	}
	if a.Bookmarks != nil {
		a.Bookmarks.Close()
	}
}

// OrganizeReport summarizes one pipeline run.
type OrganizeReport struct {
	Submitted int                             `json:"submitted"`
	Results   []organize.ClassificationResult `json:"results"`
	Applied   int                             `json:"applied"`
}

// Partial reports whether the run stopped early (cancellation or a chunk
// failure), leaving some submitted bookmarks unclassified. Those can simply
// be re-run.
func (r *OrganizeReport) Partial() bool {
	return len(r.Results) < r.Submitted
}

// RunOrganization selects bookmarks, runs the AI pipeline, and reconciles
// the classifications back into the store. With no ids it targets all
// uncategorized bookmarks. Cancellation yields a partial report, not an
// error.
func (a *App) RunOrganization(ctx context.Context, ids []string) (*OrganizeReport, error) {
	bookmarks, err := a.selectBookmarks(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]organize.WorkItem, len(bookmarks))
	for i, b := range bookmarks {
		items[i] = organize.WorkItem{ID: b.ID, Title: b.Title, URL: b.URL}
	}

	categories, err := a.Bookmarks.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	results := a.Organizer.Organize(ctx, items, categories)

	classifications := make([]models.Classification, len(results))
	for i, r := range results {
		classifications[i] = models.Classification{
			BookmarkID: r.ID,
			Category:   r.Category,
			Tags:       r.Tags,
		}
	}
	// Apply with a fresh context: even a cancelled run persists what it got.
	applied, err := a.Bookmarks.ApplyClassifications(context.WithoutCancel(ctx), classifications)
	if err != nil {
		return nil, fmt.Errorf("apply classifications: %w", err)
	}

	report := &OrganizeReport{Submitted: len(items), Results: results, Applied: applied}
	if report.Partial() {
		log.Warnf("Organized %d of %d bookmarks; re-run to pick up the remainder", len(results), len(items))
	}
	return report, nil
}

func (a *App) selectBookmarks(ctx context.Context, ids []string) ([]*models.Bookmark, error) {
	if len(ids) == 0 {
		return a.Bookmarks.ListBookmarks(ctx, store.BookmarkFilter{Uncategorized: true})
	}
	bookmarks := make([]*models.Bookmark, 0, len(ids))
	for _, id := range ids {
		b, err := a.Bookmarks.GetBookmark(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				log.Warnf("Skipping unknown bookmark %s", id)
				continue
			}
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, nil
}

// Package organize implements the batch AI organization pipeline: chunking a
// list of bookmarks, dispatching each chunk to the configured LLM provider,
// retrying with backoff, falling back between providers, and aggregating the
// classifications that come back. Persistence is the caller's job.
package organize

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// Organizer drives the batch pipeline. Chunks are processed strictly
// sequentially to stay friendly to provider rate limits.
type Organizer struct {
	source SettingsSource

	// Seams for tests; production uses NewProvider and sleepCtx.
	factory func(Settings) (Provider, error)
	sleep   func(context.Context, time.Duration) error
}

func New(source SettingsSource) *Organizer {
	return &Organizer{
		source:  source,
		factory: NewProvider,
		sleep:   sleepCtx,
	}
}

// Organize classifies items and returns whatever was aggregated. It never
// returns an error: a terminal or retry-exhausted chunk failure stops the
// loop early, and cancellation is a clean stop, both yielding the partial
// results collected so far. Empty input returns immediately with no network
// activity.
func (o *Organizer) Organize(ctx context.Context, items []WorkItem, existingCategories []string) []ClassificationResult {
	results := make([]ClassificationResult, 0, len(items))
	if len(items) == 0 {
		return results
	}

	chunks := chunkItems(items, o.source.Settings().BatchSize)
	log.Infof("Organizing %d bookmarks in %d batches", len(items), len(chunks))

	for i, chunk := range chunks {
		if ctx.Err() != nil {
			log.Info("Organization cancelled, returning partial results")
			return results
		}

		chunkResults, err := o.dispatchWithRetry(ctx, chunk, existingCategories)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info("Organization cancelled, returning partial results")
				return results
			}
			log.Warnf("Batch %d/%d failed, stopping with partial results: %v", i+1, len(chunks), err)
			return results
		}
		results = append(results, chunkResults...)

		if i < len(chunks)-1 {
			// Delay is re-read so a settings change mid-run applies.
			if err := o.sleep(ctx, o.source.Settings().BatchDelay); err != nil {
				log.Info("Organization cancelled during batch delay, returning partial results")
				return results
			}
		}
	}
	return results
}

// chunkItems splits items into contiguous, order-preserving groups of at most
// size elements, covering the input exactly once.
func chunkItems(items []WorkItem, size int) [][]WorkItem {
	if size < 1 {
		size = 1
	}
	chunks := make([][]WorkItem, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

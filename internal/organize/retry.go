package organize

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// maxChunkRetries bounds the retries after the initial attempt.
	maxChunkRetries = 5

	baseBackoff    = 1 * time.Second
	rateLimitFloor = 10 * time.Second
	rateLimitStep  = 5 * time.Second

	// fallbackGeminiModel is the fixed model used for the one-shot
	// OpenRouter -> Gemini fallback.
	fallbackGeminiModel = defaultGeminiModel
)

// backoffDelay computes the wait before retry number retry (0-based).
// Rate limits get a longer floor that grows linearly; everything else is
// plain exponential.
func backoffDelay(retry int, rateLimited bool) time.Duration {
	if rateLimited {
		return rateLimitFloor + time.Duration(retry)*rateLimitStep
	}
	return baseBackoff << uint(retry)
}

// sleepCtx waits d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// dispatchWithRetry drives one chunk to completion: exponential backoff on
// transient failures, a longer cooldown on rate limits, an immediate stop on
// terminal errors, and a single cross-provider fallback attempt when
// OpenRouter looks down and a Gemini key is configured.
//
// Settings are re-read from the source on every attempt so a mid-run change
// takes effect on the next dispatch.
func (o *Organizer) dispatchWithRetry(ctx context.Context, chunk []WorkItem, existingCategories []string) ([]ClassificationResult, error) {
	fallbackTried := false

	for retry := 0; ; retry++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s := o.source.Settings()
		provider, err := o.factory(s)
		var raw string
		if err == nil {
			raw, err = provider.Dispatch(ctx, chunk, existingCategories)
		}
		if err == nil {
			return Parse(raw), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isTerminal(err) {
			return nil, err
		}

		// One-shot fallback: only wired for the OpenRouter -> Gemini pair.
		if !fallbackTried && s.Provider == ProviderOpenRouter &&
			isFallbackTrigger(err) && s.GeminiAPIKey != "" {
			fallbackTried = true
			if results, ok := o.tryFallback(ctx, s, chunk, existingCategories); ok {
				return results, nil
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}

		if retry >= maxChunkRetries {
			log.Warnf("Chunk dispatch failed after %d retries: %v", maxChunkRetries, err)
			return nil, err
		}

		delay := backoffDelay(retry, isRateLimited(err))
		log.Debugf("Chunk dispatch failed (retry %d/%d in %s): %v", retry+1, maxChunkRetries, delay, err)
		if err := o.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// tryFallback makes exactly one direct Gemini call with the fixed fallback
// model. A fallback failure is swallowed; the caller's retry loop proceeds.
func (o *Organizer) tryFallback(ctx context.Context, s Settings, chunk []WorkItem, existingCategories []string) ([]ClassificationResult, bool) {
	fs := s
	fs.Provider = ProviderGemini
	fs.GeminiModel = fallbackGeminiModel

	provider, err := o.factory(fs)
	if err != nil {
		log.Warnf("Gemini fallback unavailable: %v", err)
		return nil, false
	}
	log.Infof("OpenRouter unavailable, attempting one-shot Gemini fallback (%s)", fallbackGeminiModel)
	raw, err := provider.Dispatch(ctx, chunk, existingCategories)
	if err != nil {
		log.Warnf("Gemini fallback failed: %v", err)
		return nil, false
	}
	return Parse(raw), true
}

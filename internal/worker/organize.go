// Package worker holds the asynq task handlers for background jobs.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"linkhoard/internal/tasks"
)

// OrganizeFunc runs the organization pipeline for the given bookmark ids
// (empty means all uncategorized) and reports whether results were partial.
// The app package provides the production implementation; taking a function
// here avoids a wiring cycle with it.
type OrganizeFunc func(ctx context.Context, ids []string) (partial bool, err error)

// HandleOrganizeJob returns the handler for tasks.TypeOrganizeJob.
func HandleOrganizeJob(run OrganizeFunc) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload tasks.OrganizePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("decode organize payload: %w", err)
		}

		log.Infof("Running background organization (%d explicit bookmarks)", len(payload.BookmarkIDs))
		partial, err := run(ctx, payload.BookmarkIDs)
		if err != nil {
			return fmt.Errorf("organize job: %w", err)
		}
		if partial {
			log.Warn("Background organization finished with partial results")
		}
		return nil
	}
}

package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task types handled by the worker process.
const (
	// TypeOrganizeJob runs the AI organization pipeline in the background.
	TypeOrganizeJob = "organize:run"
)

// OrganizePayload selects which bookmarks to organize. Empty BookmarkIDs
// means all uncategorized bookmarks.
type OrganizePayload struct {
	BookmarkIDs []string `json:"bookmark_ids,omitempty"`
}

func NewOrganizeTask(ids []string) (*asynq.Task, error) {
	payload, err := json.Marshal(OrganizePayload{BookmarkIDs: ids})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrganizeJob, payload), nil
}

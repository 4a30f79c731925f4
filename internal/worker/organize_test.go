package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhoard/internal/tasks"
)

func TestHandleOrganizeJob(t *testing.T) {
	var gotIDs []string
	handler := HandleOrganizeJob(func(ctx context.Context, ids []string) (bool, error) {
		gotIDs = ids
		return false, nil
	})

	task, err := tasks.NewOrganizeTask([]string{"a", "b"})
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	assert.Equal(t, []string{"a", "b"}, gotIDs)
}

func TestHandleOrganizeJob_RunError(t *testing.T) {
	handler := HandleOrganizeJob(func(ctx context.Context, ids []string) (bool, error) {
		return false, errors.New("provider down")
	})

	task, err := tasks.NewOrganizeTask(nil)
	require.NoError(t, err)

	err = handler(context.Background(), task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestHandleOrganizeJob_BadPayload(t *testing.T) {
	handler := HandleOrganizeJob(func(ctx context.Context, ids []string) (bool, error) {
		t.Fatal("runner should not be called for a bad payload")
		return false, nil
	})

	err := handler(context.Background(), asynq.NewTask(tasks.TypeOrganizeJob, []byte("{not json")))
	assert.Error(t, err)
}

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/document-printer/internal/models"
	"github.com/feichai0017/document-printer/internal/printer"
	"github.com/feichai0017/document-printer/pkg/logger"
	"github.com/feichai0017/document-printer/pkg/queue"
)

type stubJobs struct {
	err  error
	seen []*models.PrintJob
}

func (s *stubJobs) HandlePrintJob(ctx context.Context, job *models.PrintJob) error {
	s.seen = append(s.seen, job)
	return s.err
}

func newTestWorker(jobs JobHandler) *PrintWorker {
	return &PrintWorker{
		BaseWorker: BaseWorker{logger: logger.NewTestLogger()},
		jobs:       jobs,
	}
}

func printTask(t *testing.T) *asynq.Task {
	t.Helper()
	task, err := queue.NewPrintTask(&models.PrintJob{
		ID:       "job-1",
		Document: "Resume.pdf",
		FileID:   "jobs/job-1/Resume.pdf",
	})
	require.NoError(t, err)
	return task
}

func TestHandlePrint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		jobs := &stubJobs{}
		err := newTestWorker(jobs).handlePrint(context.Background(), printTask(t))
		require.NoError(t, err)
		require.Len(t, jobs.seen, 1)
		assert.Equal(t, "Resume.pdf", jobs.seen[0].Document)
	})

	t.Run("offline is not retried", func(t *testing.T) {
		jobs := &stubJobs{err: fmt.Errorf("job job-1 not printed: %w", printer.ErrOffline)}
		err := newTestWorker(jobs).handlePrint(context.Background(), printTask(t))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("other failures are retried", func(t *testing.T) {
		jobs := &stubJobs{err: errors.New("storage unavailable")}
		err := newTestWorker(jobs).handlePrint(context.Background(), printTask(t))
		require.Error(t, err)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("malformed payload", func(t *testing.T) {
		jobs := &stubJobs{}
		err := newTestWorker(jobs).handlePrint(context.Background(),
			asynq.NewTask(queue.TaskTypePrintDocument, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.Empty(t, jobs.seen)
	})
}

func TestResultPayloadIsValidJSON(t *testing.T) {
	job := &models.PrintJob{ID: "job-1"}

	data := resultPayload(job, fmt.Errorf("bad byte \x01 in %q: %w", "doc", printer.ErrOffline))
	require.True(t, json.Valid(data), string(data))

	var res printResult
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, "job-1", res.JobID)
	assert.Equal(t, models.JobOffline, res.Status)
	assert.Contains(t, res.Error, "\x01")

	require.NoError(t, json.Unmarshal(resultPayload(job, nil), &res))
	assert.Equal(t, models.JobCompleted, res.Status)
	assert.Empty(t, res.Error)
}

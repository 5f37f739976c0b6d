package queue

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/document-printer/internal/models"
)

func TestPrintTaskPayload(t *testing.T) {
	job := &models.PrintJob{
		ID:        "job-1",
		Document:  "Resume.pdf",
		FileID:    "jobs/job-1/Resume.pdf",
		Size:      12,
		Status:    models.JobPending,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	task, err := NewPrintTask(job)
	require.NoError(t, err)
	assert.Equal(t, TaskTypePrintDocument, task.Type())

	got, err := ParsePrintTask(task)
	require.NoError(t, err)
	assert.Equal(t, job.FileID, got.FileID)
	assert.True(t, job.CreatedAt.Equal(got.CreatedAt))
}

func TestParsePrintTaskRejectsBadPayload(t *testing.T) {
	_, err := ParsePrintTask(asynq.NewTask(TaskTypePrintDocument, []byte("not json")))
	assert.ErrorContains(t, err, "unmarshal")

	_, err = ParsePrintTask(asynq.NewTask(TaskTypePrintDocument, []byte(`{"id":"x"}`)))
	assert.ErrorContains(t, err, "missing required fields")
}

func TestConvertAsynqState(t *testing.T) {
	assert.Equal(t, models.JobPending, convertAsynqState(asynq.TaskStatePending))
	assert.Equal(t, models.JobPending, convertAsynqState(asynq.TaskStateScheduled))
	assert.Equal(t, models.JobRunning, convertAsynqState(asynq.TaskStateActive))
	assert.Equal(t, models.JobCompleted, convertAsynqState(asynq.TaskStateCompleted))
	assert.Equal(t, models.JobFailed, convertAsynqState(asynq.TaskStateArchived))
}

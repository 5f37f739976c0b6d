package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/feichai0017/document-printer/config"
	"github.com/feichai0017/document-printer/internal/models"
)

// TaskTypePrintDocument 打印任务类型
const TaskTypePrintDocument = "printer:print"

const (
	defaultQueue   = "default"
	statusKeyFmt   = "print_job:%s"
	processTimeout = 5 * time.Minute
)

// ErrJobNotFound is returned when neither redis nor asynq knows the job.
var ErrJobNotFound = errors.New("print job not found")

// Queue 打印任务队列
type Queue interface {
	Enqueue(ctx context.Context, job *models.PrintJob) error
	GetStatus(ctx context.Context, jobID string) (*models.PrintJob, error)
	SaveStatus(ctx context.Context, job *models.PrintJob) error
}

// AsynqQueue 基于 asynq 的实现，任务状态额外保存在 Redis
type AsynqQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	redis     *redis.Client
	queues    []string
	maxRetry  int
	statusTTL time.Duration
}

func RedisClientOpt(c config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}
}

func NewAsynqQueue(rc config.RedisConfig, qc config.QueueConfig) *AsynqQueue {
	redisOpt := RedisClientOpt(rc)

	queues := make([]string, 0, len(qc.Queues))
	for name := range qc.Queues {
		queues = append(queues, name)
	}

	return &AsynqQueue{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		redis: redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		}),
		queues:    queues,
		maxRetry:  qc.MaxRetry,
		statusTTL: qc.StatusTTL,
	}
}

// NewPrintTask 将打印任务序列化为 asynq 任务
func NewPrintTask(job *models.PrintJob) (*asynq.Task, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal print job: %w", err)
	}
	return asynq.NewTask(TaskTypePrintDocument, payload), nil
}

// ParsePrintTask decodes and checks the payload of a print task.
func ParsePrintTask(t *asynq.Task) (*models.PrintJob, error) {
	var job models.PrintJob
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal print job: %w", err)
	}
	if job.ID == "" || job.Document == "" || job.FileID == "" {
		return nil, fmt.Errorf("invalid print job: missing required fields")
	}
	return &job, nil
}

// Enqueue 将任务加入队列
func (q *AsynqQueue) Enqueue(ctx context.Context, job *models.PrintJob) error {
	task, err := NewPrintTask(job)
	if err != nil {
		return err
	}

	_, err = q.client.EnqueueContext(ctx, task,
		asynq.Queue(defaultQueue),
		asynq.MaxRetry(q.maxRetry),
		asynq.Timeout(processTimeout),
		asynq.TaskID(job.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue print job: %w", err)
	}
	return nil
}

// GetStatus 先查 Redis，再查 asynq 各队列
func (q *AsynqQueue) GetStatus(ctx context.Context, jobID string) (*models.PrintJob, error) {
	data, err := q.redis.Get(ctx, fmt.Sprintf(statusKeyFmt, jobID)).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get status from redis: %w", err)
	}
	if err == nil {
		var job models.PrintJob
		if err := json.Unmarshal(data, &job); err != nil {
			return nil, fmt.Errorf("failed to unmarshal status: %w", err)
		}
		return &job, nil
	}

	for _, name := range q.queues {
		info, err := q.inspector.GetTaskInfo(name, jobID)
		if err != nil {
			continue
		}
		job, err := ParsePrintTask(asynq.NewTask(info.Type, info.Payload))
		if err != nil {
			return nil, err
		}
		job.Status = convertAsynqState(info.State)
		job.Error = info.LastErr
		return job, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
}

// SaveStatus 保存任务状态
func (q *AsynqQueue) SaveStatus(ctx context.Context, job *models.PrintJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	if err := q.redis.Set(ctx, fmt.Sprintf(statusKeyFmt, job.ID), data, q.statusTTL).Err(); err != nil {
		return fmt.Errorf("failed to save status: %w", err)
	}
	return nil
}

func (q *AsynqQueue) Close() error {
	return errors.Join(q.client.Close(), q.inspector.Close(), q.redis.Close())
}

func convertAsynqState(state asynq.TaskState) models.PrintJobStatus {
	switch state {
	case asynq.TaskStateActive:
		return models.JobRunning
	case asynq.TaskStateCompleted:
		return models.JobCompleted
	case asynq.TaskStateArchived, asynq.TaskStateRetry:
		return models.JobFailed
	default:
		return models.JobPending
	}
}

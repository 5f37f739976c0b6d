package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/feichai0017/document-printer/internal/models"
	"github.com/feichai0017/document-printer/internal/printer"
	"github.com/feichai0017/document-printer/pkg/logger"
	"github.com/feichai0017/document-printer/pkg/queue"
)

// JobHandler runs one decoded print job.
type JobHandler interface {
	HandlePrintJob(ctx context.Context, job *models.PrintJob) error
}

type PrintWorker struct {
	BaseWorker
	jobs JobHandler
}

func NewPrintWorker(cfg *Config, jobs JobHandler, log logger.Logger) *PrintWorker {
	log = log.Named("worker")
	server := asynq.NewServer(cfg.Redis, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      cfg.Queues,
		RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
			return time.Duration(n) * 10 * time.Second
		},
		Logger: asynqLogger{log},
	})

	w := &PrintWorker{
		BaseWorker: BaseWorker{
			server: server,
			mux:    asynq.NewServeMux(),
			logger: log,
		},
		jobs: jobs,
	}

	w.mux.HandleFunc(queue.TaskTypePrintDocument, w.handlePrint)
	return w
}

func (w *PrintWorker) handlePrint(ctx context.Context, t *asynq.Task) error {
	job, err := queue.ParsePrintTask(t)
	if err != nil {
		w.logger.Error("Dropping malformed print task",
			logger.String("payload", string(t.Payload())),
			logger.Error(err),
		)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	w.logger.Info("Received print job",
		logger.String("jobId", job.ID),
		logger.String("document", job.Document),
	)

	err = w.jobs.HandlePrintJob(ctx, job)
	writeResult(t, job, err)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, printer.ErrOffline):
		// 打印机已关闭，重试没有意义
		w.logger.Warn("Printer offline, job skipped", logger.String("jobId", job.ID))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	default:
		return err
	}
}

type printResult struct {
	JobID  string                `json:"jobId"`
	Status models.PrintJobStatus `json:"status"`
	Error  string                `json:"error"`
}

// writeResult records the outcome on the asynq task when it runs inside a
// server; tasks built directly have no result writer.
func writeResult(t *asynq.Task, job *models.PrintJob, err error) {
	rw := t.ResultWriter()
	if rw == nil {
		return
	}
	_, _ = rw.Write(resultPayload(job, err))
}

func resultPayload(job *models.PrintJob, err error) []byte {
	res := printResult{JobID: job.ID, Status: models.JobCompleted}
	if err != nil {
		res.Status = models.JobFailed
		if errors.Is(err, printer.ErrOffline) {
			res.Status = models.JobOffline
		}
		res.Error = err.Error()
	}
	data, _ := json.Marshal(res)
	return data
}

func (w *PrintWorker) Start(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}

// asynqLogger routes asynq's internal logs through our logger.
type asynqLogger struct {
	l logger.Logger
}

func (a asynqLogger) Debug(args ...interface{}) { a.l.Debug(fmt.Sprint(args...)) }
func (a asynqLogger) Info(args ...interface{})  { a.l.Info(fmt.Sprint(args...)) }
func (a asynqLogger) Warn(args ...interface{})  { a.l.Warn(fmt.Sprint(args...)) }
func (a asynqLogger) Error(args ...interface{}) { a.l.Error(fmt.Sprint(args...)) }
func (a asynqLogger) Fatal(args ...interface{}) { a.l.Fatal(fmt.Sprint(args...)) }

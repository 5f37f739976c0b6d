package spool

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/feichai0017/document-printer/internal/models"
	"github.com/feichai0017/document-printer/internal/printer"
	"github.com/feichai0017/document-printer/internal/utils/validator"
	"github.com/feichai0017/document-printer/pkg/logger"
	"github.com/feichai0017/document-printer/pkg/queue"
	"github.com/feichai0017/document-printer/pkg/storage"
)

// ErrInvalidUpload wraps every validation failure of Submit.
var ErrInvalidUpload = errors.New("invalid upload")

type PrintService struct {
	printers  *printer.Provider
	queue     queue.Queue
	storage   storage.Storage
	validator *validator.DocumentValidator
	logger    logger.Logger
}

func NewService(
	printers *printer.Provider,
	q queue.Queue,
	store storage.Storage,
	v *validator.DocumentValidator,
	log logger.Logger,
) *PrintService {
	return &PrintService{
		printers:  printers,
		queue:     q,
		storage:   store,
		validator: v,
		logger:    log.Named("spool"),
	}
}

// Submit 校验并存储上传文件，然后加入打印队列
func (s *PrintService) Submit(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*models.PrintJob, error) {
	result, err := s.validator.ValidateFile(header)
	if err != nil {
		return nil, err
	}
	if !result.IsValid {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUpload, result.Errors[0])
	}

	now := time.Now()
	job := &models.PrintJob{
		ID:        uuid.New().String(),
		Document:  result.FileInfo.Filename,
		Size:      result.FileInfo.Size,
		Hash:      result.FileInfo.Hash,
		Status:    models.JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 存储文件
	fileID, err := s.storage.Store(ctx, file, path.Join("jobs", job.ID, job.Document))
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}
	job.FileID = fileID

	// 保存初始状态再入队，避免 worker 先完成后被覆盖
	if err := s.queue.SaveStatus(ctx, job); err != nil {
		s.logger.Error("Failed to save initial status",
			logger.String("jobId", job.ID),
			logger.Error(err),
		)
	}

	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.finish(ctx, job, models.JobFailed, err)
		if delErr := s.storage.Delete(ctx, fileID); delErr != nil {
			s.logger.Warn("Failed to remove orphaned spool file",
				logger.String("fileId", fileID),
				logger.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	s.logger.Info("Print job submitted",
		logger.String("jobId", job.ID),
		logger.String("document", job.Document),
		logger.Int64("size", job.Size),
	)
	return job, nil
}

// HandlePrintJob runs one queued job against the shared printer. It returns
// printer.ErrOffline (wrapped) when the printer has been shut down.
func (s *PrintService) HandlePrintJob(ctx context.Context, job *models.PrintJob) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("invalid job: missing required data")
	}
	ctx = logger.ContextWithJobID(ctx, job.ID)
	log := logger.FromContext(ctx, s.logger)

	reader, err := s.storage.Get(ctx, job.FileID)
	if err != nil {
		s.finish(ctx, job, models.JobFailed, err)
		return fmt.Errorf("failed to get spool file: %w", err)
	}
	reader.Close()

	job.Status = models.JobRunning
	job.UpdatedAt = time.Now()
	if err := s.queue.SaveStatus(ctx, job); err != nil {
		log.Warn("Failed to save running status", logger.Error(err))
	}

	err = s.printers.Get().Print(ctx, job.Document)
	switch {
	case errors.Is(err, printer.ErrOffline):
		s.finish(ctx, job, models.JobOffline, err)
		return fmt.Errorf("job %s not printed: %w", job.ID, err)
	case err != nil:
		s.finish(ctx, job, models.JobFailed, err)
		return fmt.Errorf("job %s failed: %w", job.ID, err)
	}

	if err := s.storage.Delete(ctx, job.FileID); err != nil {
		log.Warn("Failed to remove printed spool file", logger.Error(err))
	}
	s.finish(ctx, job, models.JobCompleted, nil)
	return nil
}

func (s *PrintService) finish(ctx context.Context, job *models.PrintJob, status models.PrintJobStatus, cause error) {
	now := time.Now()
	job.Status = status
	job.UpdatedAt = now
	job.FinishedAt = now
	job.Error = ""
	if cause != nil {
		job.Error = cause.Error()
	}
	if err := s.queue.SaveStatus(ctx, job); err != nil {
		s.logger.Error("Failed to save final status",
			logger.String("jobId", job.ID),
			logger.String("status", string(status)),
			logger.Error(err),
		)
	}
}

func (s *PrintService) GetJob(ctx context.Context, jobID string) (*models.PrintJob, error) {
	job, err := s.queue.GetStatus(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job status: %w", err)
	}
	return job, nil
}

func (s *PrintService) PrinterState() printer.State {
	return s.printers.State()
}

// Shutdown 关闭打印机，之后的任务都会以 offline 结束
func (s *PrintService) Shutdown(ctx context.Context) error {
	s.printers.Get().Shutdown()
	return nil
}

// CleanupSpool removes spool files older than maxAge. Completed jobs delete
// their own file; this catches the ones left by offline and failed jobs.
func (s *PrintService) CleanupSpool(ctx context.Context, maxAge time.Duration) error {
	threshold := time.Now().Add(-maxAge)
	if err := s.storage.CleanupBefore(ctx, threshold); err != nil {
		return fmt.Errorf("failed to cleanup spool: %w", err)
	}

	s.logger.Info("Completed spool cleanup",
		logger.Time("threshold", threshold),
	)
	return nil
}

// RunCleanup calls CleanupSpool every interval until ctx is done.
func (s *PrintService) RunCleanup(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.CleanupSpool(ctx, maxAge); err != nil {
				s.logger.Warn("Spool cleanup failed", logger.Error(err))
			}
		}
	}
}

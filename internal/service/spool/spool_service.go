package spool

import (
	"context"
	"mime/multipart"

	"github.com/feichai0017/document-printer/internal/models"
	"github.com/feichai0017/document-printer/internal/printer"
)

type PrintSpooler interface {
	Submit(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*models.PrintJob, error)
	HandlePrintJob(ctx context.Context, job *models.PrintJob) error
	GetJob(ctx context.Context, jobID string) (*models.PrintJob, error)
	PrinterState() printer.State
	Shutdown(ctx context.Context) error
}

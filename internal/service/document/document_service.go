package document

import (
	"context"

	"github.com/feichai0017/document-printer/internal/models"
)

type DocumentParser interface {
	Parse(ctx context.Context, filename string) (*models.ParseResult, error)
	ParseBatch(ctx context.Context, filenames []string) ([]*models.ParseResult, error)
	SupportedFormats() []string
}

package document

import (
	"context"
	"fmt"

	"github.com/feichai0017/document-printer/internal/agent"
	"github.com/feichai0017/document-printer/internal/models"
	"github.com/feichai0017/document-printer/pkg/logger"
)

// MaxBatchSize bounds the names accepted by one ParseBatch call.
const MaxBatchSize = 100

type DocumentService struct {
	factory *agent.ParserFactory
	logger  logger.Logger
}

func NewService(factory *agent.ParserFactory, log logger.Logger) DocumentParser {
	return &DocumentService{
		factory: factory,
		logger:  log,
	}
}

func (s *DocumentService) Parse(ctx context.Context, filename string) (*models.ParseResult, error) {
	return s.factory.Parse(ctx, filename)
}

// ParseBatch 批量解析，遇到第一个失败即停止
func (s *DocumentService) ParseBatch(ctx context.Context, filenames []string) ([]*models.ParseResult, error) {
	if len(filenames) == 0 {
		return nil, fmt.Errorf("no file names provided")
	}
	if len(filenames) > MaxBatchSize {
		return nil, fmt.Errorf("batch of %d exceeds limit of %d", len(filenames), MaxBatchSize)
	}

	results, err := s.factory.ParseBatch(ctx, filenames)
	if err != nil {
		s.logger.Warn("Batch parse stopped",
			logger.Int("parsed", len(results)),
			logger.Int("requested", len(filenames)),
			logger.Error(err),
		)
		return results, err
	}
	return results, nil
}

func (s *DocumentService) SupportedFormats() []string {
	return s.factory.SupportedExtensions()
}

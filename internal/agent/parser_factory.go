package agent

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/feichai0017/document-printer/internal/agent/document"
	"github.com/feichai0017/document-printer/internal/metrics"
	"github.com/feichai0017/document-printer/internal/models"
	"github.com/feichai0017/document-printer/pkg/logger"
)

type ParserFactory struct {
	logger logger.Logger
}

func NewParserFactory(log logger.Logger) *ParserFactory {
	return &ParserFactory{
		logger: log.Named("parser"),
	}
}

// ExtractExtension returns the text after the last '.' of the base name.
func ExtractExtension(name string) (string, error) {
	base := filepath.Base(name)
	idx := strings.LastIndex(base, ".")
	if idx < 0 || idx == len(base)-1 {
		return "", fmt.Errorf("%w: %q", ErrNoExtension, name)
	}
	return base[idx+1:], nil
}

// GetParser 根据文件名选择解析器，按注册顺序取第一个匹配
func (f *ParserFactory) GetParser(name string) (document.Kind, error) {
	ext, err := ExtractExtension(name)
	if err != nil {
		f.logger.Error("Cannot determine file type",
			logger.String("file", name),
		)
		return document.KindUnknown, err
	}

	if k, ok := document.Match(ext); ok {
		f.logger.Debug("Selected parser",
			logger.String("file", name),
			logger.String("parser", k.String()),
		)
		return k, nil
	}

	f.logger.Error("Unsupported file type",
		logger.String("file", name),
		logger.String("extension", ext),
	)
	return document.KindUnknown, &UnsupportedFormatError{Extension: ext}
}

// Parse 选择解析器并返回解析结果
func (f *ParserFactory) Parse(ctx context.Context, name string) (*models.ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind, err := f.GetParser(name)
	if err != nil {
		metrics.ParseRequestsTotal.WithLabelValues(document.KindUnknown.String(), outcomeOf(err)).Inc()
		return nil, err
	}

	ext, _ := ExtractExtension(name)
	result := &models.ParseResult{
		FileName:  name,
		Extension: strings.ToLower(ext),
		Parser:    kind.String(),
		Content:   kind.Parse(models.Document{Name: name}),
		ParsedAt:  time.Now(),
	}
	metrics.ParseRequestsTotal.WithLabelValues(kind.String(), metrics.OutcomeOK).Inc()

	f.logger.Info("Document parsed",
		logger.String("file", name),
		logger.String("parser", result.Parser),
		logger.String("content", result.Content),
	)
	return result, nil
}

// ParseBatch parses names in order and stops at the first failure; the names
// after it are never attempted. Results parsed before the failure are returned
// with the error.
func (f *ParserFactory) ParseBatch(ctx context.Context, names []string) ([]*models.ParseResult, error) {
	results := make([]*models.ParseResult, 0, len(names))
	for _, name := range names {
		result, err := f.Parse(ctx, name)
		if err != nil {
			return results, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// SupportedExtensions 按注册顺序返回所有支持的扩展名
func (f *ParserFactory) SupportedExtensions() []string {
	var exts []string
	for _, k := range document.Kinds {
		exts = append(exts, k.Extensions()...)
	}
	return exts
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrNoExtension):
		return metrics.OutcomeNoExtension
	case errors.Is(err, ErrUnsupportedFormat):
		return metrics.OutcomeUnsupported
	default:
		return metrics.OutcomeFailed
	}
}

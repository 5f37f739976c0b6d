package document

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/document-printer/internal/agent"
	"github.com/feichai0017/document-printer/pkg/logger"
)

func newTestService() (DocumentParser, *logger.TestLogger) {
	tl := logger.NewTestLogger()
	return NewService(agent.NewParserFactory(tl), tl), tl
}

func TestParseBatchLimits(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ParseBatch(context.Background(), nil)
	assert.Error(t, err)

	names := make([]string, MaxBatchSize+1)
	for i := range names {
		names[i] = fmt.Sprintf("doc%d.pdf", i)
	}
	_, err = svc.ParseBatch(context.Background(), names)
	assert.ErrorContains(t, err, "exceeds limit")
}

func TestParseBatchStopsAtUnsupported(t *testing.T) {
	svc, tl := newTestService()

	results, err := svc.ParseBatch(context.Background(),
		[]string{"document.pdf", "report.docx", "data.xlsx", "presentation.odp"})
	require.ErrorIs(t, err, agent.ErrUnsupportedFormat)
	assert.Len(t, results, 3)
	assert.Equal(t, 1, tl.Count("Batch parse stopped"))
}

func TestSupportedFormats(t *testing.T) {
	svc, _ := newTestService()
	assert.Equal(t, []string{"pdf", "docx", "doc", "xlsx", "xls"}, svc.SupportedFormats())
}

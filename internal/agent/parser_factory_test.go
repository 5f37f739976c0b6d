package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/document-printer/internal/agent/document"
	"github.com/feichai0017/document-printer/pkg/logger"
)

func TestExtractExtension(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"document.pdf", "pdf"},
		{"archive.tar.gz", "gz"},
		{"dir.v2/report.DOCX", "DOCX"},
		{".xls", "xls"},
	}
	for _, tc := range cases {
		got, err := ExtractExtension(tc.name)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}

	for _, name := range []string{"README", "trailing.", "", "dir.v2/Makefile"} {
		_, err := ExtractExtension(name)
		assert.ErrorIs(t, err, ErrNoExtension, name)
	}
}

func TestParserFactory(t *testing.T) {
	factory := NewParserFactory(logger.NewTestLogger())
	ctx := context.Background()

	t.Run("supported extensions", func(t *testing.T) {
		cases := map[string]string{
			"a.pdf":  "PDF content extracted",
			"a.PDF":  "PDF content extracted",
			"a.docx": "Word document content extracted",
			"a.DOC":  "Word document content extracted",
			"a.xlsx": "Excel spreadsheet data extracted",
			"a.XLS":  "Excel spreadsheet data extracted",
		}
		for name, want := range cases {
			res, err := factory.Parse(ctx, name)
			require.NoError(t, err, name)
			assert.Equal(t, want, res.Content, name)
			assert.Equal(t, name, res.FileName)
		}
	})

	t.Run("unsupported format names the extension", func(t *testing.T) {
		_, err := factory.Parse(ctx, "presentation.odp")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)

		var ufe *UnsupportedFormatError
		require.True(t, errors.As(err, &ufe))
		assert.Equal(t, "odp", ufe.Extension)
		assert.Contains(t, err.Error(), "odp")
	})

	t.Run("no extension", func(t *testing.T) {
		kind, err := factory.GetParser("README")
		assert.ErrorIs(t, err, ErrNoExtension)
		assert.Equal(t, document.KindUnknown, kind)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := factory.Parse(cctx, "a.pdf")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("supported extension list", func(t *testing.T) {
		assert.Equal(t, []string{"pdf", "docx", "doc", "xlsx", "xls"}, factory.SupportedExtensions())
	})
}

func TestParseBatch(t *testing.T) {
	factory := NewParserFactory(logger.NewTestLogger())
	ctx := context.Background()

	t.Run("keeps input order", func(t *testing.T) {
		res, err := factory.ParseBatch(ctx, []string{"data.xlsx", "document.pdf", "report.docx"})
		require.NoError(t, err)
		require.Len(t, res, 3)
		assert.Equal(t, "excel", res[0].Parser)
		assert.Equal(t, "pdf", res[1].Parser)
		assert.Equal(t, "word", res[2].Parser)
	})

	t.Run("stops at first failure", func(t *testing.T) {
		names := []string{"document.pdf", "report.docx", "data.xlsx", "presentation.odp", "late.pdf"}
		res, err := factory.ParseBatch(ctx, names)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.Contains(t, err.Error(), "presentation.odp")
		require.Len(t, res, 3)
		assert.Equal(t, "Excel spreadsheet data extracted", res[2].Content)
	})

	t.Run("names after a failure are not parsed", func(t *testing.T) {
		tl := logger.NewTestLogger()
		f := NewParserFactory(tl)

		names := []string{"presentation.odp", "a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"}
		res, err := f.ParseBatch(ctx, names)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.Empty(t, res)
		assert.Zero(t, tl.Count("Document parsed"))
		assert.Equal(t, 1, tl.Count("Unsupported file type"))
	})
}

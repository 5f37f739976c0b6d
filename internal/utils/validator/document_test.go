package validator

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/document-printer/pkg/logger"
)

func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func codes(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidateFile(t *testing.T) {
	v := NewDocumentValidator(logger.NewTestLogger(), 16)

	data := []byte("contract")
	result, err := v.ValidateFile(fileHeader(t, "Contract.DOCX", data))
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, "Contract.DOCX", result.FileInfo.Filename)
	assert.Equal(t, "docx", result.FileInfo.Extension)
	assert.Equal(t, int64(len(data)), result.FileInfo.Size)

	sum := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), result.FileInfo.Hash)
}

func TestValidateFileRejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     []string
	}{
		{"empty", "Empty.pdf", nil, []string{"EMPTY_FILE"}},
		{"too large", "Large.pdf", bytes.Repeat([]byte("x"), 17), []string{"FILE_TOO_LARGE"}},
		{"no extension", "README", []byte("readme"), []string{"MISSING_EXTENSION"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := logger.NewTestLogger()
			v := NewDocumentValidator(tl, 16)

			result, err := v.ValidateFile(fileHeader(t, tt.filename, tt.data))
			require.NoError(t, err)
			assert.False(t, result.IsValid)
			assert.Equal(t, tt.want, codes(result.Errors))
			assert.Empty(t, result.FileInfo.Hash)
			assert.Equal(t, 1, tl.Count("Upload rejected"))
		})
	}
}

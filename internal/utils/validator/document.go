package validator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/feichai0017/document-printer/pkg/logger"
)

// DocumentValidator 打印文件上传验证器
type DocumentValidator struct {
	logger      logger.Logger
	maxFileSize int64
}

// ValidationResult 验证结果
type ValidationResult struct {
	IsValid  bool              `json:"isValid"`
	Errors   []ValidationError `json:"errors,omitempty"`
	FileInfo FileInfo          `json:"fileInfo"`
}

// ValidationError 验证错误
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// FileInfo 文件信息
type FileInfo struct {
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	Extension string `json:"extension"`
	Hash      string `json:"hash"`
}

func NewDocumentValidator(log logger.Logger, maxFileSize int64) *DocumentValidator {
	return &DocumentValidator{
		logger:      log,
		maxFileSize: maxFileSize,
	}
}

// ValidateFile 校验文件名与大小，并计算 sha256
func (v *DocumentValidator) ValidateFile(header *multipart.FileHeader) (*ValidationResult, error) {
	name := filepath.Base(header.Filename)
	result := &ValidationResult{
		IsValid: true,
		FileInfo: FileInfo{
			Filename:  name,
			Size:      header.Size,
			Extension: strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."),
		},
	}

	if errs := v.performBasicValidation(result.FileInfo); len(errs) > 0 {
		result.IsValid = false
		result.Errors = errs
		v.logger.Warn("Upload rejected",
			logger.String("filename", header.Filename),
			logger.Any("errors", errs),
		)
		return result, nil
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	hash, err := calculateHash(f)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}
	result.FileInfo.Hash = hash

	return result, nil
}

func (v *DocumentValidator) performBasicValidation(info FileInfo) []ValidationError {
	var errors []ValidationError

	if info.Filename == "" || info.Filename == "." || info.Filename == string(filepath.Separator) {
		errors = append(errors, ValidationError{
			Code:    "MISSING_FILENAME",
			Message: "File name is required",
			Field:   "filename",
		})
	}

	if info.Extension == "" {
		errors = append(errors, ValidationError{
			Code:    "MISSING_EXTENSION",
			Message: "File name has no extension",
			Field:   "filename",
		})
	}

	if info.Size <= 0 {
		errors = append(errors, ValidationError{
			Code:    "EMPTY_FILE",
			Message: "File is empty",
			Field:   "size",
		})
	}

	if info.Size > v.maxFileSize {
		errors = append(errors, ValidationError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum limit of %d bytes", v.maxFileSize),
			Field:   "size",
		})
	}

	return errors
}

func calculateHash(r io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

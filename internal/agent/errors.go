package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat 没有解析器支持该扩展名
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrNoExtension 文件名没有扩展名
	ErrNoExtension = errors.New("file name has no extension")
)

// UnsupportedFormatError carries the extension no parser accepted.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("no parser available for file type: %s", e.Extension)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

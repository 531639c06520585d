package uddf

import (
	"errors"
	"path/filepath"
	"strings"
)

// MaxFileSize UDDF 文件大小上限
const MaxFileSize = 10 << 20

const fileExtension = ".uddf"

var (
	ErrInvalidExtension = errors.New("file must have a .uddf extension")
	ErrEmptyFile        = errors.New("file is empty")
	ErrFileTooLarge     = errors.New("file exceeds 10 MiB")
)

// ValidateFile 上传前检查文件名与大小
func ValidateFile(name string, size int64) error {
	if !strings.EqualFold(filepath.Ext(name), fileExtension) {
		return ErrInvalidExtension
	}
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

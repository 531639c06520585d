package uddf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name string
		file string
		size int64
		want error
	}{
		{"ok", "log.uddf", 1024, nil},
		{"uppercase extension", "EXPORT.UDDF", 1, nil},
		{"at limit", "log.uddf", MaxFileSize, nil},
		{"wrong extension", "log.xml", 1024, ErrInvalidExtension},
		{"extension in name only", "uddf.txt", 1024, ErrInvalidExtension},
		{"empty", "log.uddf", 0, ErrEmptyFile},
		{"too large", "log.uddf", MaxFileSize + 1, ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateFile(tt.file, tt.size), tt.want)
		})
	}
}

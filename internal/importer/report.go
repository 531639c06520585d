package importer

import (
	"fmt"

	"github.com/langchou/divegazer/internal/models"
)

// Format 导入文件格式
type Format string

const (
	FormatUDDF       Format = "uddf"
	FormatSubsurface Format = "subsurface_csv"
)

// RecordError 单条记录解析失败，不影响同批其他记录
type RecordError struct {
	Index int   `json:"index"` // UDDF 为潜水序号，CSV 为行号 (从 1 开始，含表头)
	Err   error `json:"-"`
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Report 一次解析的结果
type Report struct {
	Format    Format         `json:"format"`
	Dives     []models.Dive  `json:"dives"`
	Skipped   []*RecordError `json:"skipped,omitempty"`
	Discarded int            `json:"discarded"` // 深度与时长均为 0 的空记录
}

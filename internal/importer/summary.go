package importer

import (
	"fmt"

	"github.com/langchou/divegazer/internal/models"
)

// label 摘要里使用的文件类型名
func (f Format) label() string {
	switch f {
	case FormatUDDF:
		return "UDDF"
	case FormatSubsurface:
		return "CSV"
	}
	return string(f)
}

// Summary 导入摘要，dives 按时间升序
func Summary(format Format, dives []models.Dive) string {
	if len(dives) == 0 {
		return fmt.Sprintf("No valid dives found in %s file", format.label())
	}

	locations := make(map[string]struct{}, len(dives))
	for _, d := range dives {
		locations[d.Location] = struct{}{}
	}

	dateRange := dives[0].DateTime.Format("2006-01-02")
	if len(dives) > 1 {
		dateRange += " to " + dives[len(dives)-1].DateTime.Format("2006-01-02")
	}

	return fmt.Sprintf("Found %d %s from %d %s (%s)",
		len(dives), plural(len(dives), "dive"),
		len(locations), plural(len(locations), "location"),
		dateRange,
	)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

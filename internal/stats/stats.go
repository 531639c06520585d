package stats

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/langchou/divegazer/internal/models"
	"github.com/langchou/divegazer/internal/units"
)

// MonthLayout 月份标签格式
const MonthLayout = "Jan 2006"

// DefaultRecentCount 最近潜水默认条数
const DefaultRecentCount = 5

// Statistics 潜水统计
type Statistics struct {
	TotalDives      int          `json:"total_dives"`
	TotalBottomTime int          `json:"total_bottom_time"` // 分钟
	MaxDepth        float64      `json:"max_depth"`
	AvgDepth        float64      `json:"avg_depth"`
	UniqueLocations int          `json:"unique_locations"`
	LastDiveDate    *time.Time   `json:"last_dive_date"`
	DeepestDive     *models.Dive `json:"deepest_dive"`
	LongestDive     *models.Dive `json:"longest_dive"`
}

// MonthCount 每月潜水次数
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Calculate 计算统计数据，空输入返回零值
func Calculate(dives []models.Dive) Statistics {
	if len(dives) == 0 {
		return Statistics{}
	}

	depths := make([]float64, len(dives))
	durations := make([]float64, len(dives))
	locations := make(map[string]struct{})
	last := dives[0].DateTime

	for i, d := range dives {
		depths[i] = d.Depth
		durations[i] = float64(d.Duration)
		locations[d.Location] = struct{}{}
		if d.DateTime.After(last) {
			last = d.DateTime
		}
	}

	// MaxIdx 并列时返回第一个
	deepest := dives[floats.MaxIdx(depths)]
	longest := dives[floats.MaxIdx(durations)]

	return Statistics{
		TotalDives:      len(dives),
		TotalBottomTime: int(floats.Sum(durations)),
		MaxDepth:        floats.Max(depths),
		AvgDepth:        units.RoundTo(stat.Mean(depths, nil), 1),
		UniqueLocations: len(locations),
		LastDiveDate:    &last,
		DeepestDive:     &deepest,
		LongestDive:     &longest,
	}
}

// DivesByMonth 按月份统计，按时间升序
func DivesByMonth(dives []models.Dive) []MonthCount {
	counts := make(map[string]int)
	for _, d := range dives {
		counts[d.DateTime.UTC().Format(MonthLayout)]++
	}

	result := make([]MonthCount, 0, len(counts))
	for month, count := range counts {
		result = append(result, MonthCount{Month: month, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		return monthStart(result[i].Month).Before(monthStart(result[j].Month))
	})
	return result
}

func monthStart(label string) time.Time {
	t, _ := time.Parse(MonthLayout, label)
	return t
}

// RecentDives 最近的 n 次潜水，时间相同的顺序不确定
func RecentDives(dives []models.Dive, n int) []models.Dive {
	if n <= 0 {
		return []models.Dive{}
	}

	sorted := make([]models.Dive, len(dives))
	copy(sorted, dives)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DateTime.After(sorted[j].DateTime)
	})

	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// FormatDuration 分钟数格式化为 "1h 5m" / "45m"
func FormatDuration(minutes int) string {
	hours := minutes / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes%60)
}

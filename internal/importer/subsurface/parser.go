package subsurface

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/divegazer/internal/importer"
	"github.com/langchou/divegazer/internal/models"
)

const (
	defaultOxygen          = 21.0
	defaultStartPressure   = 200.0
	defaultEndPressure     = 50.0
	minWorkingPressure     = 200.0
	unknownWorkingPressure = 232.0

	diveTypeRecreational = "recreational"
	tankName             = "Main Tank"
)

var gpsPattern = regexp.MustCompile(`(-?\d+\.?\d*)\s+(-?\d+\.?\d*)`)

// ParseError 整个文件不可用
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// Parser Subsurface CSV 解析器
type Parser struct {
	logger *zap.Logger
}

// NewParser 创建解析器，logger 可为 nil
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// Parse 解析 CSV 文本
func (p *Parser) Parse(data []byte) ([]models.Dive, error) {
	report, err := p.ParseReport(data)
	if err != nil {
		return nil, err
	}
	return report.Dives, nil
}

// ParseReport 解析并返回被跳过的行
func (p *Parser) ParseReport(data []byte) (*importer.Report, error) {
	lines := splitLines(string(data))
	if len(lines) < 2 {
		return nil, &ParseError{Message: "CSV file must contain at least a header and one data row"}
	}

	h, err := parseHeader(lines[0])
	if err != nil {
		return nil, err
	}

	report := &importer.Report{Format: importer.FormatSubsurface}
	for i, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		row := i + 2

		dive, err := p.parseLine(h, line)
		if err != nil {
			p.logger.Warn("Failed to parse CSV row", zap.Int("row", row), zap.Error(err))
			report.Skipped = append(report.Skipped, &importer.RecordError{Index: row, Err: err})
			continue
		}
		report.Dives = append(report.Dives, *dive)
	}

	if len(report.Dives) == 0 {
		return nil, &ParseError{Message: "No valid dives found in CSV file"}
	}

	p.logger.Debug("Subsurface CSV parsed",
		zap.Int("dives", len(report.Dives)),
		zap.Int("skipped", len(report.Skipped)),
	)

	return report, nil
}

func (p *Parser) parseLine(h *header, line string) (*models.Dive, error) {
	r, err := h.newRecord(splitRow(line))
	if err != nil {
		return nil, err
	}
	return parseRecord(r)
}

func parseRecord(r *record) (*models.Dive, error) {
	datetime, err := parseDateTime(r.date, r.time)
	if err != nil {
		return nil, err
	}

	depth, err := strconv.ParseFloat(r.maxDepth, 64)
	if err != nil || !positive(depth) {
		return nil, fmt.Errorf("invalid depth %q", r.maxDepth)
	}

	duration, err := parseDuration(r.duration)
	if err != nil {
		return nil, err
	}

	dive := &models.Dive{
		DateTime:   datetime,
		Location:   r.location,
		Depth:      depth,
		Duration:   duration,
		Equipment:  parseEquipment(r),
		Conditions: parseConditions(r),
		Rating:     parseRating(r.rating),
		DiveType:   optional(diveTypeRecreational),
		Buddy:      optional(r.buddy),
		Notes:      optional(r.notes),
	}
	dive.Lat, dive.Lng = parseGPS(r.gps)

	return dive, nil
}

// parseDateTime 日期与时间按 UTC 拼接
func parseDateTime(date, clock string) (time.Time, error) {
	t, err := importer.ParseDateTime(date + "T" + clock + ".000Z")
	if err == nil {
		return t, nil
	}
	if t, err := importer.ParseDateTime(date + "T" + clock); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date or time: date=%q, time=%q", date, clock)
}

// parseDuration 支持 MM:SS 或分钟数，结果四舍五入到整分钟
func parseDuration(value string) (int, error) {
	var minutes float64

	if m, s, ok := strings.Cut(value, ":"); ok {
		whole, err := strconv.Atoi(strings.TrimSpace(m))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		seconds, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			seconds = 0
		}
		minutes = float64(whole) + float64(seconds)/60
	} else {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		minutes = v
	}

	if !positive(minutes) {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	return int(math.Round(minutes)), nil
}

// parseGPS 无法识别时返回 0,0
func parseGPS(value string) (float64, float64) {
	m := gpsPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, 0
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lng, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return lat, lng
}

// parseEquipment 只有气瓶容积为正数时才生成装备
func parseEquipment(r *record) *models.Equipment {
	size, ok := parseNumber(r.cylinderSize)
	if !ok || !positive(size) {
		return nil
	}

	oxygen, ok := parseNumber(r.o2)
	if !ok {
		oxygen = defaultOxygen
	}
	helium, ok := parseNumber(r.he)
	if !ok {
		helium = 0
	}

	start, startOK := parseNumber(r.startPressure)
	end, endOK := parseNumber(r.endPressure)

	workingPressure := unknownWorkingPressure
	if startOK {
		workingPressure = math.Max(math.Max(start, minWorkingPressure), end)
	}
	if !startOK {
		start = defaultStartPressure
	}
	if !endOK {
		end = defaultEndPressure
	}

	name := tankName
	tank := models.Tank{
		Name:            &name,
		Size:            size,
		WorkingPressure: workingPressure,
		StartPressure:   start,
		EndPressure:     end,
		GasMix:          models.CreateGasMix(oxygen, helium),
		Material:        models.MaterialSteel,
	}

	wetsuit := &models.Wetsuit{Type: "none"}
	if r.suit != "" {
		wetsuit.Type = "wetsuit"
		wetsuit.Material = optional(r.suit)
	}

	equipment := &models.Equipment{
		Tanks:   []models.Tank{tank},
		Wetsuit: wetsuit,
	}
	if w, ok := parseNumber(r.weight); ok && positive(w) {
		equipment.Weights = &w
	}
	return equipment
}

// parseConditions 只保留正数读数，全部缺失时返回 nil
func parseConditions(r *record) *models.DiveConditions {
	air, airOK := parseNumber(r.airTemp)
	water, waterOK := parseNumber(r.waterTemp)
	visibility, visOK := parseNumber(r.visibility)

	airOK = airOK && positive(air)
	waterOK = waterOK && positive(water)
	visOK = visOK && positive(visibility)
	if !airOK && !waterOK && !visOK {
		return nil
	}

	c := &models.DiveConditions{}
	if airOK {
		c.AirTemp = &air
	}
	if waterOK {
		c.WaterTemp = &models.WaterTemp{Surface: &water, Bottom: &water}
	}
	if visOK {
		c.Visibility = &visibility
	}
	return c
}

func parseRating(value string) *int {
	v, ok := parseNumber(value)
	if !ok {
		return nil
	}
	rating := int(math.Round(v))
	return &rating
}

// parseNumber 空串或非数值返回 ok=false
func parseNumber(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

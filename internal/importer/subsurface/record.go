package subsurface

import (
	"fmt"
	"strings"
)

// Subsurface 导出的列名
const (
	colDiveNumber    = "dive number"
	colDate          = "date"
	colTime          = "time"
	colDuration      = "duration [min]"
	colMaxDepth      = "maxdepth [m]"
	colAirTemp       = "airtemp [C]"
	colWaterTemp     = "watertemp [C]"
	colCylinderSize  = "cylinder size (1) [l]"
	colStartPressure = "startpressure (1) [bar]"
	colEndPressure   = "endpressure (1) [bar]"
	colO2            = "o2 (1) [%]"
	colHe            = "he (1) [%]"
	colLocation      = "location"
	colGPS           = "gps"
	colBuddy         = "buddy"
	colSuit          = "suit"
	colRating        = "rating"
	colVisibility    = "visibility"
	colNotes         = "notes"
	colWeight        = "weight [kg]"
)

// RequiredHeaders 缺少任意一列则整个文件无效
var RequiredHeaders = []string{colDiveNumber, colDate, colTime, colDuration, colMaxDepth, colLocation}

// record 一行数据，按列名映射到字段；未映射的导出列（sac、mode、tags 等）不读取
type record struct {
	date          string
	time          string
	duration      string
	maxDepth      string
	airTemp       string
	waterTemp     string
	cylinderSize  string
	startPressure string
	endPressure   string
	o2            string
	he            string
	location      string
	gps           string
	buddy         string
	suit          string
	rating        string
	visibility    string
	notes         string
	weight        string
}

func (r *record) field(header string) *string {
	switch header {
	case colDate:
		return &r.date
	case colTime:
		return &r.time
	case colDuration:
		return &r.duration
	case colMaxDepth:
		return &r.maxDepth
	case colAirTemp:
		return &r.airTemp
	case colWaterTemp:
		return &r.waterTemp
	case colCylinderSize:
		return &r.cylinderSize
	case colStartPressure:
		return &r.startPressure
	case colEndPressure:
		return &r.endPressure
	case colO2:
		return &r.o2
	case colHe:
		return &r.he
	case colLocation:
		return &r.location
	case colGPS:
		return &r.gps
	case colBuddy:
		return &r.buddy
	case colSuit:
		return &r.suit
	case colRating:
		return &r.rating
	case colVisibility:
		return &r.visibility
	case colNotes:
		return &r.notes
	case colWeight:
		return &r.weight
	}
	return nil
}

// header 校验后的表头
type header struct {
	columns []string
}

// parseHeader 去掉空列名并检查必需列
func parseHeader(line string) (*header, error) {
	var columns []string
	for _, c := range splitRow(line) {
		if c != "" {
			columns = append(columns, c)
		}
	}

	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var missing []string
	for _, h := range RequiredHeaders {
		if !present[h] {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, &ParseError{Message: "Missing required headers: " + strings.Join(missing, ", ")}
	}

	return &header{columns: columns}, nil
}

// newRecord 按表头位置填充字段，短行补空串，多余的值丢弃；未知列忽略
func (h *header) newRecord(values []string) (*record, error) {
	r := &record{}
	for i, column := range h.columns {
		var v string
		if i < len(values) {
			v = values[i]
		}
		if f := r.field(column); f != nil {
			*f = v
		}
	}

	for _, required := range []struct {
		name  string
		value string
	}{
		{colDate, r.date},
		{colTime, r.time},
		{colLocation, r.location},
		{colMaxDepth, r.maxDepth},
		{colDuration, r.duration},
	} {
		if required.value == "" {
			return nil, fmt.Errorf("missing %s", required.name)
		}
	}

	return r, nil
}

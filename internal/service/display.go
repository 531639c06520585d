package service

import (
	"math"
	"strconv"
	"time"

	"github.com/langchou/divegazer/internal/models"
	"github.com/langchou/divegazer/internal/stats"
	"github.com/langchou/divegazer/internal/units"
)

// DiveDisplay 按用户单位格式化后的潜水记录
type DiveDisplay struct {
	ID          int64          `json:"id"`
	DateTime    time.Time      `json:"datetime"`
	Location    string         `json:"location"`
	Depth       string         `json:"depth"`
	Duration    string         `json:"duration"`
	Buddy       *string        `json:"buddy,omitempty"`
	Coordinates *[2]float64    `json:"coordinates,omitempty"` // [lat, lng]
	WaterTemp   *string        `json:"water_temp,omitempty"`
	Visibility  *string        `json:"visibility,omitempty"`
	Weights     *string        `json:"weights,omitempty"`
	Tanks       []TankDisplay  `json:"tanks,omitempty"`
	Units       units.Settings `json:"units"`
}

// TankDisplay 单个气瓶的展示数据
type TankDisplay struct {
	Name          string   `json:"name"`
	Gas           string   `json:"gas"`
	Color         string   `json:"color"`
	Size          string   `json:"size"`
	StartPressure string   `json:"start_pressure"`
	EndPressure   string   `json:"end_pressure"`
	SAC           *float64 `json:"sac,omitempty"` // 英制为 cfm
	RMV           *float64 `json:"rmv,omitempty"`
}

// NewDiveDisplay 格式化潜水记录
func NewDiveDisplay(dive *models.Dive, settings units.Settings) *DiveDisplay {
	f := units.NewFormatter(settings)

	d := &DiveDisplay{
		ID:       dive.ID,
		DateTime: dive.DateTime,
		Location: dive.Location,
		Depth:    f.Depth(dive.Depth),
		Duration: stats.FormatDuration(dive.Duration),
		Buddy:    dive.Buddy,
		Units:    settings,
	}
	if dive.HasCoordinates() {
		d.Coordinates = &[2]float64{dive.Lat, dive.Lng}
	}

	if c := dive.Conditions; c != nil {
		if c.WaterTemp != nil && c.WaterTemp.Bottom != nil {
			s := f.Temperature(units.NormalizeTemperature(*c.WaterTemp.Bottom))
			d.WaterTemp = &s
		}
		if c.Visibility != nil {
			s := f.Depth(*c.Visibility)
			d.Visibility = &s
		}
	}

	if e := dive.Equipment; e != nil {
		if e.Weights != nil {
			s := f.Weight(*e.Weights)
			d.Weights = &s
		}

		avgDepth := averageDepth(dive)
		for i, tank := range e.Tanks {
			name := "Tank " + strconv.Itoa(i+1)
			if tank.Name != nil && *tank.Name != "" {
				name = *tank.Name
			}
			td := TankDisplay{
				Name:          name,
				Gas:           tank.GasMix.Normalize().Name,
				Color:         models.GasMixColor(tank.GasMix),
				Size:          f.Volume(tank.Size),
				StartPressure: f.Pressure(tank.StartPressure),
				EndPressure:   f.Pressure(tank.EndPressure),
			}
			if dive.Duration > 0 {
				sac := units.RoundTo(models.CalculateSAC(tank, float64(dive.Duration), avgDepth, settings.System()), 1)
				rmv := units.RoundTo(models.CalculateRMV(sac, avgDepth), 1)
				td.SAC = &sac
				td.RMV = &rmv
			}
			d.Tanks = append(d.Tanks, td)
		}
	}

	return d
}

// averageDepth 采样点平均深度，无采样点时取最大深度的一半
func averageDepth(dive *models.Dive) float64 {
	if len(dive.Samples) == 0 {
		return dive.Depth / 2
	}
	var sum float64
	for _, s := range dive.Samples {
		sum += s.Depth
	}
	return sum / float64(len(dive.Samples))
}

// SACRequest 气耗计算请求，压力/容积为公制
type SACRequest struct {
	Tank     models.Tank  `json:"tank"`
	Minutes  float64      `json:"minutes"`
	AvgDepth float64      `json:"avg_depth"` // 米
	System   units.System `json:"system"`
}

// SACResult 气耗计算结果
type SACResult struct {
	SAC float64 `json:"sac"`
	RMV float64 `json:"rmv"`
}

// CalculateGasConsumption SAC/RMV 计算器，时长必须为正
func CalculateGasConsumption(req SACRequest) (SACResult, error) {
	if req.Minutes <= 0 || math.IsNaN(req.Minutes) {
		return SACResult{}, ErrInvalidDuration
	}
	system := req.System
	if system != units.Imperial {
		system = units.Metric
	}
	sac := models.CalculateSAC(req.Tank, req.Minutes, req.AvgDepth, system)
	return SACResult{
		SAC: units.RoundTo(sac, 2),
		RMV: units.RoundTo(models.CalculateRMV(sac, req.AvgDepth), 2),
	}, nil
}

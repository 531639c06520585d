package models

import (
	"math"

	"github.com/langchou/divegazer/internal/units"
)

// Profile 按用户单位换算后的剖面序列，供图表直接使用
type Profile struct {
	TimeMinutes     []int                 `json:"time_minutes"`
	Depth           []float64             `json:"depth"`
	Temperature     []*float64            `json:"temperature,omitempty"` // 稀疏读数之间线性插值
	Pressure        []*float64            `json:"pressure,omitempty"`
	MaxDepth        float64               `json:"max_depth"`
	TemperatureMin  *float64              `json:"temperature_min,omitempty"`
	TemperatureMax  *float64              `json:"temperature_max,omitempty"`
	DepthUnit       units.DepthUnit       `json:"depth_unit"`
	TemperatureUnit units.TemperatureUnit `json:"temperature_unit"`
	PressureUnit    units.PressureUnit    `json:"pressure_unit"`
}

// BuildProfile 生成剖面序列；温度在此处应用开尔文判断
func BuildProfile(samples []DiveSample, settings units.Settings) *Profile {
	if len(samples) == 0 {
		return nil
	}

	p := &Profile{
		TimeMinutes:     make([]int, len(samples)),
		Depth:           make([]float64, len(samples)),
		DepthUnit:       settings.Depth,
		TemperatureUnit: settings.Temperature,
		PressureUnit:    settings.Pressure,
	}

	var temps []reading
	var pressures []*float64
	hasPressure := false

	for i, s := range samples {
		p.TimeMinutes[i] = int(math.Round(float64(s.Time) / 60))
		p.Depth[i] = units.ConvertDepth(s.Depth, units.Meters, settings.Depth)
		if p.Depth[i] > p.MaxDepth {
			p.MaxDepth = p.Depth[i]
		}

		if s.Temperature != nil {
			celsius := units.NormalizeTemperature(*s.Temperature)
			temps = append(temps, reading{index: i, value: units.ConvertTemperature(celsius, units.Celsius, settings.Temperature)})
		}

		var pressure *float64
		if s.Pressure != nil {
			v := units.ConvertPressure(*s.Pressure, units.Bar, settings.Pressure)
			pressure = &v
			hasPressure = true
		}
		pressures = append(pressures, pressure)
	}

	if hasPressure {
		p.Pressure = pressures
	}

	if len(temps) > 0 {
		p.Temperature = interpolate(len(samples), temps)

		lo, hi := temps[0].value, temps[0].value
		for _, r := range temps[1:] {
			lo = math.Min(lo, r.value)
			hi = math.Max(hi, r.value)
		}
		p.TemperatureMin = &lo
		p.TemperatureMax = &hi
	}

	return p
}

type reading struct {
	index int
	value float64
}

// interpolate 在相邻读数之间按索引线性插值，首个读数之前与最后读数之后留空
func interpolate(n int, readings []reading) []*float64 {
	out := make([]*float64, n)

	for i, r := range readings {
		v := r.value
		out[r.index] = &v
		if i == 0 {
			continue
		}

		prev := readings[i-1]
		gap := r.index - prev.index
		for j := 1; j < gap; j++ {
			iv := prev.value + (r.value-prev.value)*float64(j)/float64(gap)
			out[prev.index+j] = &iv
		}
	}

	return out
}

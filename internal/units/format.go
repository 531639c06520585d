package units

import (
	"fmt"
	"strconv"
)

// 默认展示精度
const (
	DefaultPrecision         = 1
	DefaultPressurePrecision = 0
)

// Label 单位展示标签
func (u DepthUnit) Label() string {
	if u == Feet {
		return "ft"
	}
	return "m"
}

func (u TemperatureUnit) Label() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

func (u DistanceUnit) Label() string {
	if u == Miles {
		return "mi"
	}
	return "km"
}

func (u WeightUnit) Label() string {
	if u == Pounds {
		return "lbs"
	}
	return "kg"
}

func (u PressureUnit) Label() string {
	if u == PSI {
		return "psi"
	}
	return "bar"
}

func (u VolumeUnit) Label() string {
	if u == CubicFeet {
		return "ft³"
	}
	return "L"
}

// FormatDepth 传入值为米，换算到 unit 后格式化
func FormatDepth(meters float64, unit DepthUnit, precision int) string {
	return formatNumber(ConvertDepth(meters, Meters, unit), precision) + unit.Label()
}

// FormatTemperature 传入值为摄氏度
func FormatTemperature(celsius float64, unit TemperatureUnit, precision int) string {
	return formatNumber(ConvertTemperature(celsius, Celsius, unit), precision) + unit.Label()
}

// FormatDistance 传入值为公里
func FormatDistance(km float64, unit DistanceUnit, precision int) string {
	return formatNumber(ConvertDistance(km, Kilometers, unit), precision) + unit.Label()
}

// FormatWeight 传入值为公斤
func FormatWeight(kg float64, unit WeightUnit, precision int) string {
	return formatNumber(ConvertWeight(kg, Kilograms, unit), precision) + unit.Label()
}

// FormatPressure 传入值为 bar
func FormatPressure(bar float64, unit PressureUnit, precision int) string {
	return formatNumber(ConvertPressure(bar, Bar, unit), precision) + unit.Label()
}

// FormatVolume 传入值为升
func FormatVolume(liters float64, unit VolumeUnit, precision int) string {
	return formatNumber(ConvertVolume(liters, Liters, unit), precision) + unit.Label()
}

// FormatValue 按物理量名称分派格式化，precision 小于 0 时使用默认精度
func FormatValue(quantity string, value float64, unit string, precision int) (string, error) {
	if precision < 0 {
		precision = DefaultPrecision
		if quantity == "pressure" {
			precision = DefaultPressurePrecision
		}
	}

	switch quantity {
	case "depth":
		return FormatDepth(value, DepthUnit(unit), precision), nil
	case "temperature":
		return FormatTemperature(value, TemperatureUnit(unit), precision), nil
	case "distance":
		return FormatDistance(value, DistanceUnit(unit), precision), nil
	case "weight":
		return FormatWeight(value, WeightUnit(unit), precision), nil
	case "pressure":
		return FormatPressure(value, PressureUnit(unit), precision), nil
	case "volume":
		return FormatVolume(value, VolumeUnit(unit), precision), nil
	}
	return "", fmt.Errorf("unknown quantity %q", quantity)
}

func formatNumber(v float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// Formatter 绑定用户单位偏好，以默认精度格式化
type Formatter struct {
	settings Settings
}

// NewFormatter 创建格式化器
func NewFormatter(settings Settings) *Formatter {
	return &Formatter{settings: settings}
}

func (f *Formatter) Depth(meters float64) string {
	return FormatDepth(meters, f.settings.Depth, DefaultPrecision)
}

func (f *Formatter) Temperature(celsius float64) string {
	return FormatTemperature(celsius, f.settings.Temperature, DefaultPrecision)
}

func (f *Formatter) Distance(km float64) string {
	return FormatDistance(km, f.settings.Distance, DefaultPrecision)
}

func (f *Formatter) Weight(kg float64) string {
	return FormatWeight(kg, f.settings.Weight, DefaultPrecision)
}

func (f *Formatter) Pressure(bar float64) string {
	return FormatPressure(bar, f.settings.Pressure, DefaultPressurePrecision)
}

func (f *Formatter) Volume(liters float64) string {
	return FormatVolume(liters, f.settings.Volume, DefaultPrecision)
}

package units

// 深度单位
type DepthUnit string

const (
	Meters DepthUnit = "meters"
	Feet   DepthUnit = "feet"
)

// 温度单位
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "celsius"
	Fahrenheit TemperatureUnit = "fahrenheit"
)

// 距离单位
type DistanceUnit string

const (
	Kilometers DistanceUnit = "kilometers"
	Miles      DistanceUnit = "miles"
)

// 重量单位
type WeightUnit string

const (
	Kilograms WeightUnit = "kilograms"
	Pounds    WeightUnit = "pounds"
)

// 压力单位
type PressureUnit string

const (
	Bar PressureUnit = "bar"
	PSI PressureUnit = "psi"
)

// 容积单位
type VolumeUnit string

const (
	Liters    VolumeUnit = "liters"
	CubicFeet VolumeUnit = "cubic_feet"
)

// System 单位制 (气耗计算使用)
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// 换算系数 (第一个单位 -> 第二个单位，反向相除)
const (
	FeetPerMeter      = 3.28084
	MilesPerKilometer = 0.621371
	PoundsPerKilogram = 2.20462
	PSIPerBar         = 14.5038
	CubicFeetPerLiter = 0.0353147
	KelvinOffset      = 273.15
	kelvinThreshold   = 100.0
)

// Settings 六个维度的单位偏好，由设置服务持有
type Settings struct {
	Depth       DepthUnit       `json:"depth"`
	Temperature TemperatureUnit `json:"temperature"`
	Distance    DistanceUnit    `json:"distance"`
	Weight      WeightUnit      `json:"weight"`
	Pressure    PressureUnit    `json:"pressure"`
	Volume      VolumeUnit      `json:"volume"`
}

// DefaultSettings 默认全部公制
func DefaultSettings() Settings {
	return Settings{
		Depth:       Meters,
		Temperature: Celsius,
		Distance:    Kilometers,
		Weight:      Kilograms,
		Pressure:    Bar,
		Volume:      Liters,
	}
}

// Validate 检查每个维度是否为合法取值
func (s Settings) Validate() error {
	switch {
	case s.Depth != Meters && s.Depth != Feet:
		return &InvalidUnitError{Quantity: "depth", Value: string(s.Depth)}
	case s.Temperature != Celsius && s.Temperature != Fahrenheit:
		return &InvalidUnitError{Quantity: "temperature", Value: string(s.Temperature)}
	case s.Distance != Kilometers && s.Distance != Miles:
		return &InvalidUnitError{Quantity: "distance", Value: string(s.Distance)}
	case s.Weight != Kilograms && s.Weight != Pounds:
		return &InvalidUnitError{Quantity: "weight", Value: string(s.Weight)}
	case s.Pressure != Bar && s.Pressure != PSI:
		return &InvalidUnitError{Quantity: "pressure", Value: string(s.Pressure)}
	case s.Volume != Liters && s.Volume != CubicFeet:
		return &InvalidUnitError{Quantity: "volume", Value: string(s.Volume)}
	}
	return nil
}

// System 深度为英尺时视为英制
func (s Settings) System() System {
	if s.Depth == Feet {
		return Imperial
	}
	return Metric
}

// InvalidUnitError 单位取值非法
type InvalidUnitError struct {
	Quantity string
	Value    string
}

func (e *InvalidUnitError) Error() string {
	return "invalid " + e.Quantity + " unit: " + e.Value
}

// NormalizeTemperature 温度大于 100 视为开尔文并转为摄氏度
// 只在展示/统计边界调用，存储保留原始值
func NormalizeTemperature(value float64) float64 {
	if value > kelvinThreshold {
		return value - KelvinOffset
	}
	return value
}

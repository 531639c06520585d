package units

import "math"

// ConvertDepth 深度换算
func ConvertDepth(value float64, from, to DepthUnit) float64 {
	if from == to {
		return value
	}
	switch {
	case from == Meters && to == Feet:
		return value * FeetPerMeter
	case from == Feet && to == Meters:
		return value / FeetPerMeter
	}
	return value
}

// ConvertTemperature 温度换算 (仿射)
func ConvertTemperature(value float64, from, to TemperatureUnit) float64 {
	if from == to {
		return value
	}
	switch {
	case from == Celsius && to == Fahrenheit:
		return value*9/5 + 32
	case from == Fahrenheit && to == Celsius:
		return (value - 32) * 5 / 9
	}
	return value
}

// ConvertDistance 距离换算
func ConvertDistance(value float64, from, to DistanceUnit) float64 {
	if from == to {
		return value
	}
	switch {
	case from == Kilometers && to == Miles:
		return value * MilesPerKilometer
	case from == Miles && to == Kilometers:
		return value / MilesPerKilometer
	}
	return value
}

// ConvertWeight 重量换算
func ConvertWeight(value float64, from, to WeightUnit) float64 {
	if from == to {
		return value
	}
	switch {
	case from == Kilograms && to == Pounds:
		return value * PoundsPerKilogram
	case from == Pounds && to == Kilograms:
		return value / PoundsPerKilogram
	}
	return value
}

// ConvertPressure 压力换算
func ConvertPressure(value float64, from, to PressureUnit) float64 {
	if from == to {
		return value
	}
	switch {
	case from == Bar && to == PSI:
		return value * PSIPerBar
	case from == PSI && to == Bar:
		return value / PSIPerBar
	}
	return value
}

// ConvertVolume 容积换算
func ConvertVolume(value float64, from, to VolumeUnit) float64 {
	if from == to {
		return value
	}
	switch {
	case from == Liters && to == CubicFeet:
		return value * CubicFeetPerLiter
	case from == CubicFeet && to == Liters:
		return value / CubicFeetPerLiter
	}
	return value
}

// 以下为带舍入的版本，用于展示；往返换算只在舍入精度内成立

// ConvertDepthRounded 深度换算并保留一位小数
func ConvertDepthRounded(value float64, from, to DepthUnit) float64 {
	return RoundTo(ConvertDepth(value, from, to), 1)
}

// ConvertTemperatureRounded 温度换算并保留一位小数
func ConvertTemperatureRounded(value float64, from, to TemperatureUnit) float64 {
	return RoundTo(ConvertTemperature(value, from, to), 1)
}

// ConvertDistanceRounded 距离换算并保留一位小数
func ConvertDistanceRounded(value float64, from, to DistanceUnit) float64 {
	return RoundTo(ConvertDistance(value, from, to), 1)
}

// ConvertWeightRounded 重量换算并保留一位小数
func ConvertWeightRounded(value float64, from, to WeightUnit) float64 {
	return RoundTo(ConvertWeight(value, from, to), 1)
}

// ConvertPressureRounded 压力换算，psi 取整，bar 保留一位小数
func ConvertPressureRounded(value float64, from, to PressureUnit) float64 {
	if to == PSI {
		return RoundTo(ConvertPressure(value, from, to), 0)
	}
	return RoundTo(ConvertPressure(value, from, to), 1)
}

// ConvertVolumeRounded 容积换算并保留一位小数
func ConvertVolumeRounded(value float64, from, to VolumeUnit) float64 {
	return RoundTo(ConvertVolume(value, from, to), 1)
}

// RoundTo 四舍五入到指定小数位 (远离零方向处理 .5)
func RoundTo(value float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(value*p) / p
}

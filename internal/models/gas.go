package models

import (
	"strconv"

	"github.com/langchou/divegazer/internal/units"
)

// GasMix 呼吸气体配比 (百分比)
type GasMix struct {
	Oxygen   float64 `json:"oxygen"`
	Helium   float64 `json:"helium"`
	Nitrogen float64 `json:"nitrogen"` // 派生值，不单独设置
	Name     string  `json:"name"`
}

// 气体颜色分类
const (
	GasColorTrimix = "#8b5cf6" // 紫
	GasColorNitrox = "#10b981" // 绿
	GasColorAir    = "#6b7280" // 灰
)

// CalculateNitrogen 氮气 = 100 - 氧 - 氦
func CalculateNitrogen(oxygen, helium float64) float64 {
	return 100 - oxygen - helium
}

// CreateGasMix 根据氧/氦生成配比，氮气与名称均为派生
func CreateGasMix(oxygen, helium float64) GasMix {
	return GasMix{
		Oxygen:   oxygen,
		Helium:   helium,
		Nitrogen: CalculateNitrogen(oxygen, helium),
		Name:     GasMixName(oxygen, helium),
	}
}

// Normalize 重新计算派生字段
func (g GasMix) Normalize() GasMix {
	return CreateGasMix(g.Oxygen, g.Helium)
}

// GasMixName Air / EANx32 / Trimix 18/45
func GasMixName(oxygen, helium float64) string {
	switch {
	case helium > 0:
		return "Trimix " + formatPercent(oxygen) + "/" + formatPercent(helium)
	case oxygen != 21:
		return "EANx" + formatPercent(oxygen)
	}
	return "Air"
}

// GasMixColor 三档分类：三混气紫色，高氧绿色，空气灰色
func GasMixColor(g GasMix) string {
	switch {
	case g.Helium > 0:
		return GasColorTrimix
	case g.Oxygen > 21:
		return GasColorNitrox
	}
	return GasColorAir
}

// 整数不带小数点
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CalculateSAC 水面耗气率 (L/min，英制时为 cfm)
// 调用方负责提供平均深度并保证时长非零
func CalculateSAC(tank Tank, diveTimeMinutes, avgDepthMeters float64, system units.System) float64 {
	pressureUsed := tank.StartPressure - tank.EndPressure
	avgPressureATA := avgDepthMeters/10 + 1
	volumeUsedAtSurface := pressureUsed * tank.Size / avgPressureATA
	sacRate := volumeUsedAtSurface / diveTimeMinutes

	if system == units.Imperial {
		return sacRate * units.CubicFeetPerLiter
	}
	return sacRate
}

// CalculateRMV 按平均深度的环境压力修正 SAC
func CalculateRMV(sacRate, avgDepthMeters float64) float64 {
	return sacRate * (avgDepthMeters/10 + 1)
}

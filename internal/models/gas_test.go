package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/langchou/divegazer/internal/units"
)

func TestCreateGasMixNaming(t *testing.T) {
	tests := []struct {
		oxygen, helium float64
		want           string
	}{
		{21, 0, "Air"},
		{32, 0, "EANx32"},
		{36, 0, "EANx36"},
		{18, 45, "Trimix 18/45"},
		{32.5, 0, "EANx32.5"},
		{100, 0, "EANx100"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, CreateGasMix(tt.oxygen, tt.helium).Name)
		})
	}
}

func TestCreateGasMixNitrogenIsDerived(t *testing.T) {
	for o2 := 5.0; o2 <= 100; o2 += 5 {
		for he := 0.0; o2+he <= 100; he += 5 {
			mix := CreateGasMix(o2, he)
			assert.Equal(t, 100-o2-he, mix.Nitrogen)
			assert.Equal(t, CalculateNitrogen(o2, he), mix.Nitrogen)
		}
	}
}

func TestGasMixNormalize(t *testing.T) {
	mix := GasMix{Oxygen: 32, Nitrogen: 12, Name: "stale"}.Normalize()
	assert.Equal(t, 68.0, mix.Nitrogen)
	assert.Equal(t, "EANx32", mix.Name)
}

func TestGasMixColor(t *testing.T) {
	assert.Equal(t, GasColorTrimix, GasMixColor(CreateGasMix(18, 45)))
	assert.Equal(t, GasColorNitrox, GasMixColor(CreateGasMix(32, 0)))
	assert.Equal(t, GasColorAir, GasMixColor(CreateGasMix(21, 0)))
	assert.Equal(t, GasColorAir, GasMixColor(CreateGasMix(18, 0)))
}

func TestCalculateSAC(t *testing.T) {
	tank := Tank{Size: 12, StartPressure: 200, EndPressure: 50, WorkingPressure: 232, GasMix: CreateGasMix(21, 0)}

	assert.InDelta(t, 20.0, CalculateSAC(tank, 30, 20, units.Metric), 1e-9)
	assert.InDelta(t, 20.0*0.0353147, CalculateSAC(tank, 30, 20, units.Imperial), 1e-9)
}

func TestCalculateSACZeroTimeIsNotGuarded(t *testing.T) {
	tank := Tank{Size: 12, StartPressure: 200, EndPressure: 50}
	assert.True(t, math.IsInf(CalculateSAC(tank, 0, 20, units.Metric), 1))

	empty := Tank{Size: 12, StartPressure: 200, EndPressure: 200}
	assert.True(t, math.IsNaN(CalculateSAC(empty, 0, 20, units.Metric)))
}

func TestCalculateRMV(t *testing.T) {
	assert.InDelta(t, 60.0, CalculateRMV(20, 20), 1e-9)
	assert.InDelta(t, 20.0, CalculateRMV(20, 0), 1e-9)
}

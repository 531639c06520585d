package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatConvertsFromMetric(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"depth meters", FormatDepth(18.26, Meters, 1), "18.3m"},
		{"depth feet", FormatDepth(10, Feet, 1), "32.8ft"},
		{"temperature celsius", FormatTemperature(24, Celsius, 1), "24.0°C"},
		{"temperature fahrenheit", FormatTemperature(20, Fahrenheit, 1), "68.0°F"},
		{"distance miles", FormatDistance(10, Miles, 1), "6.2mi"},
		{"weight pounds", FormatWeight(6, Pounds, 1), "13.2lbs"},
		{"pressure bar", FormatPressure(200, Bar, 0), "200bar"},
		{"pressure psi", FormatPressure(200, PSI, 0), "2901psi"},
		{"volume liters", FormatVolume(12, Liters, 1), "12.0L"},
		{"volume cubic feet", FormatVolume(11.1, CubicFeet, 1), "0.4ft³"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestFormatValueDefaults(t *testing.T) {
	s, err := FormatValue("pressure", 200, "psi", -1)
	require.NoError(t, err)
	assert.Equal(t, "2901psi", s)

	s, err = FormatValue("depth", 30, "meters", -1)
	require.NoError(t, err)
	assert.Equal(t, "30.0m", s)

	_, err = FormatValue("speed", 1, "knots", -1)
	assert.Error(t, err)
}

func TestFormatter(t *testing.T) {
	f := NewFormatter(Settings{
		Depth:       Feet,
		Temperature: Fahrenheit,
		Distance:    Miles,
		Weight:      Pounds,
		Pressure:    PSI,
		Volume:      CubicFeet,
	})

	assert.Equal(t, "98.4ft", f.Depth(30))
	assert.Equal(t, "77.0°F", f.Temperature(25))
	assert.Equal(t, "1.2mi", f.Distance(2))
	assert.Equal(t, "22.0lbs", f.Weight(10))
	assert.Equal(t, "3046psi", f.Pressure(210))
	assert.Equal(t, "0.4ft³", f.Volume(12))

	metric := NewFormatter(DefaultSettings())
	assert.Equal(t, "30.0m", metric.Depth(30))
	assert.Equal(t, "210bar", metric.Pressure(210))
}

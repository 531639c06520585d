package units

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertIdentity(t *testing.T) {
	assert.Equal(t, 12.34, ConvertDepth(12.34, Feet, Feet))
	assert.Equal(t, -3.0, ConvertTemperature(-3, Celsius, Celsius))
	assert.Equal(t, 7.0, ConvertDistance(7, Miles, Miles))
	assert.Equal(t, 9.5, ConvertWeight(9.5, Kilograms, Kilograms))
	assert.Equal(t, 200.0, ConvertPressure(200, Bar, Bar))
	assert.Equal(t, 12.0, ConvertVolume(12, Liters, Liters))
}

func TestConvertKnownValues(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"meters to feet", ConvertDepth(10, Meters, Feet), 32.8084},
		{"feet to meters", ConvertDepth(32.8084, Feet, Meters), 10},
		{"celsius to fahrenheit", ConvertTemperature(20, Celsius, Fahrenheit), 68},
		{"fahrenheit to celsius", ConvertTemperature(212, Fahrenheit, Celsius), 100},
		{"kilometers to miles", ConvertDistance(10, Kilometers, Miles), 6.21371},
		{"kilograms to pounds", ConvertWeight(10, Kilograms, Pounds), 22.0462},
		{"bar to psi", ConvertPressure(200, Bar, PSI), 2900.76},
		{"liters to cubic feet", ConvertVolume(12, Liters, CubicFeet), 0.4237764},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.got, 1e-6)
		})
	}
}

func TestConvertUnknownUnitIsPassThrough(t *testing.T) {
	assert.Equal(t, 5.0, ConvertDepth(5, Meters, DepthUnit("fathoms")))
	assert.Equal(t, 5.0, ConvertPressure(5, PressureUnit("atm"), Bar))
}

// 往返换算：精确版本误差极小，舍入版本误差不超过两端精度之和
func TestRoundTripWithinTolerance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	type pair struct {
		name       string
		forward    func(float64) float64
		backward   func(float64) float64
		rForward   func(float64) float64
		rBackward  func(float64) float64
		precA      float64
		precB      float64
		derivative float64 // dA/dB
		max        float64
	}

	pairs := []pair{
		{
			name:     "depth meters/feet",
			forward:  func(v float64) float64 { return ConvertDepth(v, Meters, Feet) },
			backward: func(v float64) float64 { return ConvertDepth(v, Feet, Meters) },
			rForward: func(v float64) float64 { return ConvertDepthRounded(v, Meters, Feet) },
			rBackward: func(v float64) float64 {
				return ConvertDepthRounded(v, Feet, Meters)
			},
			precA: 0.1, precB: 0.1, derivative: 1 / FeetPerMeter, max: 150,
		},
		{
			name:     "depth feet/meters",
			forward:  func(v float64) float64 { return ConvertDepth(v, Feet, Meters) },
			backward: func(v float64) float64 { return ConvertDepth(v, Meters, Feet) },
			rForward: func(v float64) float64 { return ConvertDepthRounded(v, Feet, Meters) },
			rBackward: func(v float64) float64 {
				return ConvertDepthRounded(v, Meters, Feet)
			},
			precA: 0.1, precB: 0.1, derivative: FeetPerMeter, max: 500,
		},
		{
			name:     "temperature celsius/fahrenheit",
			forward:  func(v float64) float64 { return ConvertTemperature(v, Celsius, Fahrenheit) },
			backward: func(v float64) float64 { return ConvertTemperature(v, Fahrenheit, Celsius) },
			rForward: func(v float64) float64 {
				return ConvertTemperatureRounded(v, Celsius, Fahrenheit)
			},
			rBackward: func(v float64) float64 {
				return ConvertTemperatureRounded(v, Fahrenheit, Celsius)
			},
			precA: 0.1, precB: 0.1, derivative: 5.0 / 9.0, max: 40,
		},
		{
			name:     "temperature fahrenheit/celsius",
			forward:  func(v float64) float64 { return ConvertTemperature(v, Fahrenheit, Celsius) },
			backward: func(v float64) float64 { return ConvertTemperature(v, Celsius, Fahrenheit) },
			rForward: func(v float64) float64 {
				return ConvertTemperatureRounded(v, Fahrenheit, Celsius)
			},
			rBackward: func(v float64) float64 {
				return ConvertTemperatureRounded(v, Celsius, Fahrenheit)
			},
			precA: 0.1, precB: 0.1, derivative: 9.0 / 5.0, max: 100,
		},
		{
			name:     "distance kilometers/miles",
			forward:  func(v float64) float64 { return ConvertDistance(v, Kilometers, Miles) },
			backward: func(v float64) float64 { return ConvertDistance(v, Miles, Kilometers) },
			rForward: func(v float64) float64 {
				return ConvertDistanceRounded(v, Kilometers, Miles)
			},
			rBackward: func(v float64) float64 {
				return ConvertDistanceRounded(v, Miles, Kilometers)
			},
			precA: 0.1, precB: 0.1, derivative: 1 / MilesPerKilometer, max: 1000,
		},
		{
			name:     "weight kilograms/pounds",
			forward:  func(v float64) float64 { return ConvertWeight(v, Kilograms, Pounds) },
			backward: func(v float64) float64 { return ConvertWeight(v, Pounds, Kilograms) },
			rForward: func(v float64) float64 {
				return ConvertWeightRounded(v, Kilograms, Pounds)
			},
			rBackward: func(v float64) float64 {
				return ConvertWeightRounded(v, Pounds, Kilograms)
			},
			precA: 0.1, precB: 0.1, derivative: 1 / PoundsPerKilogram, max: 40,
		},
		{
			name:     "pressure bar/psi",
			forward:  func(v float64) float64 { return ConvertPressure(v, Bar, PSI) },
			backward: func(v float64) float64 { return ConvertPressure(v, PSI, Bar) },
			rForward: func(v float64) float64 {
				return ConvertPressureRounded(v, Bar, PSI)
			},
			rBackward: func(v float64) float64 {
				return ConvertPressureRounded(v, PSI, Bar)
			},
			precA: 0.1, precB: 1, derivative: 1 / PSIPerBar, max: 300,
		},
		{
			name:     "pressure psi/bar",
			forward:  func(v float64) float64 { return ConvertPressure(v, PSI, Bar) },
			backward: func(v float64) float64 { return ConvertPressure(v, Bar, PSI) },
			rForward: func(v float64) float64 {
				return ConvertPressureRounded(v, PSI, Bar)
			},
			rBackward: func(v float64) float64 {
				return ConvertPressureRounded(v, Bar, PSI)
			},
			precA: 1, precB: 0.1, derivative: PSIPerBar, max: 4500,
		},
		{
			name:     "volume liters/cubic feet",
			forward:  func(v float64) float64 { return ConvertVolume(v, Liters, CubicFeet) },
			backward: func(v float64) float64 { return ConvertVolume(v, CubicFeet, Liters) },
			rForward: func(v float64) float64 {
				return ConvertVolumeRounded(v, Liters, CubicFeet)
			},
			rBackward: func(v float64) float64 {
				return ConvertVolumeRounded(v, CubicFeet, Liters)
			},
			precA: 0.1, precB: 0.1, derivative: 1 / CubicFeetPerLiter, max: 20,
		},
	}

	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			tolerance := p.precA/2 + p.precB/2*p.derivative + 1e-9
			for i := 0; i < 200; i++ {
				x := rng.Float64() * p.max

				exact := p.backward(p.forward(x))
				require.InDelta(t, x, exact, 1e-9*math.Max(1, x), "exact round trip for %v", x)

				start := RoundTo(x, int(math.Round(-math.Log10(p.precA))))
				rounded := p.rBackward(p.rForward(start))
				require.InDelta(t, start, rounded, tolerance, "rounded round trip for %v", start)
			}
		})
	}
}

func TestConvertPressureRoundedPrecision(t *testing.T) {
	assert.Equal(t, 2901.0, ConvertPressureRounded(200, Bar, PSI))
	assert.Equal(t, 13.8, ConvertPressureRounded(200, PSI, Bar))
}

func TestNormalizeTemperature(t *testing.T) {
	assert.InDelta(t, 26.85, NormalizeTemperature(300), 1e-9)
	assert.Equal(t, 100.0, NormalizeTemperature(100))
	assert.Equal(t, 24.5, NormalizeTemperature(24.5))
	assert.InDelta(t, -172.15, NormalizeTemperature(101), 1e-9)
}

func TestSettingsValidate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	s := DefaultSettings()
	s.Volume = "gallons"
	err := s.Validate()
	require.Error(t, err)

	var unitErr *InvalidUnitError
	require.ErrorAs(t, err, &unitErr)
	assert.Equal(t, "volume", unitErr.Quantity)
}

func TestSettingsSystem(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, Metric, s.System())
	s.Depth = Feet
	assert.Equal(t, Imperial, s.System())
}

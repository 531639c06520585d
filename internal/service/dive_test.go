package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/langchou/divegazer/internal/models"
	"github.com/langchou/divegazer/internal/units"
	"github.com/langchou/divegazer/pkg/ws"
)

func newDiveService(dives ...models.Dive) (*DiveService, *memoryDiveStore, *memorySettingsStore, *recordingBroadcaster) {
	store := newMemoryDiveStore(dives...)
	settings := &memorySettingsStore{}
	events := &recordingBroadcaster{}
	return NewDiveService(zap.NewNop(), store, settings, events), store, settings, events
}

func testDive(location string, at time.Time, depth float64, duration int) models.Dive {
	return models.Dive{DateTime: at, Location: location, Depth: depth, Duration: duration}
}

func TestDiveServiceCreate(t *testing.T) {
	svc, store, _, events := newDiveService()

	loc := time.FixedZone("UTC+8", 8*60*60)
	dive := testDive("  Blue Hole ", time.Date(2024, 5, 20, 18, 30, 0, 0, loc), 18, 45)
	dive.Equipment = &models.Equipment{
		Tanks: []models.Tank{{Size: 12, GasMix: models.GasMix{Oxygen: 32}}},
	}

	require.NoError(t, svc.Create(context.Background(), &dive))

	assert.Equal(t, int64(1), dive.ID)
	assert.Equal(t, "Blue Hole", dive.Location)
	assert.Equal(t, time.UTC, dive.DateTime.Location())
	assert.Equal(t, 10, dive.DateTime.Hour())
	assert.Equal(t, "EANx32", dive.Equipment.Tanks[0].GasMix.Name)
	assert.Equal(t, 68.0, dive.Equipment.Tanks[0].GasMix.Nitrogen)

	stored, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Blue Hole", stored.Location)
	assert.Equal(t, []string{ws.MsgTypeDivesCreated}, events.types())
}

func TestDiveServiceCreateValidation(t *testing.T) {
	at := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	rating := 6

	tests := []struct {
		name string
		dive models.Dive
	}{
		{"missing location", testDive(" ", at, 10, 30)},
		{"missing datetime", testDive("Reef", time.Time{}, 10, 30)},
		{"negative depth", testDive("Reef", at, -1, 30)},
		{"empty dive", testDive("Reef", at, 0, 0)},
		{"rating out of range", func() models.Dive {
			d := testDive("Reef", at, 10, 30)
			d.Rating = &rating
			return d
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, events := newDiveService()
			err := svc.Create(context.Background(), &tt.dive)
			assert.ErrorIs(t, err, ErrInvalidDive)
			assert.Empty(t, events.types())
		})
	}
}

func TestDiveServiceUpdateAndDelete(t *testing.T) {
	at := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	svc, store, _, events := newDiveService(testDive("Reef", at, 10, 30))

	dive, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	dive.Depth = 12.5
	require.NoError(t, svc.Update(context.Background(), dive))

	stored, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 12.5, stored.Depth)

	missing := testDive("Nowhere", at, 5, 10)
	missing.ID = 99
	assert.ErrorIs(t, svc.Update(context.Background(), &missing), errNotFound)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), errNotFound)

	assert.Equal(t, []string{ws.MsgTypeDiveUpdated, ws.MsgTypeDiveDeleted}, events.types())
	msg, ok := events.last(ws.MsgTypeDiveDeleted)
	require.True(t, ok)
	assert.Equal(t, map[string]int64{"id": 1}, msg.Data)
}

func TestDiveServiceAggregates(t *testing.T) {
	svc, _, _, _ := newDiveService(
		testDive("Reef", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), 10, 30),
		testDive("Wall", time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), 30, 40),
		testDive("Reef", time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC), 20, 50),
	)
	ctx := context.Background()

	recent, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Reef", recent[0].Location)
	assert.Equal(t, 20.0, recent[0].Depth)
	assert.Equal(t, "Wall", recent[1].Location)

	s, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalDives)
	assert.Equal(t, 120, s.TotalBottomTime)
	assert.Equal(t, 30.0, s.MaxDepth)
	assert.Equal(t, 20.0, s.AvgDepth)
	assert.Equal(t, 2, s.UniqueLocations)

	monthly, err := svc.Monthly(ctx)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, "Jan 2024", monthly[0].Month)
	assert.Equal(t, 1, monthly[0].Count)
	assert.Equal(t, "Mar 2024", monthly[1].Month)
	assert.Equal(t, 2, monthly[1].Count)
}

func TestDiveServiceProfileUsesSettings(t *testing.T) {
	dive := testDive("Reef", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), 10, 30)
	dive.Samples = []models.DiveSample{
		{Time: 0, Depth: 0},
		{Time: 60, Depth: 10},
	}
	svc, _, settings, _ := newDiveService(dive)

	profile, err := svc.Profile(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, units.Meters, profile.DepthUnit)
	assert.Equal(t, []float64{0, 10}, profile.Depth)

	imperial := models.DefaultUserSettings()
	imperial.Units.Depth = units.Feet
	require.NoError(t, settings.Save(context.Background(), &imperial))

	profile, err = svc.Profile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, units.Feet, profile.DepthUnit)
	assert.InDelta(t, 32.8084, profile.Depth[1], 1e-9)
}

func TestDiveServiceProfileWithoutSamples(t *testing.T) {
	svc, _, _, _ := newDiveService(testDive("Reef", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), 10, 30))

	profile, err := svc.Profile(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, profile)

	_, err = svc.Profile(context.Background(), 42)
	assert.ErrorIs(t, err, errNotFound)
}

func TestDiveServiceDisplay(t *testing.T) {
	dive := testDive("Reef", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), 20, 45)
	dive.Lat, dive.Lng = 17.3, -87.5
	bottom := 299.15
	dive.Conditions = &models.DiveConditions{WaterTemp: &models.WaterTemp{Bottom: &bottom}}
	dive.Equipment = &models.Equipment{
		Tanks: []models.Tank{{
			Size:          12,
			StartPressure: 200,
			EndPressure:   50,
			GasMix:        models.CreateGasMix(21, 0),
			Material:      models.MaterialSteel,
		}},
	}
	svc, _, _, _ := newDiveService(dive)

	d, err := svc.Display(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "20.0m", d.Depth)
	assert.Equal(t, "45m", d.Duration)
	require.NotNil(t, d.Coordinates)
	assert.Equal(t, [2]float64{17.3, -87.5}, *d.Coordinates)
	require.NotNil(t, d.WaterTemp)
	assert.Equal(t, "26.0°C", *d.WaterTemp)

	require.Len(t, d.Tanks, 1)
	tank := d.Tanks[0]
	assert.Equal(t, "Tank 1", tank.Name)
	assert.Equal(t, "Air", tank.Gas)
	assert.Equal(t, models.GasColorAir, tank.Color)
	assert.Equal(t, "200bar", tank.StartPressure)
	require.NotNil(t, tank.SAC)
	// 无采样点时平均深度取 10 米，2 ATA
	assert.Equal(t, 20.0, *tank.SAC)
	assert.Equal(t, 40.0, *tank.RMV)
}

func TestCalculateGasConsumption(t *testing.T) {
	tank := models.Tank{Size: 12, StartPressure: 200, EndPressure: 50}

	res, err := CalculateGasConsumption(SACRequest{Tank: tank, Minutes: 45, AvgDepth: 10})
	require.NoError(t, err)
	assert.Equal(t, 20.0, res.SAC)
	assert.Equal(t, 40.0, res.RMV)

	res, err = CalculateGasConsumption(SACRequest{Tank: tank, Minutes: 45, AvgDepth: 10, System: units.Imperial})
	require.NoError(t, err)
	assert.InDelta(t, 0.71, res.SAC, 1e-9)

	_, err = CalculateGasConsumption(SACRequest{Tank: tank, Minutes: 0, AvgDepth: 10})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

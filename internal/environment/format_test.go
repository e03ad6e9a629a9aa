package environment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestFormatContextNilSnapshot(t *testing.T) {
	assert.Equal(t, "No environmental data available.", FormatContext(nil, "47.6062°N, -122.3321°W"))
}

func TestFormatContextAirQualityOnly(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"timestamp":"2024-01-01T00:00:00Z","air_quality":{"aqi":42,"category":"Good"}}`))
	require.NoError(t, err)

	out := FormatContext(snap, "47.6062°N, -122.3321°W")

	for _, want := range []string{
		"Air Quality: **42** (Good)",
		"Flood Risk: **Unknown** (Unknown)",
		"Distance from station: Unknown",
		"Power Status: **Unknown**",
		"Weather: **Unknown**",
		"Temperature: Unknown°C (Unknown°F)",
		"Location: 47.6062°N, -122.3321°W",
		"Last Updated: 2024-01-01 00:00:00 UTC",
	} {
		assert.Contains(t, out, want)
	}
}

func TestFormatContextFullSnapshot(t *testing.T) {
	snap := &Snapshot{
		Timestamp:   "2024-06-01T12:30:00.123456Z",
		AirQuality:  &AirQuality{AQI: ptr(101.0), Category: ptr("Unhealthy for Sensitive Groups")},
		FloodRisk:   &FloodRisk{CurrentLevel: ptr("Minor"), Trend: ptr("Rising"), DistanceKm: ptr(3.456)},
		PowerOutage: ptr(true),
		Weather: &Weather{
			Conditions:            []string{"Rain", "Fog"},
			TemperatureCelsius:    ptr(12.6),
			TemperatureFahrenheit: ptr(54.68),
		},
	}

	want := strings.Join([]string{
		"Current Environmental Status:",
		"- Location: here",
		"- Air Quality: **101** (Unhealthy for Sensitive Groups)",
		"- Flood Risk: **Minor** (Rising)",
		"  Distance from station: 3.5 km",
		"- Power Status: **Outage**",
		"- Weather: **Rain, Fog**",
		"  Temperature: 13°C (54.68°F)",
		"- Last Updated: 2024-06-01 12:30:00 UTC",
	}, "\n")

	assert.Equal(t, want, FormatContext(snap, "here"))
}

func TestFormatContextZeroValuesAreReported(t *testing.T) {
	snap := &Snapshot{
		FloodRisk:   &FloodRisk{DistanceKm: ptr(0.0)},
		PowerOutage: ptr(false),
		Weather:     &Weather{TemperatureCelsius: ptr(-0.4), TemperatureFahrenheit: ptr(31.28)},
	}

	out := FormatContext(snap, "x")
	assert.Contains(t, out, "Distance from station: 0.0 km")
	assert.Contains(t, out, "Power Status: **Normal**")
	assert.Contains(t, out, "Temperature: 0°C (31.28°F)")
	assert.Contains(t, out, "Last Updated: Unknown")
}

func TestRoundCelsiusHalvesRoundUp(t *testing.T) {
	cases := map[float64]int{
		-2.5: -2,
		-2.6: -3,
		-0.5: 0,
		2.5:  3,
		12.4: 12,
	}
	for in, want := range cases {
		assert.Equal(t, want, RoundCelsius(in), "RoundCelsius(%v)", in)
	}

	out := FormatContext(&Snapshot{Weather: &Weather{TemperatureCelsius: ptr(-2.5)}}, "x")
	assert.Contains(t, out, "Temperature: -2°C (Unknown°F)")
}

func TestFormatContextUnparseableTimestamp(t *testing.T) {
	out := FormatContext(&Snapshot{Timestamp: "yesterday"}, "x")
	assert.Contains(t, out, "Last Updated: yesterday")
}

// Every combination of present and absent sections must format.
func TestFormatContextIsTotal(t *testing.T) {
	sections := []func(*Snapshot){
		func(s *Snapshot) { s.Timestamp = "2024-01-01T00:00:00Z" },
		func(s *Snapshot) { s.AirQuality = &AirQuality{} },
		func(s *Snapshot) { s.AirQuality = &AirQuality{AQI: ptr(7.0)} },
		func(s *Snapshot) { s.FloodRisk = &FloodRisk{} },
		func(s *Snapshot) { s.FloodRisk = &FloodRisk{Trend: ptr("Falling")} },
		func(s *Snapshot) { s.PowerOutage = ptr(true) },
		func(s *Snapshot) { s.Weather = &Weather{} },
		func(s *Snapshot) { s.Weather = &Weather{Conditions: []string{}} },
	}

	for mask := 0; mask < 1<<len(sections); mask++ {
		snap := &Snapshot{}
		for i, apply := range sections {
			if mask&(1<<i) != 0 {
				apply(snap)
			}
		}
		assert.NotPanics(t, func() {
			out := FormatContext(snap, "label")
			assert.True(t, strings.HasPrefix(out, "Current Environmental Status:"))
			assert.Equal(t, 9, len(strings.Split(out, "\n")))
		})
	}
}

package environment

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// NoDataContext is returned by FormatContext when there is no snapshot.
const NoDataContext = "No environmental data available."

const unknown = "Unknown"

// FormatContext renders a snapshot as the status block handed to the chat
// model. Missing fields render as "Unknown"; the function never fails.
func FormatContext(snap *Snapshot, locationLabel string) string {
	if snap == nil {
		return NoDataContext
	}

	var b strings.Builder
	b.WriteString("Current Environmental Status:\n")
	fmt.Fprintf(&b, "- Location: %s\n", locationLabel)
	fmt.Fprintf(&b, "- Air Quality: **%s** (%s)\n", snap.aqi(), snap.aqiCategory())
	fmt.Fprintf(&b, "- Flood Risk: **%s** (%s)\n", snap.floodLevel(), snap.floodTrend())
	fmt.Fprintf(&b, "  Distance from station: %s\n", snap.floodDistance())
	fmt.Fprintf(&b, "- Power Status: **%s**\n", PowerStatus(snap))
	fmt.Fprintf(&b, "- Weather: **%s**\n", Conditions(snap))
	fmt.Fprintf(&b, "  Temperature: %s°C (%s°F)\n", snap.celsius(), snap.fahrenheit())
	fmt.Fprintf(&b, "- Last Updated: %s", LastUpdated(snap))
	return b.String()
}

// PowerStatus reports "Outage", "Normal" or "Unknown".
func PowerStatus(snap *Snapshot) string {
	if snap == nil || snap.PowerOutage == nil {
		return unknown
	}
	if *snap.PowerOutage {
		return "Outage"
	}
	return "Normal"
}

// Conditions joins the reported weather conditions.
func Conditions(snap *Snapshot) string {
	if snap == nil || snap.Weather == nil || len(snap.Weather.Conditions) == 0 {
		return unknown
	}
	return strings.Join(snap.Weather.Conditions, ", ")
}

// LastUpdated renders the capture time in UTC. Unparseable timestamps are
// shown as received.
func LastUpdated(snap *Snapshot) string {
	if snap == nil || snap.Timestamp == "" {
		return unknown
	}
	ts, err := time.Parse(time.RFC3339Nano, snap.Timestamp)
	if err != nil {
		return snap.Timestamp
	}
	return ts.UTC().Format("2006-01-02 15:04:05 MST")
}

// FormatNumber prints a float the way the upstream JSON carried it: no
// trailing zeros, no exponent for ordinary magnitudes.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RoundCelsius rounds to the nearest whole degree, halves towards +Inf
// (-2.5 becomes -2).
func RoundCelsius(v float64) int {
	return int(math.Floor(v + 0.5))
}

func (s *Snapshot) aqi() string {
	if s.AirQuality == nil || s.AirQuality.AQI == nil {
		return unknown
	}
	return FormatNumber(*s.AirQuality.AQI)
}

func (s *Snapshot) aqiCategory() string {
	if s.AirQuality == nil {
		return unknown
	}
	return orUnknown(s.AirQuality.Category)
}

func (s *Snapshot) floodLevel() string {
	if s.FloodRisk == nil {
		return unknown
	}
	return orUnknown(s.FloodRisk.CurrentLevel)
}

func (s *Snapshot) floodTrend() string {
	if s.FloodRisk == nil {
		return unknown
	}
	return orUnknown(s.FloodRisk.Trend)
}

func (s *Snapshot) floodDistance() string {
	if s.FloodRisk == nil || s.FloodRisk.DistanceKm == nil {
		return unknown
	}
	return fmt.Sprintf("%.1f km", *s.FloodRisk.DistanceKm)
}

func (s *Snapshot) celsius() string {
	if s.Weather == nil || s.Weather.TemperatureCelsius == nil {
		return unknown
	}
	return strconv.Itoa(RoundCelsius(*s.Weather.TemperatureCelsius))
}

func (s *Snapshot) fahrenheit() string {
	if s.Weather == nil || s.Weather.TemperatureFahrenheit == nil {
		return unknown
	}
	return FormatNumber(*s.Weather.TemperatureFahrenheit)
}

func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return unknown
	}
	return *s
}

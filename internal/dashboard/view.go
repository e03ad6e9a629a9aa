package dashboard

import (
	"fmt"

	"github.com/i474232898/triage-assistant/internal/environment"
	"github.com/i474232898/triage-assistant/internal/location"
)

const loading = "Loading..."

// View is the dashboard's widget text.
type View struct {
	Location         string `json:"location"`
	LocationSubtitle string `json:"location_subtitle"`
	PowerGrid        string `json:"power_grid"`
	LastUpdated      string `json:"last_updated"`
	AirQuality       string `json:"air_quality"`
	Temperature      string `json:"temperature"`
	Conditions       string `json:"conditions"`
	FloodRisk        string `json:"flood_risk"`
	FloodDistance    string `json:"flood_distance"`

	Error    string                `json:"error,omitempty"`
	Snapshot *environment.Snapshot `json:"snapshot,omitempty"`
}

// NewView renders snap; a nil snapshot shows every widget as loading.
func NewView(snap *environment.Snapshot, coords *location.Coordinates, errMsg string) View {
	v := View{
		Location:         loading,
		LocationSubtitle: "Current coordinates",
		PowerGrid:        loading,
		LastUpdated:      loading,
		AirQuality:       loading,
		Temperature:      loading,
		Conditions:       loading,
		FloodRisk:        loading,
		FloodDistance:    FloodDistance(snap),
		Error:            errMsg,
		Snapshot:         snap,
	}
	if coords != nil {
		v.Location = location.FormatPlain(*coords)
	}
	if errMsg != "" {
		v.LocationSubtitle = errMsg
	}
	if snap == nil {
		return v
	}

	v.PowerGrid = PowerGrid(snap)
	v.LastUpdated = environment.LastUpdated(snap)
	v.AirQuality = AirQualityStatus(snap)
	v.Temperature = Temperature(snap)
	v.Conditions = environment.Conditions(snap)
	v.FloodRisk = FloodRiskStatus(snap)
	return v
}

// Temperature shows whole degrees Celsius, or "--°C" when missing.
func Temperature(snap *environment.Snapshot) string {
	if snap == nil || snap.Weather == nil || snap.Weather.TemperatureCelsius == nil {
		return "--°C"
	}
	return fmt.Sprintf("%d°C", environment.RoundCelsius(*snap.Weather.TemperatureCelsius))
}

// AirQualityStatus renders "<aqi> (<category>)".
func AirQualityStatus(snap *environment.Snapshot) string {
	if snap == nil || snap.AirQuality == nil || snap.AirQuality.AQI == nil {
		return "Unknown"
	}
	category := "Unknown"
	if c := snap.AirQuality.Category; c != nil && *c != "" {
		category = *c
	}
	return fmt.Sprintf("%s (%s)", environment.FormatNumber(*snap.AirQuality.AQI), category)
}

// FloodRiskStatus renders "<level> (<trend>)".
func FloodRiskStatus(snap *environment.Snapshot) string {
	if snap == nil || snap.FloodRisk == nil {
		return "Unknown"
	}
	level, trend := "Unknown", "Unknown"
	if l := snap.FloodRisk.CurrentLevel; l != nil && *l != "" {
		level = *l
	}
	if t := snap.FloodRisk.Trend; t != nil && *t != "" {
		trend = *t
	}
	return fmt.Sprintf("%s (%s)", level, trend)
}

// FloodDistance renders the distance to the gauge station.
func FloodDistance(snap *environment.Snapshot) string {
	if snap == nil || snap.FloodRisk == nil || snap.FloodRisk.DistanceKm == nil {
		return "-- km from station"
	}
	return fmt.Sprintf("%.1f km from station", *snap.FloodRisk.DistanceKm)
}

// PowerGrid summarises the outage flag.
func PowerGrid(snap *environment.Snapshot) string {
	switch environment.PowerStatus(snap) {
	case "Normal":
		return "All systems normal"
	case "Outage":
		return "Power outage detected"
	default:
		return "Power status unknown"
	}
}

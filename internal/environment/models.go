package environment

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/i474232898/triage-assistant/internal/common"
)

// Snapshot is one environmental payload for a location and time.
// Every field is optional because the upstream payload shape is not
// guaranteed; nil means the upstream did not report it.
type Snapshot struct {
	Timestamp   string      `json:"timestamp,omitempty"` // ISO-8601, server assigned
	AirQuality  *AirQuality `json:"air_quality,omitempty"`
	FloodRisk   *FloodRisk  `json:"flood_risk,omitempty"`
	PowerOutage *bool       `json:"power_outage,omitempty"`
	Weather     *Weather    `json:"weather,omitempty"`
}

type AirQuality struct {
	AQI      *float64 `json:"aqi,omitempty"`
	Category *string  `json:"category,omitempty"`
}

type FloodRisk struct {
	CurrentLevel *string  `json:"current_level,omitempty"`
	Trend        *string  `json:"trend,omitempty"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
}

type Weather struct {
	Conditions            []string `json:"conditions,omitempty"`
	TemperatureCelsius    *float64 `json:"temperature_celsius,omitempty"`
	TemperatureFahrenheit *float64 `json:"temperature_fahrenheit,omitempty"`
}

// DecodeSnapshot parses a raw payload. It is the only place snapshot bytes
// are turned into a Snapshot, whether they come from the network or the
// store. The payload must be a JSON object.
func DecodeSnapshot(raw []byte) (*Snapshot, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: snapshot payload is not a JSON object", common.ErrDecode)
	}

	var snap Snapshot
	if err := json.Unmarshal(trimmed, &snap); err != nil {
		return nil, common.Wrap(common.ErrDecode, err)
	}
	return &snap, nil
}

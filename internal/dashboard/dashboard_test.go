package dashboard

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/triage-assistant/internal/common"
	"github.com/i474232898/triage-assistant/internal/environment"
	"github.com/i474232898/triage-assistant/internal/location"
	"github.com/i474232898/triage-assistant/internal/store"
)

type scriptedSource struct {
	body string
	err  error
	lats []float64
}

func (s *scriptedSource) Fetch(_ context.Context, latitude, _ float64) ([]byte, error) {
	s.lats = append(s.lats, latitude)
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.body), nil
}

const fullBody = `{
	"timestamp": "2024-01-01T08:00:00Z",
	"air_quality": {"aqi": 55, "category": "Moderate"},
	"flood_risk": {"current_level": "Normal", "trend": "Falling", "distance_km": 2.26},
	"power_outage": false,
	"weather": {"conditions": ["Cloudy"], "temperature_celsius": 9.5, "temperature_fahrenheit": 49.1}
}`

func newDashboard(src *scriptedSource, perm location.Permission) (*Dashboard, *store.MemoryStore) {
	log, _ := test.NewNullLogger()
	kv := store.NewMemoryStore()
	gw := environment.NewGateway(src, kv, "", log, nil)
	loc := location.NewStaticProvider(location.Coordinates{Latitude: 47.6062, Longitude: -122.3321}, perm)
	return New(gw, loc, log), kv
}

func TestLoadRendersFreshData(t *testing.T) {
	d, _ := newDashboard(&scriptedSource{body: fullBody}, location.Granted)

	v, err := d.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "47.6062, -122.3321", v.Location)
	assert.Equal(t, "Current coordinates", v.LocationSubtitle)
	assert.Equal(t, "All systems normal", v.PowerGrid)
	assert.Equal(t, "55 (Moderate)", v.AirQuality)
	assert.Equal(t, "10°C", v.Temperature)
	assert.Equal(t, "Cloudy", v.Conditions)
	assert.Equal(t, "Normal (Falling)", v.FloodRisk)
	assert.Equal(t, "2.3 km from station", v.FloodDistance)
	assert.Equal(t, "2024-01-01 08:00:00 UTC", v.LastUpdated)
	assert.Empty(t, v.Error)
	require.NotNil(t, v.Snapshot)
}

func TestLoadPermissionDenied(t *testing.T) {
	src := &scriptedSource{body: fullBody}
	d, _ := newDashboard(src, location.Denied)

	v, err := d.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
	assert.Equal(t, ErrMsgPermissionDenied, v.Error)
	assert.Equal(t, ErrMsgPermissionDenied, v.LocationSubtitle)
	assert.Equal(t, "Loading...", v.Location)
	assert.Empty(t, src.lats)

	_, ok := d.LastLocation()
	assert.False(t, ok)
}

func TestLoadFetchFailureKeepsCachedData(t *testing.T) {
	ctx := context.Background()
	src := &scriptedSource{err: &common.StatusError{Endpoint: "weather", StatusCode: 500}}
	d, kv := newDashboard(src, location.Granted)
	require.NoError(t, kv.Set(ctx, environment.DefaultKey, []byte(fullBody)))

	v, err := d.Load(ctx)
	assert.ErrorIs(t, err, common.ErrNetwork)
	assert.Equal(t, ErrMsgFetch, v.Error)
	assert.Equal(t, "55 (Moderate)", v.AirQuality)
	assert.Equal(t, "47.6062, -122.3321", v.Location)
}

func TestRefreshBeforeLoad(t *testing.T) {
	src := &scriptedSource{body: fullBody}
	d, _ := newDashboard(src, location.Granted)

	v, err := d.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoLocation)
	assert.Equal(t, ErrMsgNoLocation, v.Error)
	assert.Empty(t, src.lats)
}

func TestRefreshUsesLastLocation(t *testing.T) {
	ctx := context.Background()
	src := &scriptedSource{body: fullBody}
	d, _ := newDashboard(src, location.Granted)

	_, err := d.Load(ctx)
	require.NoError(t, err)

	src.body = `{"timestamp":"2024-01-02T00:00:00Z","power_outage":true}`
	v, err := d.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, []float64{47.6062, 47.6062}, src.lats)
	assert.Equal(t, "Power outage detected", v.PowerGrid)
	assert.Equal(t, "--°C", v.Temperature)
	assert.Equal(t, "Unknown", v.AirQuality)
	assert.Equal(t, "-- km from station", v.FloodDistance)

	src.err = common.ErrNetwork
	v, err = d.Refresh(ctx)
	assert.ErrorIs(t, err, common.ErrNetwork)
	assert.Equal(t, ErrMsgRefresh, v.Error)
	assert.Equal(t, "Power outage detected", v.PowerGrid)
}

func TestNewViewWithoutSnapshot(t *testing.T) {
	v := NewView(nil, nil, "")
	assert.Equal(t, "Loading...", v.AirQuality)
	assert.Equal(t, "Loading...", v.Location)
	assert.Equal(t, "-- km from station", v.FloodDistance)
	assert.Nil(t, v.Snapshot)
}

func TestPowerGridUnknown(t *testing.T) {
	assert.Equal(t, "Power status unknown", PowerGrid(&environment.Snapshot{}))
}

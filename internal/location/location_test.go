package location

import (
	"context"
	"errors"
	"testing"

	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/triage-assistant/internal/common"
)

type erroringProvider struct {
	permErr error
	posErr  error
}

func (p erroringProvider) RequestPermission(context.Context) (Permission, error) {
	return Granted, p.permErr
}

func (p erroringProvider) CurrentPosition(context.Context) (Coordinates, error) {
	return Coordinates{}, p.posErr
}

func TestLabelGranted(t *testing.T) {
	p := NewStaticProvider(Coordinates{Latitude: 47.60621, Longitude: -122.33207}, Granted)
	assert.Equal(t, "47.6062°N, -122.3321°W", Label(context.Background(), p))
}

func TestLabelDenied(t *testing.T) {
	p := NewStaticProvider(Coordinates{Latitude: 1, Longitude: 2}, Denied)
	assert.Equal(t, LabelPermissionDenied, Label(context.Background(), p))
}

func TestLabelProviderErrors(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, LabelUnavailable, Label(ctx, erroringProvider{permErr: errors.New("prompt crashed")}))
	assert.Equal(t, LabelUnavailable, Label(ctx, erroringProvider{posErr: errors.New("no fix")}))
	assert.Equal(t, LabelUnavailable, Label(ctx, nil))
}

func TestLabelCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewStaticProvider(Coordinates{Latitude: 1, Longitude: 2}, Granted)
	assert.Equal(t, LabelUnavailable, Label(ctx, p))
}

func TestResolveDenied(t *testing.T) {
	_, err := Resolve(context.Background(), NewStaticProvider(Coordinates{}, Denied))
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
}

func TestFormatPlain(t *testing.T) {
	assert.Equal(t, "47.6062, -122.3321", FormatPlain(Coordinates{Latitude: 47.6062, Longitude: -122.3321}))
}

func TestGeocodedProviderCachesLookup(t *testing.T) {
	p := NewGeocodedProvider(Address{City: "Seattle", Country: "US"}, "key")
	calls := 0
	p.geocode = func(a geocoder.Address) (geocoder.Location, error) {
		calls++
		assert.Equal(t, "Seattle", a.City)
		return geocoder.Location{Latitude: 47.6062, Longitude: -122.3321}, nil
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		c, err := p.CurrentPosition(ctx)
		require.NoError(t, err)
		assert.Equal(t, 47.6062, c.Latitude)
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, "47.6062°N, -122.3321°W", Label(ctx, p))
}

func TestGeocodedProviderFailuresAreRetried(t *testing.T) {
	p := NewGeocodedProvider(Address{City: "Nowhere"}, "key")
	calls := 0
	p.geocode = func(geocoder.Address) (geocoder.Location, error) {
		calls++
		if calls == 1 {
			return geocoder.Location{}, errors.New("quota exceeded")
		}
		return geocoder.Location{Latitude: 1, Longitude: 1}, nil
	}

	ctx := context.Background()
	assert.Equal(t, LabelUnavailable, Label(ctx, p))
	assert.Equal(t, "1.0000°N, 1.0000°W", Label(ctx, p))
}

func TestGeocodedProviderWithoutKeyIsDenied(t *testing.T) {
	p := NewGeocodedProvider(Address{City: "Seattle"}, "")

	perm, err := p.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Denied, perm)
	assert.Equal(t, LabelPermissionDenied, Label(context.Background(), p))
}

func TestGeocodedProviderZeroResult(t *testing.T) {
	p := NewGeocodedProvider(Address{City: "Null Island"}, "key")
	p.geocode = func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, nil
	}

	_, err := p.CurrentPosition(context.Background())
	assert.Error(t, err)
}

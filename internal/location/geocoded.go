package location

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/triage-assistant/internal/common"
)

// Address is the configured place the geocoded provider resolves.
type Address struct {
	Street  string
	City    string
	Country string
}

// GeocodedProvider turns a configured address into coordinates with the
// Google geocoding API. The first successful lookup is cached.
type GeocodedProvider struct {
	address Address
	apiKey  string
	geocode func(geocoder.Address) (geocoder.Location, error)

	mu     sync.Mutex
	cached *Coordinates
}

var geocoderKeyMu sync.Mutex

func NewGeocodedProvider(address Address, apiKey string) *GeocodedProvider {
	p := &GeocodedProvider{address: address, apiKey: apiKey}
	p.geocode = func(a geocoder.Address) (geocoder.Location, error) {
		// The geocoder package reads its key from a package variable.
		geocoderKeyMu.Lock()
		defer geocoderKeyMu.Unlock()
		geocoder.ApiKey = p.apiKey
		return geocoder.Geocoding(a)
	}
	return p
}

// RequestPermission is granted only when an API key and a city are set.
func (p *GeocodedProvider) RequestPermission(context.Context) (Permission, error) {
	if p.apiKey == "" || p.address.City == "" {
		return Denied, nil
	}
	return Granted, nil
}

func (p *GeocodedProvider) CurrentPosition(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	if perm, _ := p.RequestPermission(ctx); perm != Granted {
		return Coordinates{}, common.ErrPermissionDenied
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return *p.cached, nil
	}

	loc, err := p.geocode(geocoder.Address{
		Street:  p.address.Street,
		City:    p.address.City,
		Country: p.address.Country,
	})
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %s: %w", p.address.City, err)
	}
	if loc.Latitude == 0 && loc.Longitude == 0 {
		return Coordinates{}, errors.New("geocoder returned no position")
	}

	c := Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}
	p.cached = &c
	return c, nil
}

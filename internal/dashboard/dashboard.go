package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/triage-assistant/internal/common"
	"github.com/i474232898/triage-assistant/internal/environment"
	"github.com/i474232898/triage-assistant/internal/location"
)

// Inline error subtitles shown under the location widget.
const (
	ErrMsgPermissionDenied = "Permission to access location was denied"
	ErrMsgFetch            = "Error fetching environmental data"
	ErrMsgRefresh          = "Error refreshing environmental data"
	ErrMsgNoLocation       = "Location not available for refresh"
)

// ErrNoLocation is returned by Refresh before any position was resolved.
var ErrNoLocation = errors.New("location not available for refresh")

// Gateway is the part of environment.Gateway the dashboard uses.
type Gateway interface {
	FetchAndStore(ctx context.Context, latitude, longitude float64) error
	GetStored(ctx context.Context) *environment.Snapshot
}

// Dashboard drives the load and pull-to-refresh flows and remembers the
// last resolved position between them.
type Dashboard struct {
	gateway Gateway
	locator location.Provider
	log     logrus.FieldLogger

	mu   sync.Mutex
	last *location.Coordinates
}

func New(gateway Gateway, locator location.Provider, log logrus.FieldLogger) *Dashboard {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dashboard{
		gateway: gateway,
		locator: locator,
		log:     log.WithField("component", "dashboard"),
	}
}

// Load resolves the position, fetches fresh data for it and returns the
// resulting view. When the fetch fails the view still carries the cached
// snapshot, if any, and an error subtitle.
func (d *Dashboard) Load(ctx context.Context) (View, error) {
	coords, err := location.Resolve(ctx, d.locator)
	if err != nil {
		msg := ErrMsgFetch
		if errors.Is(err, common.ErrPermissionDenied) {
			msg = ErrMsgPermissionDenied
		}
		d.log.WithError(err).Warn("could not resolve location")
		return d.view(ctx, nil, msg), err
	}

	d.mu.Lock()
	d.last = &coords
	d.mu.Unlock()

	if err := d.gateway.FetchAndStore(ctx, coords.Latitude, coords.Longitude); err != nil {
		d.log.WithError(err).Warn("initial environmental fetch failed")
		return d.view(ctx, &coords, ErrMsgFetch), err
	}
	return d.view(ctx, &coords, ""), nil
}

// Refresh refetches for the last position resolved by Load.
func (d *Dashboard) Refresh(ctx context.Context) (View, error) {
	d.mu.Lock()
	last := d.last
	d.mu.Unlock()

	if last == nil {
		d.log.Warn("cannot refresh: location not available")
		return d.view(ctx, nil, ErrMsgNoLocation), ErrNoLocation
	}

	if err := d.gateway.FetchAndStore(ctx, last.Latitude, last.Longitude); err != nil {
		d.log.WithError(err).Warn("environmental refresh failed")
		return d.view(ctx, last, ErrMsgRefresh), fmt.Errorf("refresh: %w", err)
	}
	return d.view(ctx, last, ""), nil
}

// LastLocation reports the position used by Refresh.
func (d *Dashboard) LastLocation() (location.Coordinates, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last == nil {
		return location.Coordinates{}, false
	}
	return *d.last, true
}

func (d *Dashboard) view(ctx context.Context, coords *location.Coordinates, errMsg string) View {
	return NewView(d.gateway.GetStored(ctx), coords, errMsg)
}

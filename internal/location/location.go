package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/i474232898/triage-assistant/internal/common"
)

// Permission is the outcome of a location permission request.
type Permission int

const (
	Denied Permission = iota
	Granted
)

func (p Permission) String() string {
	if p == Granted {
		return "granted"
	}
	return "denied"
}

// Coordinates are decimal degrees. They are produced per request and never
// persisted.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Provider supplies the current device position.
type Provider interface {
	RequestPermission(ctx context.Context) (Permission, error)
	CurrentPosition(ctx context.Context) (Coordinates, error)
}

// Labels produced by Label when no position can be shown.
const (
	LabelPermissionDenied = "Location permission not granted"
	LabelUnavailable      = "Location data not available"
)

// Label resolves the current position into the text used in the chat
// context. It never fails: a denied permission and any provider error map
// to fixed labels.
func Label(ctx context.Context, p Provider) string {
	coords, err := Resolve(ctx, p)
	switch {
	case err == nil:
		return FormatLabel(coords)
	case errors.Is(err, common.ErrPermissionDenied):
		return LabelPermissionDenied
	default:
		return LabelUnavailable
	}
}

// Resolve requests permission and then the position.
func Resolve(ctx context.Context, p Provider) (Coordinates, error) {
	if p == nil {
		return Coordinates{}, errors.New("no location provider configured")
	}
	perm, err := p.RequestPermission(ctx)
	if err != nil {
		return Coordinates{}, err
	}
	if perm != Granted {
		return Coordinates{}, common.ErrPermissionDenied
	}
	return p.CurrentPosition(ctx)
}

// FormatLabel renders coordinates with four decimals and fixed hemisphere
// suffixes, e.g. "47.6062°N, -122.3321°W".
func FormatLabel(c Coordinates) string {
	return fmt.Sprintf("%.4f°N, %.4f°W", c.Latitude, c.Longitude)
}

// FormatPlain renders coordinates as "lat, lon" with four decimals.
func FormatPlain(c Coordinates) string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

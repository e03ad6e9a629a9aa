package location

import (
	"context"

	"github.com/i474232898/triage-assistant/internal/common"
)

// StaticProvider reports a fixed position, typically from configuration.
type StaticProvider struct {
	coords     Coordinates
	permission Permission
}

func NewStaticProvider(coords Coordinates, permission Permission) *StaticProvider {
	return &StaticProvider{coords: coords, permission: permission}
}

func (p *StaticProvider) RequestPermission(context.Context) (Permission, error) {
	return p.permission, nil
}

func (p *StaticProvider) CurrentPosition(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	if p.permission != Granted {
		return Coordinates{}, common.ErrPermissionDenied
	}
	return p.coords, nil
}

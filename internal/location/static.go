package location

import (
	"context"

	"skycast/internal/types"
)

// StaticProvider reports a fixed position, configured at startup. It backs
// deployments without a real geo source; the poll tracker still drives the
// periodic weather check against it.
type StaticProvider struct {
	Coords types.Coordinates
}

// Current returns the configured position.
func (p StaticProvider) Current(ctx context.Context) (types.Coordinates, error) {
	return p.Coords, nil
}

// DeniedProvider always refuses, modelling a revoked location permission.
type DeniedProvider struct{}

// Current returns a permission error.
func (DeniedProvider) Current(ctx context.Context) (types.Coordinates, error) {
	return types.Coordinates{}, types.NewAppError(
		types.ErrCodePermissionLocation, "location access denied", nil)
}

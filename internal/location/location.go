// Package location abstracts device position access. The Provider answers
// one-shot position queries; the Tracker delivers periodic background
// updates to a handler. Both are consumer-side interfaces so the daemon can
// run against a real geo source or a stub.
package location

import (
	"context"
	"math"
	"time"

	"skycast/internal/types"
)

// Provider answers one-shot position queries. Implementations return an
// AppError with ErrCodePermissionLocation when access is denied.
type Provider interface {
	Current(ctx context.Context) (types.Coordinates, error)
}

// UpdateHandler receives background position updates.
type UpdateHandler func(ctx context.Context, coords types.Coordinates)

// Tracker delivers periodic background position updates. Start is
// idempotent while running; Stop is safe to call when stopped.
type Tracker interface {
	Start(ctx context.Context, handler UpdateHandler) error
	Stop()
	Running() bool
}

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two coordinates.
func DistanceKm(a, b types.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// Sensible tracking defaults matching the battery-conscious cadence of a
// background weather check.
const (
	DefaultPollInterval  = 30 * time.Minute
	DefaultMinDistanceKm = 5.0
)

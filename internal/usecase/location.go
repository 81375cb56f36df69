package usecase

import "github.com/sf-parking-zones/internal/pkg/errors"

// LocationFailure - причина, по которой координаты недоступны
type LocationFailure string

const (
	LocationDenied      LocationFailure = "denied"
	LocationRestricted  LocationFailure = "restricted"
	LocationUnavailable LocationFailure = "unavailable"
	LocationTimeout     LocationFailure = "timeout"
)

// LocationError maps a location-service failure to the error shown to the
// user. Denied and restricted access point the user at Settings.
func LocationError(f LocationFailure) *errors.AppError {
	switch f {
	case LocationDenied, LocationRestricted:
		return errors.ErrLocationPermissionDenied.WithDetails(map[string]interface{}{"reason": string(f)})
	default:
		return errors.ErrLocationUnavailable.WithDetails(map[string]interface{}{"reason": string(f)})
	}
}

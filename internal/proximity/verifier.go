package proximity

import (
	"context"
	"errors"
	"math"
	"strings"

	"suresavings/internal/kyc/models"
)

const (
	earthRadiusMeters = 6_371_000.0

	// DefaultRadiusMeters is how far the fix may be from the geocoded
	// address, before the fix's own accuracy is added.
	DefaultRadiusMeters = 500.0
)

// Verifier implements ports.ProximityVerifier.
type Verifier struct {
	geocoder Geocoder
	radius   float64
}

func NewVerifier(geocoder Geocoder, radiusMeters float64) *Verifier {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	return &Verifier{geocoder: geocoder, radius: radiusMeters}
}

// Verify reports whether fix lies within the radius of address, widened by
// the fix's reported accuracy. An address the geocoder cannot place is a
// mismatch.
func (v *Verifier) Verify(ctx context.Context, address string, fix models.Position) (bool, error) {
	if strings.TrimSpace(address) == "" {
		return false, nil
	}
	point, err := v.geocoder.Geocode(ctx, address)
	if errors.Is(err, ErrAddressNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &models.ProximityError{Err: err}
	}

	distance := Distance(point.Latitude, point.Longitude, fix.Latitude, fix.Longitude)
	return distance <= v.radius+math.Max(fix.AccuracyMeters, 0), nil
}

// Distance is the great-circle distance in meters between two points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

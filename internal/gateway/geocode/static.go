// Package geocode resolves address lines into coordinates.
package geocode

import (
	"context"
	"strconv"
	"strings"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
)

// Static resolves "lat,lon" literals and a fixed table of known addresses.
// Anything else fails as unavailable.
type Static struct {
	known map[string]domain.Coordinates
}

// NewStatic returns a Static geocoder. Keys of known are matched
// case-insensitively after trimming.
func NewStatic(known map[string]domain.Coordinates) *Static {
	m := make(map[string]domain.Coordinates, len(known))
	for k, v := range known {
		m[normalize(k)] = v
	}
	return &Static{known: m}
}

// Geocode implements the geocoder contract.
func (s *Static) Geocode(ctx context.Context, address string) (domain.GeocodeResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.GeocodeResult{}, err
	}
	if p, ok := parseLiteral(address); ok {
		return domain.GeocodeResult{Point: p}, nil
	}
	if p, ok := s.known[normalize(address)]; ok {
		return domain.GeocodeResult{Point: p}, nil
	}
	return domain.GeocodeResult{}, apperr.New(apperr.ErrUpstreamUnavailable, "address not resolved")
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func parseLiteral(s string) (domain.Coordinates, bool) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Coordinates{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return domain.Coordinates{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return domain.Coordinates{}, false
	}
	p := domain.Coordinates{Lat: lat, Lon: lon}
	if !p.Valid() {
		return domain.Coordinates{}, false
	}
	return p, true
}

package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"
)

var ErrNoAddress = errors.New("no address found")

// GeocodeService resolves coordinates to street addresses through the
// Google Geocoding API.
type GeocodeService struct {
	client   *maps.Client
	language string
}

// NewGeocodeService creates a GeocodeService with the given API key. Extra
// client options (e.g. maps.WithBaseURL) are passed through.
func NewGeocodeService(apiKey, language string, opts ...maps.ClientOption) (*GeocodeService, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client, language: language}, nil
}

// Address returns the formatted address of the best reverse-geocoding match.
func (s *GeocodeService) Address(ctx context.Context, lat, lng float64) (string, error) {
	r := &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: lat, Lng: lng},
		Language: s.language,
	}

	results, err := s.client.ReverseGeocode(ctx, r)
	if err != nil {
		return "", fmt.Errorf("maps api error: %w", err)
	}

	for _, res := range results {
		if res.FormattedAddress != "" {
			return res.FormattedAddress, nil
		}
	}
	return "", ErrNoAddress
}

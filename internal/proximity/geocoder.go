// Package proximity is the address proximity verifier: it geocodes the
// address read from a document and checks it against the device's position.
package proximity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	geocodePath     = "/v1/geocode"
	maxResponseSize = 1 << 20
)

// ErrAddressNotFound is returned when the geocoder has no match for an
// address. The verifier treats it as a mismatch, not a failure.
var ErrAddressNotFound = errors.New("address not found")

// Coordinates is a geocoded point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder resolves a free-form address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

// HTTPGeocoder calls an external geocoding service.
type HTTPGeocoder struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPGeocoder(baseURL, apiKey string, timeout time.Duration) *HTTPGeocoder {
	return &HTTPGeocoder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (Coordinates, error) {
	q := url.Values{"address": {address}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+geocodePath+"?"+q.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("X-API-Key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Coordinates{}, ErrAddressNotFound
	default:
		return Coordinates{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var c Coordinates
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&c); err != nil {
		return Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return Coordinates{}, fmt.Errorf("geocoder returned invalid coordinates")
	}
	return c, nil
}

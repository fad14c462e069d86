package prayer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"Niyyah-Backend/internal/domain"
)

// DefaultIPLookupURL answers with the caller's approximate position.
const DefaultIPLookupURL = "https://ipapi.co/json/"

// IPGeolocator approximates the device position from its public IP.
type IPGeolocator struct {
	URL    string
	Client *http.Client
}

type ipLookupResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `json:"city"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

func (g *IPGeolocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	url := g.URL
	if url == "" {
		url = DefaultIPLookupURL
	}
	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to build geolocation request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("geolocation request failed: status %d", resp.StatusCode)
	}

	var body ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if body.Error {
		return domain.Coordinates{}, fmt.Errorf("geolocation lookup refused: %s", body.Reason)
	}
	if body.Latitude == nil || body.Longitude == nil {
		return domain.Coordinates{}, fmt.Errorf("geolocation response has no coordinates")
	}
	return domain.Coordinates{Latitude: *body.Latitude, Longitude: *body.Longitude}, nil
}

// StaticGeolocator always reports the same position.
type StaticGeolocator domain.Coordinates

func (g StaticGeolocator) Locate(context.Context) (domain.Coordinates, error) {
	return domain.Coordinates(g), nil
}

// UnsupportedGeolocator models a device without geolocation.
type UnsupportedGeolocator struct{}

func (UnsupportedGeolocator) Locate(context.Context) (domain.Coordinates, error) {
	return domain.Coordinates{}, ErrGeolocationUnsupported
}

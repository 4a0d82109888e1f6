package places

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"
)

// Provider fetches raw candidates of one Google place type around a point.
type Provider interface {
	Nearby(ctx context.Context, origin LatLng, radius float64, placeType string) ([]Candidate, error)
}

type googleProvider struct {
	client  *maps.Client
	limiter *rate.Limiter
	timeout time.Duration
}

type GoogleConfig struct {
	APIKey         string
	RequestsPerSec int
	Timeout        time.Duration
}

func NewGoogleProvider(cfg GoogleConfig) (Provider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}

	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 10
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &googleProvider{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		timeout: timeout,
	}, nil
}

func (g *googleProvider) Nearby(ctx context.Context, origin LatLng, radius float64, placeType string) ([]Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for places rate limit: %w", err)
	}

	resp, err := g.client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: origin.Lat, Lng: origin.Lng},
		Radius:   uint(radius),
		Type:     maps.PlaceType(placeType),
	})
	if err != nil {
		return nil, fmt.Errorf("nearby search %s: %w", placeType, err)
	}

	out := make([]Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		addr := r.Vicinity
		if addr == "" {
			addr = r.FormattedAddress
		}
		out = append(out, Candidate{
			PlaceID:  r.PlaceID,
			Name:     r.Name,
			Address:  addr,
			Location: LatLng{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			Rating:   float64(r.Rating),
			Reviews:  r.UserRatingsTotal,
		})
	}
	return out, nil
}

// ErrProviderDisabled is returned by the provider used when no Google API key is set.
var ErrProviderDisabled = errors.New("places provider not configured")

type disabledProvider struct{}

// NewDisabledProvider fails every lookup, so uncached categories come back degraded.
func NewDisabledProvider() Provider {
	return disabledProvider{}
}

func (disabledProvider) Nearby(context.Context, LatLng, float64, string) ([]Candidate, error) {
	return nil, ErrProviderDisabled
}

package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"zillowlike.app/api/common/logger"
	"zillowlike.app/api/internal/cache"
)

var (
	ErrUnknownCategory   = errors.New("unknown place category")
	ErrInvalidLocation   = errors.New("invalid location")
	ErrTooManyCategories = errors.New("too many categories")
)

const (
	DefaultCacheTTL = 24 * time.Hour
	fetchParallel   = 4
)

type Query struct {
	Origin     LatLng
	Radius     float64 // 0 uses each category's default
	Categories []string
}

type CategoryResult struct {
	Category string  `json:"category"`
	Radius   float64 `json:"radius_m"`
	Places   []Place `json:"places"`
	Cached   bool    `json:"cached"`
	Degraded bool    `json:"degraded,omitempty"`
}

type Result struct {
	Origin     LatLng           `json:"origin"`
	Categories []CategoryResult `json:"categories"`
}

type Service struct {
	provider Provider
	cache    cache.Cache
	ttl      time.Duration
}

func NewService(provider Provider, c cache.Cache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{provider: provider, cache: c, ttl: ttl}
}

// Nearby ranks every requested category in parallel. A provider failure for one
// category yields an empty, degraded entry instead of failing the request.
func (s *Service) Nearby(ctx context.Context, q Query) (*Result, error) {
	if err := validateOrigin(q.Origin); err != nil {
		return nil, err
	}

	categories := normalizeCategories(q.Categories)
	if len(categories) > maxCategories {
		return nil, fmt.Errorf("%w: at most %d", ErrTooManyCategories, maxCategories)
	}

	policies := make([]Policy, len(categories))
	for i, c := range categories {
		p, err := PolicyFor(c)
		if err != nil {
			return nil, err
		}
		policies[i] = p
	}

	results := make([]CategoryResult, len(policies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchParallel)
	for i, policy := range policies {
		g.Go(func() error {
			results[i] = s.category(gctx, q.Origin, q.Radius, policy)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{Origin: q.Origin, Categories: results}, nil
}

func (s *Service) category(ctx context.Context, origin LatLng, radius float64, policy Policy) CategoryResult {
	if radius <= 0 {
		radius = policy.DefaultRadius
	}
	radius = math.Min(radius, MaxRadius)

	res := CategoryResult{Category: policy.Category, Radius: radius, Places: []Place{}}
	key := CacheKey(origin, radius, policy.Category)

	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "places cache read failed", "key", key, "error", err)
		} else if ok {
			var places []Place
			if err := json.Unmarshal(raw, &places); err == nil {
				res.Places = places
				res.Cached = true
				return res
			}
			slog.WarnContext(ctx, "discarding corrupt places cache entry", "key", key)
		}
	}

	sc := logger.StartSpan(ctx, "places.fetch_category")
	defer sc.End()
	ctx = sc.Context()

	candidates, err := s.provider.Nearby(ctx, origin, radius, policy.GoogleType)
	if err != nil {
		sc.RecordError(err)
		slog.WarnContext(ctx, "places provider failed", "category", policy.Category, "error", err)
		res.Degraded = true
		return res
	}

	res.Places = Rank(origin, radius, candidates, policy)

	if s.cache != nil {
		raw, err := json.Marshal(res.Places)
		if err == nil {
			err = s.cache.Set(ctx, key, raw, s.ttl)
		}
		if err != nil {
			slog.WarnContext(ctx, "places cache write failed", "key", key, "error", err)
		}
	}

	slog.DebugContext(ctx, "places ranked",
		"category", policy.Category,
		"candidates", len(candidates),
		"returned", len(res.Places))
	return res
}

// CacheKey rounds coordinates to 3 decimals (about 110 m) so nearby listings share entries.
func CacheKey(origin LatLng, radius float64, category string) string {
	return fmt.Sprintf("places:%.3f:%.3f:%d:%s", origin.Lat, origin.Lng, int(math.Round(radius)), category)
}

func validateOrigin(o LatLng) error {
	if math.IsNaN(o.Lat) || math.IsNaN(o.Lng) || o.Lat < -90 || o.Lat > 90 || o.Lng < -180 || o.Lng > 180 {
		return fmt.Errorf("%w: %v,%v", ErrInvalidLocation, o.Lat, o.Lng)
	}
	return nil
}

func normalizeCategories(in []string) []string {
	if len(in) == 0 {
		return DefaultCategories
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return DefaultCategories
	}
	return out
}

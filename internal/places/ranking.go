// Package places finds and ranks points of interest around a listing.
package places

import (
	"math"
	"sort"
)

const (
	earthRadiusMeters = 6371000.0

	// Bayesian prior: a place needs about this many reviews before its own rating dominates.
	PriorWeight = 20.0
	PriorRating = 4.0

	walkingMetersPerMinute = 80.0
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Candidate is a raw provider result before scoring.
type Candidate struct {
	PlaceID  string
	Name     string
	Address  string
	Location LatLng
	Rating   float64
	Reviews  int
}

type Place struct {
	PlaceID        string  `json:"place_id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	Rating         float64 `json:"rating"`
	Reviews        int     `json:"reviews"`
	BayesRating    float64 `json:"bayes_rating"`
	DistanceMeters float64 `json:"distance_m"`
	WalkingMinutes int     `json:"walking_minutes"`
	Score          float64 `json:"score"`
	Filled         bool    `json:"filled,omitempty"`
}

// Haversine returns the great-circle distance in meters.
func Haversine(a, b LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BayesRating shrinks a rating toward PriorRating when the review count is small.
func BayesRating(rating float64, reviews int) float64 {
	v := float64(reviews)
	if v < 0 {
		v = 0
	}
	return (v/(v+PriorWeight))*rating + (PriorWeight/(v+PriorWeight))*PriorRating
}

// ReviewScore log-scales a review count against the largest count in the candidate set.
func ReviewScore(reviews, maxReviews int) float64 {
	if maxReviews <= 0 || reviews <= 0 {
		return 0
	}
	return math.Log1p(float64(reviews)) / math.Log1p(float64(maxReviews))
}

// DistanceScore is 1 at the origin and 0 at or beyond radius.
func DistanceScore(distance, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return clamp01(1 - distance/radius)
}

func WalkingMinutes(distance float64) int {
	if distance <= 0 {
		return 0
	}
	return int(math.Ceil(distance / walkingMetersPerMinute))
}

// Rank scores candidates around origin and applies the category policy.
// Accepted places come first in score order; under FillAll the remaining slots
// are topped up with the best rejected candidates, marked Filled.
func Rank(origin LatLng, radius float64, candidates []Candidate, policy Policy) []Place {
	if len(candidates) == 0 || policy.Limit <= 0 {
		return []Place{}
	}

	maxReviews := 0
	for _, c := range candidates {
		if c.Reviews > maxReviews {
			maxReviews = c.Reviews
		}
	}

	// The threshold uses the unrounded rating; BayesRating is rounded for display only.
	type rankedPlace struct {
		Place
		bayes float64
	}

	scored := make([]rankedPlace, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if c.PlaceID != "" {
			if _, dup := seen[c.PlaceID]; dup {
				continue
			}
			seen[c.PlaceID] = struct{}{}
		}

		d := Haversine(origin, c.Location)
		bayes := BayesRating(c.Rating, c.Reviews)
		w := policy.Weights
		score := w.Rating*(bayes/5) + w.Reviews*ReviewScore(c.Reviews, maxReviews) + w.Distance*DistanceScore(d, radius)

		scored = append(scored, rankedPlace{bayes: bayes, Place: Place{
			PlaceID:        c.PlaceID,
			Name:           c.Name,
			Address:        c.Address,
			Lat:            c.Location.Lat,
			Lng:            c.Location.Lng,
			Rating:         c.Rating,
			Reviews:        c.Reviews,
			BayesRating:    round(bayes, 2),
			DistanceMeters: math.Round(d),
			WalkingMinutes: WalkingMinutes(d),
			Score:          round(score, 4),
		}})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].DistanceMeters != scored[j].DistanceMeters {
			return scored[i].DistanceMeters < scored[j].DistanceMeters
		}
		return scored[i].PlaceID < scored[j].PlaceID
	})

	accepted := make([]Place, 0, policy.Limit)
	var rejected []Place
	for _, p := range scored {
		if p.bayes >= policy.MinRating && p.Reviews >= policy.MinReviews {
			if len(accepted) < policy.Limit {
				accepted = append(accepted, p.Place)
			}
			continue
		}
		rejected = append(rejected, p.Place)
	}

	if policy.Fill == FillAll {
		for _, p := range rejected {
			if len(accepted) >= policy.Limit {
				break
			}
			p.Filled = true
			accepted = append(accepted, p)
		}
	}

	return accepted
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package places

import (
	"fmt"
	"slices"
)

type FillMode string

const (
	FillAll    FillMode = "FILL"
	FillStrict FillMode = "STRICT"
)

type Weights struct {
	Rating   float64
	Reviews  float64
	Distance float64
}

type Policy struct {
	Category      string
	GoogleType    string
	DefaultRadius float64
	MinRating     float64
	MinReviews    int
	Limit         int
	Fill          FillMode
	Weights       Weights
}

const (
	MaxRadius     = 5000.0
	maxCategories = 8
)

// Errands close by matter more than ratings; leisure spots the other way round.
var defaultPolicies = map[string]Policy{
	"school": {
		GoogleType: "school", DefaultRadius: 2000, MinRating: 3.8, MinReviews: 10, Limit: 5, Fill: FillAll,
		Weights: Weights{Rating: 0.5, Reviews: 0.2, Distance: 0.3},
	},
	"hospital": {
		GoogleType: "hospital", DefaultRadius: 5000, MinRating: 3.5, MinReviews: 20, Limit: 3, Fill: FillAll,
		Weights: Weights{Rating: 0.4, Reviews: 0.2, Distance: 0.4},
	},
	"pharmacy": {
		GoogleType: "pharmacy", DefaultRadius: 1000, MinRating: 3.5, MinReviews: 5, Limit: 3, Fill: FillAll,
		Weights: Weights{Rating: 0.3, Reviews: 0.1, Distance: 0.6},
	},
	"supermarket": {
		GoogleType: "supermarket", DefaultRadius: 1500, MinRating: 3.8, MinReviews: 20, Limit: 4, Fill: FillAll,
		Weights: Weights{Rating: 0.35, Reviews: 0.15, Distance: 0.5},
	},
	"park": {
		GoogleType: "park", DefaultRadius: 2000, MinRating: 4.0, MinReviews: 30, Limit: 3, Fill: FillStrict,
		Weights: Weights{Rating: 0.5, Reviews: 0.25, Distance: 0.25},
	},
	"restaurant": {
		GoogleType: "restaurant", DefaultRadius: 1000, MinRating: 4.2, MinReviews: 50, Limit: 5, Fill: FillStrict,
		Weights: Weights{Rating: 0.55, Reviews: 0.3, Distance: 0.15},
	},
	"transit": {
		GoogleType: "transit_station", DefaultRadius: 800, MinRating: 0, MinReviews: 0, Limit: 3, Fill: FillAll,
		Weights: Weights{Rating: 0.1, Reviews: 0.1, Distance: 0.8},
	},
	"gym": {
		GoogleType: "gym", DefaultRadius: 1500, MinRating: 4.0, MinReviews: 15, Limit: 3, Fill: FillStrict,
		Weights: Weights{Rating: 0.45, Reviews: 0.2, Distance: 0.35},
	},
	"bank": {
		GoogleType: "bank", DefaultRadius: 1500, MinRating: 0, MinReviews: 0, Limit: 3, Fill: FillAll,
		Weights: Weights{Rating: 0.2, Reviews: 0.1, Distance: 0.7},
	},
}

// DefaultCategories is used when the caller asks for none.
var DefaultCategories = []string{"school", "supermarket", "pharmacy", "hospital", "transit"}

func PolicyFor(category string) (Policy, error) {
	p, ok := defaultPolicies[category]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	p.Category = category
	return p, nil
}

func Categories() []string {
	out := make([]string, 0, len(defaultPolicies))
	for k := range defaultPolicies {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/places"
)

type PlacesFinder interface {
	Nearby(ctx context.Context, q places.Query) (*places.Result, error)
}

// LookupObserver counts where each category result came from.
type LookupObserver interface {
	PlacesLookup(source string)
}

type PlacesHandler struct {
	finder   PlacesFinder
	observer LookupObserver
}

func NewPlacesHandler(finder PlacesFinder, observer LookupObserver) *PlacesHandler {
	return &PlacesHandler{finder: finder, observer: observer}
}

type nearbyQuery struct {
	Lat        *float64 `form:"lat" binding:"required"`
	Lng        *float64 `form:"lng" binding:"required"`
	Radius     float64  `form:"radius" binding:"omitempty,gt=0,lte=5000"`
	Categories string   `form:"categories"`
}

func (h *PlacesHandler) Nearby(c *gin.Context) {
	var q nearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "lat and lng are required")
		return
	}

	var categories []string
	if q.Categories != "" {
		categories = strings.Split(q.Categories, ",")
	}

	result, err := h.finder.Nearby(c.Request.Context(), places.Query{
		Origin:     places.LatLng{Lat: *q.Lat, Lng: *q.Lng},
		Radius:     q.Radius,
		Categories: categories,
	})
	if err != nil {
		respondError(c, err, "failed to look up nearby places")
		return
	}

	if h.observer != nil {
		for _, cat := range result.Categories {
			switch {
			case cat.Degraded:
				h.observer.PlacesLookup("degraded")
			case cat.Cached:
				h.observer.PlacesLookup("cache")
			default:
				h.observer.PlacesLookup("provider")
			}
		}
	}
	c.JSON(http.StatusOK, result)
}

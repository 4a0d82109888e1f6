package handler_test

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"zillowlike.app/api/internal/http/handler"
	"zillowlike.app/api/internal/places"
)

var _ = Describe("PlacesHandler", func() {
	var (
		router   *gin.Engine
		finder   *mockPlacesFinder
		observer *countingObserver
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		finder = &mockPlacesFinder{}
		observer = &countingObserver{}
		router.GET("/places/nearby", handler.NewPlacesHandler(finder, observer).Nearby)
	})

	It("parses the query and counts lookup sources", func() {
		finder.nearbyFn = func(_ context.Context, q places.Query) (*places.Result, error) {
			Expect(q.Origin).To(Equal(places.LatLng{Lat: -25.43, Lng: -49.27}))
			Expect(q.Radius).To(Equal(1500.0))
			Expect(q.Categories).To(Equal([]string{"school", "pharmacy", "transit"}))
			return &places.Result{Origin: q.Origin, Categories: []places.CategoryResult{
				{Category: "school", Cached: true},
				{Category: "pharmacy"},
				{Category: "transit", Degraded: true},
			}}, nil
		}
		w := doJSON(router, http.MethodGet, "/places/nearby?lat=-25.43&lng=-49.27&radius=1500&categories=school,pharmacy,transit", nil, false)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(observer.sources).To(Equal(map[string]int{"cache": 1, "provider": 1, "degraded": 1}))
	})

	It("requires coordinates", func() {
		w := doJSON(router, http.MethodGet, "/places/nearby?lat=-25.43", nil, false)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("accepts the equator and prime meridian", func() {
		finder.nearbyFn = func(_ context.Context, q places.Query) (*places.Result, error) {
			Expect(q.Origin).To(Equal(places.LatLng{}))
			Expect(q.Categories).To(BeNil())
			return &places.Result{}, nil
		}
		w := doJSON(router, http.MethodGet, "/places/nearby?lat=0&lng=0", nil, false)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	DescribeTable("maps lookup errors to 400",
		func(err error) {
			finder.nearbyFn = func(context.Context, places.Query) (*places.Result, error) { return nil, err }
			w := doJSON(router, http.MethodGet, "/places/nearby?lat=1&lng=1&categories=zoo", nil, false)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		},
		Entry("unknown category", places.ErrUnknownCategory),
		Entry("invalid location", places.ErrInvalidLocation),
		Entry("too many", places.ErrTooManyCategories),
	)

	It("rejects an oversized radius", func() {
		w := doJSON(router, http.MethodGet, "/places/nearby?lat=1&lng=1&radius=90000", nil, false)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})

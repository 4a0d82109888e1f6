package handler_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"zillowlike.app/api/internal/assist"
	"zillowlike.app/api/internal/http/handler"
	"zillowlike.app/api/internal/http/middleware"
	"zillowlike.app/api/internal/media"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/service"
)

var _ = Describe("PropertyHandler", func() {
	var (
		router  *gin.Engine
		svc     *mockPropertyService
		realtor = &model.User{ID: 10, Role: model.RoleRealtor}
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockPropertyService{}
		h := handler.NewPropertyHandler(svc)
		router.GET("/properties", h.Search)
		router.GET("/properties/:id", h.Get)
		authed := router.Group("", sessionAuth(realtor))
		authed.POST("/properties", h.Create)
		authed.PATCH("/properties/:id/status", h.ChangeStatus)
		authed.POST("/properties/:id/images", h.UploadImage)
		authed.PUT("/properties/:id/images/order", h.ReorderImages)
		authed.POST("/properties/:id/description", h.GenerateDescription)
	})

	Describe("Search", func() {
		It("builds a filter from the query string", func() {
			svc.searchFn = func(_ context.Context, f model.PropertyFilter) ([]model.Property, error) {
				Expect(f.City).To(Equal("Curitiba"))
				Expect(f.Purpose).NotTo(BeNil())
				Expect(*f.Purpose).To(Equal(model.Purpose("SALE")))
				Expect(*f.MinBedrooms).To(Equal(2))
				Expect(f.BBox).NotTo(BeNil())
				Expect(f.Limit).To(Equal(int32(20)))
				Expect(f.Offset).To(Equal(int32(20)))
				return []model.Property{{ID: 77, Title: "Casa"}}, nil
			}
			w := doJSON(router, http.MethodGet,
				"/properties?city=Curitiba&purpose=SALE&min_bedrooms=2&min_lat=-25.5&max_lat=-25.3&min_lng=-49.4&max_lng=-49.2&page=2", nil, false)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"id":"77"`))
		})

		It("rejects a partial bounding box", func() {
			w := doJSON(router, http.MethodGet, "/properties?min_lat=-25.5", nil, false)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps invalid input from the service", func() {
			svc.searchFn = func(context.Context, model.PropertyFilter) ([]model.Property, error) {
				return nil, service.ErrInvalidInput
			}
			w := doJSON(router, http.MethodGet, "/properties?min_price=500&max_price=100", nil, false)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Get", func() {
		It("serves anonymous visitors with a nil actor", func() {
			svc.getFn = func(_ context.Context, actor *model.User, id int64) (*model.Property, error) {
				Expect(actor).To(BeNil())
				Expect(id).To(Equal(int64(5)))
				return &model.Property{ID: 5}, nil
			}
			w := doJSON(router, http.MethodGet, "/properties/5", nil, false)
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("returns 404 for hidden listings", func() {
			svc.getFn = func(context.Context, *model.User, int64) (*model.Property, error) {
				return nil, service.ErrPropertyNotFound
			}
			w := doJSON(router, http.MethodGet, "/properties/5", nil, false)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	It("validates the create body before calling the service", func() {
		w := doJSON(router, http.MethodPost, "/properties", map[string]any{"purpose": "SALE"}, true)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("maps an illegal status transition to 409", func() {
		svc.statusFn = func(_ context.Context, _ *model.User, _ int64, status model.PropertyStatus) (*model.Property, error) {
			Expect(status).To(Equal(model.PropertyStatusDraft))
			return nil, service.ErrInvalidStatusTransition
		}
		w := doJSON(router, http.MethodPatch, "/properties/5/status", map[string]string{"status": "DRAFT"}, true)
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	Describe("UploadImage", func() {
		upload := func(field string) *httptest.ResponseRecorder {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			fw, _ := mw.CreateFormFile(field, "sala.jpg")
			_, _ = fw.Write([]byte("jpeg-bytes"))
			_ = mw.Close()

			req := httptest.NewRequest(http.MethodPost, "/properties/5/images", &buf)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			req.Header.Set(middleware.SessionIDHeader, "1")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		It("streams the file to the service", func() {
			svc.uploadFn = func(_ context.Context, _ *model.User, propertyID int64, file io.Reader) (*model.Image, error) {
				data, err := io.ReadAll(file)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("jpeg-bytes"))
				return &model.Image{ID: 1, PropertyID: propertyID, URL: "https://cdn/x.jpg"}, nil
			}
			w := upload("file")
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(w.Body.String()).To(ContainSubstring(`"property_id":"5"`))
		})

		It("requires the file field", func() {
			w := upload("photo")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps the image cap to 422", func() {
			svc.uploadFn = func(context.Context, *model.User, int64, io.Reader) (*model.Image, error) {
				return nil, service.ErrTooManyImages
			}
			Expect(upload("file").Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("reports 503 when media storage is off", func() {
			svc.uploadFn = func(context.Context, *model.User, int64, io.Reader) (*model.Image, error) {
				return nil, media.ErrDisabled
			}
			Expect(upload("file").Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	It("parses string image ids for reorder", func() {
		svc.reorderFn = func(_ context.Context, _ *model.User, _ int64, ids []int64) ([]model.Image, error) {
			Expect(ids).To(Equal([]int64{3, 1, 2}))
			return nil, nil
		}
		w := doJSON(router, http.MethodPut, "/properties/5/images/order", map[string]any{"image_ids": []string{"3", "1", "2"}}, true)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = doJSON(router, http.MethodPut, "/properties/5/images/order", map[string]any{"image_ids": []string{"x"}}, true)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("generates a description with an empty body", func() {
		svc.describeFn = func(_ context.Context, _ *model.User, _ int64, highlights []string) (assist.Description, error) {
			Expect(highlights).To(BeEmpty())
			return assist.Description{Text: "Casa ampla.", Fallback: true}, nil
		}
		w := doJSON(router, http.MethodPost, "/properties/5/description", nil, true)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("fallback", true))
	})
})

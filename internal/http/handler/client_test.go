package handler_test

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"zillowlike.app/api/internal/http/handler"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/service"
)

var _ = Describe("ClientHandler", func() {
	var (
		router  *gin.Engine
		svc     *mockClientService
		realtor = &model.User{ID: 10, Role: model.RoleRealtor}
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockClientService{}
		h := handler.NewClientHandler(svc)
		router.GET("/shared/:token", h.Shared)
		router.POST("/lists", sessionAuth(realtor), h.CreateList)
	})

	It("creates a list from string ids and returns string ids", func() {
		svc.createListFn = func(_ context.Context, _ *model.User, title string, clientID *int64, ids []int64) (*model.RecommendationList, error) {
			Expect(title).To(Equal("Opções no Batel"))
			Expect(*clientID).To(Equal(int64(4)))
			Expect(ids).To(Equal([]int64{300, 301}))
			return &model.RecommendationList{ID: 9, Title: title, ClientID: clientID, PropertyIDs: ids}, nil
		}
		w := doJSON(router, http.MethodPost, "/lists", map[string]any{
			"title":        "Opções no Batel",
			"client_id":    "4",
			"property_ids": []string{"300", "301"},
		}, true)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(decode(w)).To(HaveKeyWithValue("property_ids", []any{"300", "301"}))
	})

	It("returns 404 for a malformed share token", func() {
		w := doJSON(router, http.MethodGet, "/shared/not-a-uuid", nil, false)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("serves a shared list without a session", func() {
		token := uuid.New()
		svc.sharedFn = func(_ context.Context, got uuid.UUID) (*service.SharedList, error) {
			Expect(got).To(Equal(token))
			return &service.SharedList{Title: "Para você", Properties: []model.Property{{ID: 300}}}, nil
		}
		w := doJSON(router, http.MethodGet, "/shared/"+token.String(), nil, false)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("title", "Para você"))
	})
})

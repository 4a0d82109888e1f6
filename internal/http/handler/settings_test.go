package handler_test

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"zillowlike.app/api/internal/http/handler"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/service"
)

var _ = Describe("SettingsHandler", func() {
	var (
		router *gin.Engine
		svc    *mockSettingsService
		admin  = &model.User{ID: 1, Role: model.RoleAdmin}
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockSettingsService{}
		router.PUT("/settings/:key", sessionAuth(admin), handler.NewSettingsHandler(svc).Put)
	})

	It("stores the raw body under the key", func() {
		svc.putFn = func(_ context.Context, _ *model.User, key string, value json.RawMessage) (*model.SystemSetting, error) {
			Expect(key).To(Equal("ai.enabled"))
			Expect(string(value)).To(Equal("false"))
			return &model.SystemSetting{Key: key, Value: value}, nil
		}
		w := doJSON(router, http.MethodPut, "/settings/ai.enabled", "false", true)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("value", false))
	})

	It("rejects a body that is not JSON", func() {
		w := doJSON(router, http.MethodPut, "/settings/ai.enabled", "{nope", true)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("maps validation failures", func() {
		svc.putFn = func(context.Context, *model.User, string, json.RawMessage) (*model.SystemSetting, error) {
			return nil, service.ErrInvalidInput
		}
		w := doJSON(router, http.MethodPut, "/settings/leads.followup_hours", `"soon"`, true)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})

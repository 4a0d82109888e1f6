package handler_test

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"zillowlike.app/api/internal/http/handler"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/service"
)

var _ = Describe("UserHandler", func() {
	var (
		router *gin.Engine
		svc    *mockUserService
		admin  = &model.User{ID: 1, Role: model.RoleAdmin}
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockUserService{}
		h := handler.NewUserHandler(svc)
		authed := router.Group("", sessionAuth(admin))
		authed.GET("/users", h.List)
		authed.PATCH("/users/:id/role", h.ChangeRole)
	})

	It("passes role filter and pagination to the service", func() {
		svc.listFn = func(_ context.Context, actor *model.User, role *model.Role, limit, offset int32) ([]model.User, error) {
			Expect(actor).To(Equal(admin))
			Expect(role).NotTo(BeNil())
			Expect(*role).To(Equal(model.RoleRealtor))
			Expect(limit).To(Equal(int32(10)))
			Expect(offset).To(Equal(int32(20)))
			return []model.User{{ID: 5, Name: "Bruno", Role: model.RoleRealtor}}, nil
		}
		w := doJSON(router, http.MethodGet, "/users?role=REALTOR&page=3&limit=10", nil, true)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"id":"5"`))
	})

	It("rejects an out-of-range limit", func() {
		w := doJSON(router, http.MethodGet, "/users?limit=1000", nil, true)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	DescribeTable("ChangeRole error mapping",
		func(err error, status int) {
			svc.changeRoleFn = func(context.Context, *model.User, int64, model.Role) (*model.User, error) {
				return nil, err
			}
			w := doJSON(router, http.MethodPatch, "/users/9/role", map[string]string{"role": "OWNER"}, true)
			Expect(w.Code).To(Equal(status))
		},
		Entry("forbidden", service.ErrForbidden, http.StatusForbidden),
		Entry("unknown user", service.ErrUserNotFound, http.StatusNotFound),
		Entry("bad role", service.ErrInvalidInput, http.StatusBadRequest),
		Entry("unexpected", context.DeadlineExceeded, http.StatusInternalServerError),
	)

	It("rejects a non-numeric user id", func() {
		w := doJSON(router, http.MethodPatch, "/users/abc/role", map[string]string{"role": "OWNER"}, true)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})

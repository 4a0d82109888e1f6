package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"zillowlike.app/api/internal/http/handler"
	"zillowlike.app/api/internal/http/middleware"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/service"
)

var _ = Describe("AuthHandler", func() {
	var (
		router *gin.Engine
		svc    *mockAuthService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockAuthService{}
		h := handler.NewAuthHandler(svc, "https://app.example.com", false)
		router.GET("/auth/callback", h.Callback)
		router.POST("/auth/exchange", h.Exchange)
		router.POST("/auth/logout", h.Logout)
		router.GET("/auth/me", sessionAuth(&model.User{ID: 42, Name: "Ana", Role: model.RoleRealtor}), h.Me)
	})

	Describe("Callback", func() {
		It("redirects with an error when the state cookie is missing", func() {
			req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=xyz", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusTemporaryRedirect))
			Expect(w.Header().Get("Location")).To(ContainSubstring("auth_error="))
		})

		It("sets the session cookie and redirects to the dashboard", func() {
			svc.callbackFn = func(_ context.Context, code string) (*model.User, *model.Session, error) {
				Expect(code).To(Equal("abc"))
				return &model.User{ID: 42}, &model.Session{ID: 900, Token: "opaque-token"}, nil
			}
			req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=xyz", nil)
			req.AddCookie(&http.Cookie{Name: "zl_oauth_state", Value: "xyz"})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusTemporaryRedirect))
			Expect(w.Header().Get("Location")).To(Equal("https://app.example.com/dashboard"))

			var session *http.Cookie
			for _, ck := range w.Result().Cookies() {
				if ck.Name == middleware.SessionCookieName {
					session = ck
				}
			}
			Expect(session).NotTo(BeNil())
			Expect(session.Value).To(Equal("opaque-token"))
			Expect(session.HttpOnly).To(BeTrue())
		})
	})

	Describe("Exchange", func() {
		It("returns the opaque session token, never the row id", func() {
			svc.callbackFn = func(context.Context, string) (*model.User, *model.Session, error) {
				return &model.User{ID: 42, Email: "ana@example.com"},
					&model.Session{ID: 1234567890123, Token: "opaque-token"}, nil
			}
			w := doJSON(router, http.MethodPost, "/auth/exchange", map[string]string{"code": "abc"}, false)

			Expect(w.Code).To(Equal(http.StatusOK))
			body := decode(w)
			Expect(body["session_id"]).To(Equal("opaque-token"))
			Expect(w.Body.String()).NotTo(ContainSubstring("1234567890123"))
			Expect(body["user"]).To(HaveKeyWithValue("id", "42"))
		})

		It("rejects an invalid code", func() {
			svc.callbackFn = func(context.Context, string) (*model.User, *model.Session, error) {
				return nil, nil, service.ErrInvalidCode
			}
			w := doJSON(router, http.MethodPost, "/auth/exchange", map[string]string{"code": "bad"}, false)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("requires a code", func() {
			w := doJSON(router, http.MethodPost, "/auth/exchange", map[string]string{}, false)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	It("logs out the header session", func() {
		var loggedOut string
		svc.logoutFn = func(_ context.Context, token string) error {
			loggedOut = token
			return nil
		}
		w := doJSON(router, http.MethodPost, "/auth/logout", nil, true)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(loggedOut).To(Equal(testSessionToken))
	})

	It("returns the current user", func() {
		w := doJSON(router, http.MethodGet, "/auth/me", nil, true)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("name", "Ana"))
	})

	It("rejects /me without a session", func() {
		w := doJSON(router, http.MethodGet, "/auth/me", nil, false)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})

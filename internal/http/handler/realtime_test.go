package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"zillowlike.app/api/internal/http/handler"
	"zillowlike.app/api/internal/http/middleware"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/realtime"
)

type stubPublisher struct {
	realtime.Publisher
	params []byte
}

func (s *stubPublisher) Authorize(userID int64, channel string, params []byte) ([]byte, error) {
	if channel != realtime.UserChannel(userID) {
		return nil, realtime.ErrChannelForbidden
	}
	s.params = params
	return []byte(`{"auth":"key:sig"}`), nil
}

var _ = Describe("RealtimeHandler", func() {
	var (
		router *gin.Engine
		pub    *stubPublisher
	)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/realtime/auth", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set(middleware.SessionIDHeader, "1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		pub = &stubPublisher{}
		router.POST("/realtime/auth", sessionAuth(&model.User{ID: 20}), handler.NewRealtimeHandler(pub).Auth)
	})

	It("signs the user's own channel with the raw body", func() {
		w := post("socket_id=123.456&channel_name=private-user-20")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal(`{"auth":"key:sig"}`))
		Expect(string(pub.params)).To(Equal("socket_id=123.456&channel_name=private-user-20"))
	})

	It("refuses another user's channel", func() {
		Expect(post("socket_id=123.456&channel_name=private-user-21").Code).To(Equal(http.StatusForbidden))
	})

	It("requires socket_id", func() {
		Expect(post("channel_name=private-user-20").Code).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("AssistantHandler", func() {
	It("passes the snooze time through", func() {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		until := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		svc := &mockAssistantService{snoozeFn: func(_ context.Context, _ *model.User, itemID int64, got time.Time) error {
			Expect(itemID).To(Equal(int64(8)))
			Expect(got.Equal(until)).To(BeTrue())
			return nil
		}}
		router.POST("/assistant/:id/snooze", sessionAuth(&model.User{ID: 20}), handler.NewAssistantHandler(svc).Snooze)

		w := doJSON(router, http.MethodPost, "/assistant/8/snooze", map[string]string{"until": "2026-03-02T09:00:00Z"}, true)
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})
})

var _ = Describe("AdminHandler", func() {
	It("reports the purged count", func() {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		svc := &mockAuthService{purgeFn: func(context.Context) (int64, error) { return 3, nil }}
		router.POST("/admin/sessions/purge", handler.NewAdminHandler(svc).PurgeSessions)

		w := doJSON(router, http.MethodPost, "/admin/sessions/purge", nil, false)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("purged", 3.0))
	})
})

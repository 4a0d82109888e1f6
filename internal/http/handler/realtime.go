package handler

import (
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/realtime"
)

type RealtimeHandler struct {
	publisher realtime.Publisher
}

func NewRealtimeHandler(publisher realtime.Publisher) *RealtimeHandler {
	return &RealtimeHandler{publisher: publisher}
}

// Auth signs a private channel subscription for the Pusher client library,
// which posts socket_id and channel_name as a form body.
func (h *RealtimeHandler) Auth(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 4<<10))
	if err != nil {
		badRequest(c, "unreadable body")
		return
	}
	form, err := url.ParseQuery(string(body))
	if err != nil || form.Get("channel_name") == "" || form.Get("socket_id") == "" {
		badRequest(c, "socket_id and channel_name are required")
		return
	}

	resp, err := h.publisher.Authorize(currentUser(c).ID, form.Get("channel_name"), body)
	if err != nil {
		respondError(c, err, "failed to authorize channel")
		return
	}
	c.Data(http.StatusOK, "application/json", resp)
}

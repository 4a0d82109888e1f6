package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/http/dto"
	"zillowlike.app/api/internal/service"
)

type AssistantHandler struct {
	assistant service.AssistantService
}

func NewAssistantHandler(assistant service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

func (h *AssistantHandler) List(c *gin.Context) {
	items, err := h.assistant.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to list assistant items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *AssistantHandler) MarkDone(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.assistant.MarkDone(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err, "failed to complete item")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AssistantHandler) Dismiss(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.assistant.Dismiss(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err, "failed to dismiss item")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AssistantHandler) Snooze(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.SnoozeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "until must be an RFC 3339 timestamp")
		return
	}
	if err := h.assistant.Snooze(c.Request.Context(), currentUser(c), id, req.Until); err != nil {
		respondError(c, err, "failed to snooze item")
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/service"
)

const maxSettingBytes = 64 << 10

type SettingsHandler struct {
	settings service.SettingsService
}

func NewSettingsHandler(settings service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) List(c *gin.Context) {
	settings, err := h.settings.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to list settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// Put stores the raw request body as the value of :key.
func (h *SettingsHandler) Put(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSettingBytes+1))
	if err != nil {
		badRequest(c, "unreadable body")
		return
	}
	if len(body) > maxSettingBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "setting value too large"})
		return
	}
	if !json.Valid(body) {
		badRequest(c, "body must be a JSON value")
		return
	}

	setting, err := h.settings.Put(c.Request.Context(), currentUser(c), c.Param("key"), json.RawMessage(body))
	if err != nil {
		respondError(c, err, "failed to save setting")
		return
	}
	c.JSON(http.StatusOK, setting)
}

func (h *SettingsHandler) Dashboard(c *gin.Context) {
	stats, err := h.settings.Dashboard(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, stats)
}

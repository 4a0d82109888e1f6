package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/service"
)

// AdminHandler serves machine endpoints guarded by the admin API key.
type AdminHandler struct {
	authService service.AuthService
}

func NewAdminHandler(authService service.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

func (h *AdminHandler) PurgeSessions(c *gin.Context) {
	n, err := h.authService.PurgeExpiredSessions(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to purge sessions")
		return
	}
	slog.InfoContext(c.Request.Context(), "expired sessions purged", "count", n)
	c.JSON(http.StatusOK, gin.H{"purged": n})
}

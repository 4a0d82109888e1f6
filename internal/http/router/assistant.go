package router

import (
	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/http/handler"
)

func AssistantRouter(rg *gin.RouterGroup, h *handler.AssistantHandler) {
	rg.GET("", h.List)
	rg.POST("/:id/done", h.MarkDone)
	rg.POST("/:id/dismiss", h.Dismiss)
	rg.POST("/:id/snooze", h.Snooze)
}

package router

import (
	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/http/handler"
)

func TeamRouter(rg *gin.RouterGroup, h *handler.TeamHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.ListMine)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id/mode", h.UpdateMode)
	rg.PUT("/:id/queue", h.ReorderQueue)
	rg.POST("/:id/members", h.AddMember)
	rg.DELETE("/:id/members/:user_id", h.RemoveMember)
	rg.PATCH("/:id/members/:user_id", h.SetMemberActive)
}

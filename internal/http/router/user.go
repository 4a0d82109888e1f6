package router

import (
	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/http/handler"
)

func UserRouter(rg *gin.RouterGroup, h *handler.UserHandler) {
	rg.GET("/me", h.Me)
	rg.PATCH("/me", h.UpdateMe)
}

// AdminRouter expects rg to be gated to admins already.
func AdminRouter(rg *gin.RouterGroup, users *handler.UserHandler, settings *handler.SettingsHandler) {
	rg.GET("/users", users.List)
	rg.PATCH("/users/:id/role", users.ChangeRole)

	rg.GET("/settings", settings.List)
	rg.PUT("/settings/:key", settings.Put)
	rg.GET("/dashboard", settings.Dashboard)
}

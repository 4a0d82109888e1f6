package router

import (
	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/http/handler"
)

func ClientRouter(rg *gin.RouterGroup, h *handler.ClientHandler) {
	clients := rg.Group("/clients")
	{
		clients.POST("", h.Create)
		clients.GET("", h.List)
		clients.GET("/:id", h.Get)
		clients.PUT("/:id", h.Update)
		clients.DELETE("/:id", h.Delete)
	}

	lists := rg.Group("/lists")
	{
		lists.POST("", h.CreateList)
		lists.GET("", h.Lists)
		lists.POST("/:id/properties", h.AddToList)
		lists.DELETE("/:id/properties/:property_id", h.RemoveFromList)
	}
}

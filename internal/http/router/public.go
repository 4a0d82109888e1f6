package router

import (
	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/http/handler"
)

// PublicRouter mounts what anonymous visitors can reach. optionalAuth lets a
// signed-in owner see their own unpublished listing and links leads to the contact.
func PublicRouter(
	rg *gin.RouterGroup,
	optionalAuth gin.HandlerFunc,
	properties *handler.PropertyHandler,
	leads *handler.LeadHandler,
	clients *handler.ClientHandler,
	places *handler.PlacesHandler,
) {
	rg.GET("/properties", properties.Search)
	rg.GET("/properties/:id", optionalAuth, properties.Get)
	rg.POST("/properties/:id/views", properties.RecordView)

	rg.POST("/leads", optionalAuth, leads.Create)
	rg.GET("/shared/:token", clients.Shared)
	rg.GET("/places/nearby", places.Nearby)
}

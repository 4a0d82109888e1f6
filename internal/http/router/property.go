package router

import (
	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/http/handler"
)

func PropertyRouter(rg *gin.RouterGroup, h *handler.PropertyHandler) {
	rg.GET("/me/properties", h.ListMine)

	props := rg.Group("/properties")
	{
		props.POST("", h.Create)
		props.PUT("/:id", h.Update)
		props.PATCH("/:id/status", h.ChangeStatus)
		props.DELETE("/:id", h.Delete)
		props.POST("/:id/description", h.GenerateDescription)

		props.POST("/:id/images", h.UploadImage)
		props.PUT("/:id/images/order", h.ReorderImages)
		props.DELETE("/:id/images/:image_id", h.DeleteImage)
	}
}

package router

import (
	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/http/handler"
)

func LeadRouter(rg *gin.RouterGroup, h *handler.LeadHandler) {
	leads := rg.Group("/leads")
	{
		leads.GET("", h.List)
		leads.GET("/board", h.Board)
		leads.GET("/:id", h.Get)
		leads.PATCH("/:id/stage", h.ChangeStage)
		leads.POST("/:id/notes", h.AddNote)
		leads.PATCH("/:id/assignee", h.Reassign)
		leads.GET("/:id/timeline", h.Timeline)
		leads.GET("/:id/messages", h.Messages)
		leads.POST("/:id/messages", h.LogMessage)
		leads.GET("/:id/whatsapp", h.WhatsApp)
		leads.POST("/:id/drafts", h.Draft)
	}

	rg.POST("/coaching/classify", h.Classify)
}

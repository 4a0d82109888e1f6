package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/coaching"
	"zillowlike.app/api/internal/http/dto"
	"zillowlike.app/api/internal/service"
)

type LeadHandler struct {
	leads  service.LeadService
	drafts service.DraftService
}

func NewLeadHandler(leads service.LeadService, drafts service.DraftService) *LeadHandler {
	return &LeadHandler{leads: leads, drafts: drafts}
}

// Create is public: visitors send leads without an account. A signed-in
// visitor is linked as the lead's contact.
func (h *LeadHandler) Create(c *gin.Context) {
	var req dto.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	lead, err := h.leads.Create(c.Request.Context(), currentUser(c), req.ToInput())
	if err != nil {
		respondError(c, err, "failed to create lead")
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func (h *LeadHandler) List(c *gin.Context) {
	var q dto.LeadListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}

	leads, err := h.leads.List(c.Request.Context(), currentUser(c), q.ToScope())
	if err != nil {
		respondError(c, err, "failed to list leads")
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

func (h *LeadHandler) Board(c *gin.Context) {
	var q struct {
		TeamID *int64 `form:"team_id"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid team id")
		return
	}

	columns, err := h.leads.Board(c.Request.Context(), currentUser(c), q.TeamID)
	if err != nil {
		respondError(c, err, "failed to load board")
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

func (h *LeadHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	lead, err := h.leads.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err, "failed to get lead")
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) ChangeStage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "stage is required")
		return
	}

	lead, err := h.leads.ChangeStage(c.Request.Context(), currentUser(c), id, req.Stage, req.Note)
	if err != nil {
		respondError(c, err, "failed to change stage")
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) AddNote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "note is required")
		return
	}

	event, err := h.leads.AddNote(c.Request.Context(), currentUser(c), id, req.Note)
	if err != nil {
		respondError(c, err, "failed to add note")
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *LeadHandler) Reassign(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "realtor_id is required")
		return
	}

	lead, err := h.leads.Reassign(c.Request.Context(), currentUser(c), id, req.RealtorID)
	if err != nil {
		respondError(c, err, "failed to reassign lead")
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) Timeline(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	events, err := h.leads.Timeline(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err, "failed to load timeline")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *LeadHandler) LogMessage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	msg, err := h.leads.LogMessage(c.Request.Context(), currentUser(c), id, req.ToInput())
	if err != nil {
		respondError(c, err, "failed to log message")
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *LeadHandler) Messages(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	msgs, err := h.leads.Messages(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err, "failed to load messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *LeadHandler) WhatsApp(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	link, err := h.leads.WhatsAppLink(c.Request.Context(), currentUser(c), id, c.Query("text"))
	if err != nil {
		respondError(c, err, "failed to build whatsapp link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}

func (h *LeadHandler) Draft(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.DraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	result, err := h.drafts.Draft(c.Request.Context(), currentUser(c), id, req.Text)
	if err != nil {
		respondError(c, err, "failed to draft reply")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Classify runs the intent classifier alone; it never touches a lead.
func (h *LeadHandler) Classify(c *gin.Context) {
	var req dto.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "text is required")
		return
	}
	c.JSON(http.StatusOK, coaching.Classify(req.Text))
}

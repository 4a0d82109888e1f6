package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zillowlike.app/api/internal/http/dto"
	"zillowlike.app/api/internal/service"
)

type ClientHandler struct {
	clients service.ClientService
}

func NewClientHandler(clients service.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	client, err := h.clients.Create(c.Request.Context(), currentUser(c), req.ToInput())
	if err != nil {
		respondError(c, err, "failed to create client")
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clients.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to list clients")
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	client, err := h.clients.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err, "failed to get client")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	client, err := h.clients.Update(c.Request.Context(), currentUser(c), id, req.ToInput())
	if err != nil {
		respondError(c, err, "failed to update client")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.clients.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err, "failed to delete client")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientHandler) CreateList(c *gin.Context) {
	var req dto.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	propertyIDs, err := dto.ParseIDs(req.PropertyIDs)
	if err != nil {
		badRequest(c, "invalid property id")
		return
	}

	list, err := h.clients.CreateList(c.Request.Context(), currentUser(c), req.Title, req.ClientID, propertyIDs)
	if err != nil {
		respondError(c, err, "failed to create list")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRecommendationListResponse(list))
}

func (h *ClientHandler) Lists(c *gin.Context) {
	lists, err := h.clients.Lists(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to list recommendation lists")
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": dto.ToRecommendationListResponses(lists)})
}

func (h *ClientHandler) AddToList(c *gin.Context) {
	listID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ListPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "property_id is required")
		return
	}

	list, err := h.clients.AddToList(c.Request.Context(), currentUser(c), listID, req.PropertyID)
	if err != nil {
		respondError(c, err, "failed to add property")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecommendationListResponse(list))
}

func (h *ClientHandler) RemoveFromList(c *gin.Context) {
	listID, ok := idParam(c, "id")
	if !ok {
		return
	}
	propertyID, ok := idParam(c, "property_id")
	if !ok {
		return
	}

	list, err := h.clients.RemoveFromList(c.Request.Context(), currentUser(c), listID, propertyID)
	if err != nil {
		respondError(c, err, "failed to remove property")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecommendationListResponse(list))
}

// Shared serves the public view of a list behind its share token.
func (h *ClientHandler) Shared(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrListNotFound.Error()})
		return
	}

	shared, err := h.clients.Shared(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "failed to load list")
		return
	}
	c.JSON(http.StatusOK, shared)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/http/dto"
	"zillowlike.app/api/internal/service"
)

type TeamHandler struct {
	teams service.TeamService
}

func NewTeamHandler(teams service.TeamService) *TeamHandler {
	return &TeamHandler{teams: teams}
}

func (h *TeamHandler) Create(c *gin.Context) {
	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	detail, err := h.teams.Create(c.Request.Context(), currentUser(c), req.Name, req.Mode)
	if err != nil {
		respondError(c, err, "failed to create team")
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *TeamHandler) ListMine(c *gin.Context) {
	teams, err := h.teams.ListMine(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to list teams")
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

func (h *TeamHandler) Get(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.teams.Get(c.Request.Context(), currentUser(c), teamID)
	if err != nil {
		respondError(c, err, "failed to get team")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *TeamHandler) AddMember(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "a valid email is required")
		return
	}

	member, err := h.teams.AddMember(c.Request.Context(), currentUser(c), teamID, req.Email)
	if err != nil {
		respondError(c, err, "failed to add member")
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *TeamHandler) RemoveMember(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	if err := h.teams.RemoveMember(c.Request.Context(), currentUser(c), teamID, userID); err != nil {
		respondError(c, err, "failed to remove member")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TeamHandler) SetMemberActive(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	var req dto.SetMemberActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "active is required")
		return
	}

	if err := h.teams.SetMemberActive(c.Request.Context(), currentUser(c), teamID, userID, *req.Active); err != nil {
		respondError(c, err, "failed to update member")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TeamHandler) UpdateMode(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "distribution_mode is required")
		return
	}

	team, err := h.teams.UpdateMode(c.Request.Context(), currentUser(c), teamID, req.Mode)
	if err != nil {
		respondError(c, err, "failed to update team")
		return
	}
	c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) ReorderQueue(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReorderQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "user_ids is required")
		return
	}
	userIDs, err := dto.ParseIDs(req.UserIDs)
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}

	members, err := h.teams.ReorderQueue(c.Request.Context(), currentUser(c), teamID, userIDs)
	if err != nil {
		respondError(c, err, "failed to reorder queue")
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

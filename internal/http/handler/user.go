package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/http/dto"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), currentUser(c).ID, req.ToUpdate())
	if err != nil {
		respondError(c, err, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

type listUsersQuery struct {
	Role  string `form:"role"`
	Page  int32  `form:"page" binding:"omitempty,gte=1"`
	Limit int32  `form:"limit" binding:"omitempty,gte=1,lte=200"`
}

func (h *UserHandler) List(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}

	var role *model.Role
	if q.Role != "" {
		r := model.Role(q.Role)
		role = &r
	}
	limit, offset := dto.Paginate(q.Page, q.Limit, 50)

	users, err := h.userService.List(c.Request.Context(), currentUser(c), role, limit, offset)
	if err != nil {
		respondError(c, err, "failed to list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserResponses(users)})
}

func (h *UserHandler) ChangeRole(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "role is required")
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), currentUser(c), userID, req.Role)
	if err != nil {
		respondError(c, err, "failed to change role")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

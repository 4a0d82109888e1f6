package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zillowlike.app/api/common/id"
	"zillowlike.app/api/internal/http/middleware"
	"zillowlike.app/api/internal/media"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/places"
	"zillowlike.app/api/internal/realtime"
	"zillowlike.app/api/internal/service"
	"zillowlike.app/api/internal/stage"
	"zillowlike.app/api/internal/store"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrInvalidInput, http.StatusBadRequest},
	{stage.ErrUnknownStage, http.StatusBadRequest},
	{places.ErrUnknownCategory, http.StatusBadRequest},
	{places.ErrInvalidLocation, http.StatusBadRequest},
	{places.ErrTooManyCategories, http.StatusBadRequest},
	{service.ErrInvalidCode, http.StatusBadRequest},
	{service.ErrSessionExpired, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{realtime.ErrChannelForbidden, http.StatusForbidden},
	{service.ErrPropertyNotFound, http.StatusNotFound},
	{service.ErrImageNotFound, http.StatusNotFound},
	{service.ErrTeamNotFound, http.StatusNotFound},
	{service.ErrMemberNotFound, http.StatusNotFound},
	{service.ErrLeadNotFound, http.StatusNotFound},
	{service.ErrClientNotFound, http.StatusNotFound},
	{service.ErrListNotFound, http.StatusNotFound},
	{service.ErrAssistantItemNotFound, http.StatusNotFound},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrInvalidStatusTransition, http.StatusConflict},
	{stage.ErrSameStage, http.StatusConflict},
	{stage.ErrInvalidTransition, http.StatusConflict},
	{service.ErrTooManyImages, http.StatusUnprocessableEntity},
	{media.ErrDisabled, http.StatusServiceUnavailable},
}

// respondError maps service errors to a status. Client errors echo the error
// text; anything unmapped is logged and reported as a generic 500.
func respondError(c *gin.Context, err error, fallback string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": err.Error()})
			return
		}
	}
	if store.IsUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "resource already exists"})
		return
	}

	slog.ErrorContext(c.Request.Context(), fallback, "error", err, "route", c.FullPath())
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func idParam(c *gin.Context, name string) (int64, bool) {
	v, err := id.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+strings.ReplaceAll(name, "_", " "))
		return 0, false
	}
	return v, true
}

// currentUser is set by middleware.RequireAuth; nil on public routes without a session.
func currentUser(c *gin.Context) *model.User {
	return middleware.GetUser(c.Request.Context())
}

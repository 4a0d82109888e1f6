package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"zillowlike.app/api/common/logger"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/service"
)

type contextKey string

const (
	SessionCookieName = "zl_session"
	SessionIDHeader   = "X-Session-ID"
	AdminAPIKeyHeader = "X-Admin-API-Key"

	userContextKey contextKey = "user"
)

// SessionValidator is the part of the auth service the middleware needs.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*model.User, error)
}

func RequireAuth(auth SessionValidator, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := SessionToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		user, err := auth.ValidateSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) || errors.Is(err, service.ErrUserNotFound) {
				ClearSessionCookie(c, secureCookie)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate session"})
			return
		}

		attach(c, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid session exists, but never aborts.
// Used by public routes that behave differently for signed-in callers.
func OptionalAuth(auth SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := SessionToken(c)
		if err != nil {
			c.Next()
			return
		}
		user, err := auth.ValidateSession(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}
		attach(c, user)
		c.Next()
	}
}

// RequireRole must run after RequireAuth. Admins always pass.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c.Request.Context())
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		if !user.IsAdmin() && !slices.Contains(roles, user.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func RequireAdminAPIKey(adminAPIKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminAPIKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin API not configured"})
			return
		}

		apiKey := c.GetHeader(AdminAPIKeyHeader)
		if apiKey == "" {
			apiKey = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(adminAPIKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing API key"})
			return
		}
		c.Next()
	}
}

func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// SessionToken reads the opaque session token from the cookie, falling back
// to the X-Session-ID header.
func SessionToken(c *gin.Context) (string, error) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		token = strings.TrimSpace(c.GetHeader(SessionIDHeader))
	}
	if token == "" {
		return "", http.ErrNoCookie
	}
	return token, nil
}

func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}

func attach(c *gin.Context, user *model.User) {
	ctx := context.WithValue(c.Request.Context(), userContextKey, user)
	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &user.ID})
	c.Request = c.Request.WithContext(ctx)
}

package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foliolab/folio-api/internal/domain/user"
	"github.com/foliolab/folio-api/pkg/apperror"
	"github.com/foliolab/folio-api/pkg/auth"
	"github.com/foliolab/folio-api/pkg/logger"
)

const (
	GinContextKeyUser = "currentUser"
)

// AuthMiddleware requires a valid bearer token and loads the full user record
// so downstream handlers see the current ownership set, not stale claims.
func AuthMiddleware(jwtSvc *auth.JWTService, users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		u, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil || u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeyUser, u)
		c.Next()
	}
}

// OptionalAuthMiddleware loads the user when a token is present, but lets
// anonymous requests through. A token that is present but invalid still
// fails; silently downgrading to guest would hide expired sessions.
func OptionalAuthMiddleware(jwtSvc *auth.JWTService, users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		u, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil || u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeyUser, u)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for a guest request.
func CurrentUser(c *gin.Context) *user.User {
	v, ok := c.Get(GinContextKeyUser)
	if !ok {
		return nil
	}
	u, ok := v.(*user.User)
	if !ok {
		return nil
	}
	return u
}

// ErrorMiddleware translates errors collected via c.Error into the HTTP
// taxonomy. Anything that is not an AppError reads as internal.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.NewInternal("unexpected error", err)
		}

		status := apperror.ToHTTPStatus(appErr)
		if status >= http.StatusInternalServerError {
			log.Error("request failed", appErr)
		}
		c.JSON(status, appErr.ToJSON())
	}
}

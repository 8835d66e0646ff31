package controllers

import (
	"strings"

	"videoportalapi/models"
	"videoportalapi/pkg/apperr"
	"videoportalapi/utils"

	"github.com/gin-gonic/gin"
)

const (
	ctxIdentity = "identity"
	ctxToken    = "session_token"
)

const signInRequired = "Sign in required"

// bearerToken returns the token of an "Authorization: Bearer <token>" header, or "".
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// RequireSession loads the identity of the request's session token.
// Requests without a live session are answered with 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.ErrorResponse(c, apperr.Unauthenticated(signInRequired))
			return
		}
		id, ok, err := sessionRegistry.Holder(token).Current(c.Request.Context())
		if err != nil {
			utils.ErrorResponse(c, err)
			return
		}
		if !ok {
			utils.ErrorResponse(c, apperr.Unauthenticated(signInRequired))
			return
		}
		c.Set(ctxIdentity, id)
		c.Set(ctxToken, token)
		c.Next()
	}
}

// RequirePermission lets the request through only when the session's role passes allowed.
// Must run after RequireSession.
func RequirePermission(allowed func(models.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c)
		if !ok {
			utils.ErrorResponse(c, apperr.Unauthenticated(signInRequired))
			return
		}
		if !allowed(id.Role) {
			utils.ErrorResponse(c, apperr.Forbidden("Not allowed"))
			return
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

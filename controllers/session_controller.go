package controllers

import (
	"net/http"

	"videoportalapi/models"
	"videoportalapi/pkg/logger"
	"videoportalapi/services/access"
	"videoportalapi/services/session"
	"videoportalapi/utils"

	"github.com/gin-gonic/gin"
)

var (
	accessResolver  access.Resolver
	sessionRegistry *session.Registry
	loginLimiter    *utils.LoginRateLimiter
)

// SetSessionServices initializes the resolver and the session registry.
func SetSessionServices(resolver access.Resolver, registry *session.Registry) {
	accessResolver = resolver
	sessionRegistry = registry
}

// SetLoginRateLimiter enables login throttling. nil disables it.
func SetLoginRateLimiter(l *utils.LoginRateLimiter) {
	loginLimiter = l
}

// login resolves an access code and opens a session
// @Summary Sign in with an access code
// @Description Resolves the code against elevated access codes, then clients, then group codes. Every failure answers with the same message.
// @Tags Session
// @Accept json
// @Produce json
// @Param login body models.LoginRequest true "Access code"
// @Success 201 {object} SessionResponse "Session opened"
// @Failure 400 {object} utils.ErrorBody "Missing code"
// @Failure 401 {object} utils.ErrorBody "Invalid access code"
// @Failure 429 {object} utils.ErrorBody "Too many attempts"
// @Failure 503 {object} utils.ErrorBody "Credential store unavailable, retry"
// @Router /api/session [post]
func login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, utils.BadRequest(err))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	id, err := accessResolver.Resolve(c.Request.Context(), req.Code)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	token, err := sessionRegistry.Open(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, SessionResponse{
		Token:   token,
		Role:    id.Role,
		GroupID: id.GroupID,
	})
}

// currentSession returns the identity of the caller's session
// @Summary Current session
// @Tags Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse "Current identity (token omitted)"
// @Failure 401 {object} utils.ErrorBody "No live session"
// @Router /api/session [get]
func currentSession(c *gin.Context) {
	id, _ := currentIdentity(c)
	utils.JSONResponse(c, http.StatusOK, SessionResponse{Role: id.Role, GroupID: id.GroupID})
}

// logout clears the caller's session
// @Summary Sign out
// @Description Idempotent: answers 200 whether or not a session was live.
// @Tags Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse "Signed out"
// @Failure 503 {object} utils.ErrorBody "Session store unavailable, retry"
// @Router /api/session [delete]
func logout(c *gin.Context) {
	if token := bearerToken(c); token != "" {
		if err := sessionRegistry.Close(c.Request.Context(), token); err != nil {
			utils.ErrorResponse(c, err)
			return
		}
	}
	logger.Debugf("Sign-out from %s", c.ClientIP())
	utils.JSONResponse(c, http.StatusOK, MessageResponse{Message: "Signed out"})
}

// RegisterSessionRoutes registers sign-in, current-session and sign-out routes.
func RegisterSessionRoutes(rg *gin.RouterGroup) {
	s := rg.Group("/session")
	{
		s.POST("", loginLimiter.Middleware(), login)
		s.GET("", RequireSession(), currentSession)
		s.DELETE("", logout)
	}
}

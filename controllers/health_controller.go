package controllers

import (
	"context"
	"net/http"
	"time"

	"videoportalapi/utils"

	"github.com/gin-gonic/gin"
)

var dbPing func(ctx context.Context) error

// SetHealthCheck sets the database probe used by /health.
func SetHealthCheck(ping func(ctx context.Context) error) {
	dbPing = ping
}

// health reports liveness and database reachability
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Healthy"
// @Failure 503 {object} HealthResponse "Database unreachable"
// @Router /health [get]
func health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Database: "ok"}
	if dbPing != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := dbPing(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			utils.JSONResponse(c, http.StatusServiceUnavailable, resp)
			return
		}
	}
	utils.JSONResponse(c, http.StatusOK, resp)
}

// RegisterHealthRoutes registers /health on the router root.
func RegisterHealthRoutes(r gin.IRoutes) {
	r.GET("/health", health)
}

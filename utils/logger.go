package utils

import (
	"net/http"
	"time"

	"videoportalapi/pkg/apperr"
	"videoportalapi/pkg/logger"

	"github.com/gin-gonic/gin"
)

// LoggerMiddleware logs every request, choosing the level by status class.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		status := c.Writer.Status()

		if status >= 500 {
			logger.Errorf("HTTP %s %s - Status: %d, Duration: %v, IP: %s",
				c.Request.Method, c.Request.URL.Path, status, elapsed, c.ClientIP())
		} else if status >= 400 {
			logger.Warnf("HTTP %s %s - Status: %d, Duration: %v, IP: %s",
				c.Request.Method, c.Request.URL.Path, status, elapsed, c.ClientIP())
		} else {
			logger.Infof("HTTP %s %s - Status: %d, Duration: %v, IP: %s",
				c.Request.Method, c.Request.URL.Path, status, elapsed, c.ClientIP())
		}
	}
}

// JSONResponse sends a JSON response with the specified HTTP status code.
func JSONResponse(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string `json:"error" example:"Invalid access code"`
	Retryable bool   `json:"retryable" example:"false"`
}

// ErrorResponse logs err and answers with its status code and user-safe message.
// Internal causes are never sent to the client.
func ErrorResponse(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("API Error: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		logger.Warnf("API Error: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, ErrorBody{
		Error:     apperr.UserMessage(err),
		Retryable: apperr.Retryable(err),
	})
}

// BadRequest wraps a request decoding error as a validation error.
func BadRequest(err error) error {
	return apperr.Wrap(apperr.ErrValidation, "Invalid request body", err)
}

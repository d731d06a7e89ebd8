package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// ErrorHandler turns the last error a handler attached with c.Error into a JSON response and
// converts panics into 500s.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", "path", c.Request.URL.Path, "panic", r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := StatusFor(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		}
		c.AbortWithStatusJSON(status, body)
	}
}

// StatusFor maps service errors onto HTTP. Anything unrecognised is a 500 with a generic message.
func StatusFor(err error) (int, ErrorResponse) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrorResponse{Error: validation.Error(), Field: validation.Field}
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error()}
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: err.Error()}
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, ErrorResponse{Error: "invalid token"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
	}
}

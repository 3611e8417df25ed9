package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"screentime-go/internal/dashboard"
	"screentime-go/internal/model"
)

// StatusFor maps an error to the HTTP status of the response.
func StatusFor(err error) int {
	var verr *model.ValidationError
	var dae *dashboard.DataAccessError
	switch {
	case errors.Is(err, dashboard.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &dae):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes the error response. Server-side failures are logged and
// their details withheld from the client.
func (s *Server) writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	body := gin.H{"error": err.Error()}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		body = gin.H{"error": "validation failed", "field": verr.Field, "reason": verr.Reason}
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "status", status, "error", err)
		body = gin.H{"error": http.StatusText(status)}
	}
	c.JSON(status, body)
}

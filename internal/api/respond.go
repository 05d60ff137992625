package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/report"
)

// writeError maps a domain error onto an HTTP status and JSON body. Internal
// errors are logged and masked with a generic message.
func (s *Server) writeError(c *gin.Context, err error) {
	switch report.KindOf(err) {
	case report.KindUnauthenticated:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case report.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case report.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case report.KindInvalidInput, report.KindInvalidTransition:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("internal error",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Serverfehler"})
	}
}

package httpapi

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"employeeManagement/internal/apperr"
	"employeeManagement/internal/db"
)

// fail writes {"error": msg} with the status for err and aborts the chain. Server
// side failures are logged with their cause; the client only sees the message.
func (h *handler) fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("route", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apperr.Message(err)})
}

// storeErr classifies a repository error. notFound is returned for sql.ErrNoRows.
func storeErr(err error, notFound string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound(notFound)
	case db.IsForeignKeyViolation(err):
		return apperr.Validation("Referenced record does not exist")
	case db.IsUniqueViolation(err):
		return apperr.Conflict("Record already exists")
	default:
		return apperr.Store("Database error", err)
	}
}

var errBadBody = apperr.Validation("Invalid request body")

package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"servicofacil/internal/domain"
)

// writeError maps domain errors to status codes. Unexpected errors are
// logged and reported without detail.
func (a *api) writeError(c *gin.Context, err error) {
	var (
		ve *domain.ValidationError
		ie *domain.IndexError
		pe *domain.PersistenceError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field})
	case errors.As(err, &ie):
		c.JSON(http.StatusBadRequest, gin.H{"error": ie.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &pe):
		a.logger.Printf("request_id=%s %s %s: %v", c.GetString(requestIDHeader), c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": pe.Error(), "indeterminate": pe.Indeterminate})
	default:
		a.logger.Printf("request_id=%s %s %s: %v", c.GetString(requestIDHeader), c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

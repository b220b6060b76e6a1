package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ratehub/internal/apperr"
)

// respondError is the single place service errors become HTTP responses.
// Validation failures render their field map; anything outside the taxonomy
// is a 500 with an opaque body.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperr.As(err); ok {
		if appErr.Kind == apperr.KindValidation && len(appErr.Fields) > 0 {
			c.JSON(appErr.Status(), appErr.Fields)
			return
		}
		c.JSON(appErr.Status(), gin.H{"error": appErr.Message})
		return
	}

	slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// bindError renders gin binding failures in the same field-error shape the
// services use.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}

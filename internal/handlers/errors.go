package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/invenzia/disclosure-api/internal/models"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends the uniform {"ok":false,"error":...} envelope and
// attaches the error to the gin context for the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, models.SubmitResponse{OK: false, Error: message})
}

// respondOK sends the uniform success envelope.
func respondOK(c *gin.Context, status int) {
	c.JSON(status, models.SubmitResponse{OK: true})
}

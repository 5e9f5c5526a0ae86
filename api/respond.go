package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/trusttrip/backend/internal/domain"
)

// writeError maps service errors onto HTTP statuses. Validation and budget
// problems are client errors, missing resources are 404, everything else is
// an opaque 500.
func writeError(c *gin.Context, err error) {
	switch {
	case domain.IsValidationError(err), errors.Is(err, domain.ErrOverBudget):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoMatchingOffer):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	default:
		logrus.Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
	}
}

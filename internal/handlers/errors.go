package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wanderlite/booking-backend/internal/models"
)

// respondError maps service errors onto HTTP responses. Typed domain
// errors carry their own status and code; anything else is a 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	switch e := err.(type) {
	case *models.ValidationError:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": e.Error(),
			"fields":  e.Fields,
		})
	case *models.SeatConflictError:
		c.JSON(http.StatusConflict, gin.H{
			"error":        "seat_conflict",
			"message":      e.Error(),
			"seat_numbers": e.SeatNumbers,
		})
	case *models.LockExpiredError:
		c.JSON(http.StatusConflict, gin.H{
			"error":        "lock_expired",
			"message":      e.Error(),
			"seat_numbers": e.SeatNumbers,
		})
	case *models.NotFoundError:
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": e.Error(),
		})
	case *models.ForbiddenError:
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": e.Error(),
		})
	default:
		logger.WithError(err).Error("Unhandled service error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "something went wrong",
		})
	}
}

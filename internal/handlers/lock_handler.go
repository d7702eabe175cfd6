package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wanderlite/booking-backend/internal/middleware"
	"github.com/wanderlite/booking-backend/internal/models"
	"github.com/wanderlite/booking-backend/internal/services"
)

// LockHandler handles seat lock endpoints
type LockHandler struct {
	lockService *services.SeatLockService
	logger      *logrus.Logger
}

// NewLockHandler creates a new LockHandler
func NewLockHandler(lockService *services.SeatLockService, logger *logrus.Logger) *LockHandler {
	return &LockHandler{
		lockService: lockService,
		logger:      logger,
	}
}

// LockSeats acquires TTL-bound holds on a batch of seats
// POST /api/v1/seats/lock
func (h *LockHandler) LockSeats(c *gin.Context) {
	holder, exists := middleware.GetHolderContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.LockSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "invalid request: " + err.Error(),
		})
		return
	}

	response, err := h.lockService.LockSeats(holder.HolderID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ReleaseLocks releases held locks back to the available pool
// POST /api/v1/seats/release
func (h *LockHandler) ReleaseLocks(c *gin.Context) {
	holder, exists := middleware.GetHolderContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.ReleaseLocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "invalid request: " + err.Error(),
		})
		return
	}

	response, err := h.lockService.ReleaseLocks(holder.HolderID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wanderlite/booking-backend/internal/middleware"
	"github.com/wanderlite/booking-backend/internal/models"
	"github.com/wanderlite/booking-backend/internal/services"
	"github.com/wanderlite/booking-backend/internal/utils"
)

// BookingHandler handles booking confirmation, lookup, and cancellation
type BookingHandler struct {
	bookingService      *services.BookingService
	cancellationService *services.CancellationService
	logger              *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	bookingService *services.BookingService,
	cancellationService *services.CancellationService,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookingService:      bookingService,
		cancellationService: cancellationService,
		logger:              logger,
	}
}

// ConfirmBooking converts held seat locks into a confirmed booking
// POST /api/v1/bookings
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	holder, exists := middleware.GetHolderContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "invalid request: " + err.Error(),
		})
		return
	}

	device := utils.ParseUserAgent(c.GetHeader("User-Agent"))

	booking, err := h.bookingService.ConfirmBooking(holder.HolderID, &req, &device)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBooking retrieves a booking by PNR or booking ID
// GET /api/v1/bookings/:ref
func (h *BookingHandler) GetBooking(c *gin.Context) {
	holder, exists := middleware.GetHolderContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	booking, err := h.bookingService.GetBooking(holder.HolderID, c.Param("ref"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CancelBooking cancels a booking and computes the tiered refund
// POST /api/v1/bookings/:ref/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	holder, exists := middleware.GetHolderContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	response, err := h.cancellationService.Cancel(holder.HolderID, c.Param("ref"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wanderlite/booking-backend/internal/models"
	"github.com/wanderlite/booking-backend/internal/services"
)

// SeatHandler handles seat map endpoints
type SeatHandler struct {
	seatMapService *services.SeatMapService
	logger         *logrus.Logger
}

// NewSeatHandler creates a new SeatHandler
func NewSeatHandler(seatMapService *services.SeatMapService, logger *logrus.Logger) *SeatHandler {
	return &SeatHandler{
		seatMapService: seatMapService,
		logger:         logger,
	}
}

// GetSeatMap returns the seat map for a schedule and journey date
// GET /api/v1/schedules/:schedule_id/seat-map?date=YYYY-MM-DD
func (h *SeatHandler) GetSeatMap(c *gin.Context) {
	scheduleID := c.Param("schedule_id")

	journeyDate := c.Query("date")
	if journeyDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "date query parameter is required",
		})
		return
	}

	seatMap, err := h.seatMapService.GetSeatMap(scheduleID, journeyDate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, seatMap)
}

// MaterializeSeatMap instantiates journey seats for a schedule and date
// POST /api/v1/schedules/:schedule_id/seat-map
func (h *SeatHandler) MaterializeSeatMap(c *gin.Context) {
	scheduleID := c.Param("schedule_id")

	var req models.MaterializeSeatMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "invalid request: " + err.Error(),
		})
		return
	}

	summary, err := h.seatMapService.MaterializeSeatMap(scheduleID, req.JourneyDate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}

package services

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wanderlite/booking-backend/internal/database"
	"github.com/wanderlite/booking-backend/internal/models"
)

// Refund percentages by time remaining before departure. The boundary
// belongs to the lower tier: exactly 24h before departure refunds 50%.
const (
	refundTierFull = 90 // more than 24h out
	refundTierHalf = 50 // more than 12h, up to 24h
	refundTierLow  = 25 // more than 6h, up to 12h
	refundTierNone = 0  // 6h or less

	hoursTierFull = 24
	hoursTierHalf = 12
	hoursTierLow  = 6
)

// CancellationService cancels bookings and computes tiered refunds
// from time remaining to departure
type CancellationService struct {
	bookingRepo  *database.BookingRepository
	scheduleRepo *database.ScheduleRepository
	logger       *logrus.Logger
}

// NewCancellationService creates a new cancellation service
func NewCancellationService(
	bookingRepo *database.BookingRepository,
	scheduleRepo *database.ScheduleRepository,
	logger *logrus.Logger,
) *CancellationService {
	return &CancellationService{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// RefundPercent returns the refund percentage for a cancellation at
// the given instant relative to departure
func RefundPercent(departure, at time.Time) int {
	hours := departure.Sub(at).Hours()
	switch {
	case hours > hoursTierFull:
		return refundTierFull
	case hours > hoursTierHalf:
		return refundTierHalf
	case hours > hoursTierLow:
		return refundTierLow
	default:
		return refundTierNone
	}
}

// Cancel cancels a booking by PNR or ID. The refund is computed from
// the schedule's departure time on the booking's journey date, the
// seats return to the available pool, and the operation is idempotent:
// cancelling an already cancelled booking returns the recorded refund.
func (s *CancellationService) Cancel(holderID, ref string) (*models.CancelBookingResponse, error) {
	booking, err := s.lookupBooking(ref)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, &models.NotFoundError{Resource: "booking"}
	}
	if booking.UserID != holderID {
		return nil, &models.ForbiddenError{Message: "booking belongs to another user"}
	}

	if booking.IsCancelled() {
		recorded := 0.0
		if booking.RefundAmount != nil {
			recorded = *booking.RefundAmount
		}
		return &models.CancelBookingResponse{
			BookingID:     booking.ID,
			PNR:           booking.PNR,
			Status:        booking.Status,
			RefundAmount:  recorded,
			RefundPercent: percentOf(recorded, booking.TotalAmount),
		}, nil
	}

	schedule, err := s.scheduleRepo.GetByID(booking.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if schedule == nil {
		return nil, &models.NotFoundError{Resource: "schedule"}
	}

	departure, err := schedule.DepartureAt(booking.JourneyDate)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve departure time: %w", err)
	}

	percent := RefundPercent(departure, time.Now())
	refund := math.Round(booking.TotalAmount*float64(percent)) / 100

	if err := s.bookingRepo.CancelBooking(booking.ID, refund); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"pnr":            booking.PNR,
		"user_id":        holderID,
		"refund_amount":  refund,
		"refund_percent": percent,
	}).Info("Booking cancelled")

	return &models.CancelBookingResponse{
		BookingID:     booking.ID,
		PNR:           booking.PNR,
		Status:        models.BookingStatusCancelled,
		RefundAmount:  refund,
		RefundPercent: percent,
	}, nil
}

func (s *CancellationService) lookupBooking(ref string) (*models.Booking, error) {
	if len(ref) > 3 && ref[:3] == "WL-" {
		return s.bookingRepo.GetByPNR(ref)
	}
	return s.bookingRepo.GetByID(ref)
}

// percentOf recovers the refund percentage from a recorded amount for
// the idempotent repeat-cancel response
func percentOf(refund, total float64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(refund / total * 100))
}

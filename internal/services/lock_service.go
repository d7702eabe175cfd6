package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wanderlite/booking-backend/internal/config"
	"github.com/wanderlite/booking-backend/internal/database"
	"github.com/wanderlite/booking-backend/internal/models"
)

// SeatLockService manages TTL-bound exclusive seat holds during
// checkout. All-or-nothing: a batch either locks completely or fails
// with the conflicting seats reported.
type SeatLockService struct {
	lockRepo     *database.SeatLockRepository
	seatRepo     *database.SeatRepository
	scheduleRepo *database.ScheduleRepository
	config       config.BookingConfig
	logger       *logrus.Logger
}

// NewSeatLockService creates a new seat lock service
func NewSeatLockService(
	lockRepo *database.SeatLockRepository,
	seatRepo *database.SeatRepository,
	scheduleRepo *database.ScheduleRepository,
	cfg config.BookingConfig,
	logger *logrus.Logger,
) *SeatLockService {
	return &SeatLockService{
		lockRepo:     lockRepo,
		seatRepo:     seatRepo,
		scheduleRepo: scheduleRepo,
		config:       cfg,
		logger:       logger,
	}
}

// LockSeats acquires exclusive holds on the requested seats for the
// holder. Seats locked by an expired hold count as available and can
// be taken over in the same statement.
func (s *SeatLockService) LockSeats(holderID string, req *models.LockSeatsRequest) (*models.LockSeatsResponse, error) {
	if err := validateJourneyDate(req.JourneyDate); err != nil {
		return nil, err
	}

	if len(req.SeatNumbers) > s.config.MaxSeatsPerLock {
		return nil, &models.ValidationError{Fields: map[string]string{
			"seat_numbers": fmt.Sprintf("maximum %d seats per lock request", s.config.MaxSeatsPerLock),
		}}
	}

	seen := make(map[string]bool, len(req.SeatNumbers))
	for _, n := range req.SeatNumbers {
		if seen[n] {
			return nil, &models.ValidationError{Fields: map[string]string{
				"seat_numbers": "duplicate seat number " + n,
			}}
		}
		seen[n] = true
	}

	schedule, err := s.scheduleRepo.GetByID(req.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if schedule == nil {
		return nil, &models.NotFoundError{Resource: "schedule"}
	}

	seats, err := s.seatRepo.GetByNumbers(req.ScheduleID, req.JourneyDate, req.SeatNumbers)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}
	if missing := missingSeatNumbers(req.SeatNumbers, seats); len(missing) > 0 {
		return nil, &models.NotFoundError{Resource: "seat " + missing[0]}
	}

	expiresAt := time.Now().Add(s.config.LockTTL)
	locks, err := s.lockRepo.LockSeats(req.ScheduleID, req.JourneyDate, req.SeatNumbers, holderID, expiresAt)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"holder_id":    holderID,
		"schedule_id":  req.ScheduleID,
		"journey_date": req.JourneyDate,
		"seats":        len(locks),
		"expires_at":   expiresAt,
	}).Info("Seats locked")

	return &models.LockSeatsResponse{
		Locks:      locks,
		ExpiresAt:  expiresAt,
		TTLSeconds: int(s.config.LockTTL.Seconds()),
	}, nil
}

// ReleaseLocks releases the holder's locks and returns the seats to
// the available pool. Unknown, expired, or foreign lock IDs are
// skipped; releasing is idempotent.
func (s *SeatLockService) ReleaseLocks(holderID string, req *models.ReleaseLocksRequest) (*models.ReleaseLocksResponse, error) {
	released, err := s.lockRepo.ReleaseLocks(req.LockIDs, holderID)
	if err != nil {
		return nil, fmt.Errorf("failed to release locks: %w", err)
	}

	if released > 0 {
		s.logger.WithFields(logrus.Fields{
			"holder_id": holderID,
			"released":  released,
		}).Info("Seat locks released")
	}

	return &models.ReleaseLocksResponse{Released: released}, nil
}

// missingSeatNumbers returns the requested numbers with no matching seat row
func missingSeatNumbers(requested []string, seats []models.JourneySeat) []string {
	found := make(map[string]bool, len(seats))
	for _, seat := range seats {
		found[seat.SeatNumber] = true
	}
	var missing []string
	for _, n := range requested {
		if !found[n] {
			missing = append(missing, n)
		}
	}
	return missing
}

package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wanderlite/booking-backend/internal/database"
	"github.com/wanderlite/booking-backend/internal/models"
)

// SeatMapService serves seat maps and materializes journey seats from
// schedule layout templates
type SeatMapService struct {
	seatRepo     *database.SeatRepository
	scheduleRepo *database.ScheduleRepository
	logger       *logrus.Logger
}

// NewSeatMapService creates a new seat map service
func NewSeatMapService(
	seatRepo *database.SeatRepository,
	scheduleRepo *database.ScheduleRepository,
	logger *logrus.Logger,
) *SeatMapService {
	return &SeatMapService{
		seatRepo:     seatRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// GetSeatMap returns the full seat map of a schedule for one journey
// date. Seats whose lock has lapsed are reported available even before
// the background sweep reclaims them.
func (s *SeatMapService) GetSeatMap(scheduleID, journeyDate string) (*models.SeatMapResponse, error) {
	if err := validateJourneyDate(journeyDate); err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetByID(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if schedule == nil {
		return nil, &models.NotFoundError{Resource: "schedule"}
	}

	seats, err := s.seatRepo.GetSeatMap(scheduleID, journeyDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat map: %w", err)
	}
	if len(seats) == 0 {
		return nil, &models.NotFoundError{Resource: "seat map"}
	}

	resp := &models.SeatMapResponse{
		ScheduleID:  scheduleID,
		JourneyDate: journeyDate,
		Seats:       seats,
		TotalSeats:  len(seats),
	}
	for _, seat := range seats {
		switch seat.Status {
		case models.SeatStatusAvailable:
			resp.Available++
		case models.SeatStatusLocked:
			resp.Locked++
		case models.SeatStatusBooked:
			resp.Booked++
		}
	}

	return resp, nil
}

// MaterializeSeatMap instantiates journey seats for a schedule and
// date from the schedule's layout template. Idempotent: seats that
// already exist are left untouched and counted as zero created.
func (s *SeatMapService) MaterializeSeatMap(scheduleID, journeyDate string) (*models.SeatMapSummary, error) {
	if err := validateJourneyDate(journeyDate); err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetByID(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if schedule == nil {
		return nil, &models.NotFoundError{Resource: "schedule"}
	}
	if !schedule.IsActive {
		return nil, &models.ValidationError{Fields: map[string]string{
			"schedule_id": "schedule is not open for sale",
		}}
	}

	created, err := s.seatRepo.MaterializeSeatMap(schedule, journeyDate)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize seat map: %w", err)
	}

	if created > 0 {
		s.logger.WithFields(logrus.Fields{
			"schedule_id":  scheduleID,
			"journey_date": journeyDate,
			"seats":        created,
		}).Info("Materialized journey seats")
	}

	return s.seatRepo.GetSummary(scheduleID, journeyDate)
}

// MaterializeUpcoming materializes seat maps for every active schedule
// over the next `days` journey dates. Run daily by the cron service so
// seat maps exist before the first traveler asks for them.
func (s *SeatMapService) MaterializeUpcoming(days int) (int, error) {
	schedules, err := s.scheduleRepo.GetActive()
	if err != nil {
		return 0, fmt.Errorf("failed to load active schedules: %w", err)
	}

	total := 0
	today := time.Now()
	for _, schedule := range schedules {
		for d := 0; d < days; d++ {
			journeyDate := today.AddDate(0, 0, d).Format("2006-01-02")
			created, err := s.seatRepo.MaterializeSeatMap(&schedule, journeyDate)
			if err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"schedule_id":  schedule.ID,
					"journey_date": journeyDate,
				}).Error("Failed to materialize seat map")
				continue
			}
			total += created
		}
	}

	return total, nil
}

// validateJourneyDate rejects dates that are not in YYYY-MM-DD form
func validateJourneyDate(journeyDate string) error {
	if _, err := time.Parse("2006-01-02", journeyDate); err != nil {
		return &models.ValidationError{Fields: map[string]string{
			"journey_date": "journey date must be in YYYY-MM-DD format",
		}}
	}
	return nil
}

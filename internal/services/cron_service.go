package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// How far ahead seat maps are materialized for active schedules
const materializeWindowDays = 30

// CronService manages scheduled background jobs
type CronService struct {
	cron       *cron.Cron
	seatMapSvc *SeatMapService
	logger     *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(seatMapSvc *SeatMapService, logger *logrus.Logger) *CronService {
	// Cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronService{
		cron:       c,
		seatMapSvc: seatMapSvc,
		logger:     logger,
	}
}

// Start starts all cron jobs
func (s *CronService) Start() error {
	s.logger.Info("Starting cron service")

	// Materialize upcoming seat maps daily at 2 AM so journey seats
	// exist before travelers start locking them
	// Cron format: second minute hour day month weekday
	_, err := s.cron.AddFunc("0 0 2 * * *", s.materializeSeatMapsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule seat map materialization job: %w", err)
	}
	s.logger.Info("Scheduled: materialize upcoming seat maps (daily at 2:00 AM)")

	s.cron.Start()
	s.logger.Info("Cron service started")

	return nil
}

// Stop stops all cron jobs
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// materializeSeatMapsJob instantiates journey seats for every active
// schedule over the coming window
func (s *CronService) materializeSeatMapsJob() {
	startTime := time.Now()

	created, err := s.seatMapSvc.MaterializeUpcoming(materializeWindowDays)
	if err != nil {
		s.logger.WithError(err).Error("Seat map materialization job failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"seats_created": created,
		"duration":      time.Since(startTime).String(),
	}).Info("Seat map materialization job finished")
}

// RunMaterializeSeatMapsNow runs the materialization job immediately (for testing)
func (s *CronService) RunMaterializeSeatMapsNow() {
	s.materializeSeatMapsJob()
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}

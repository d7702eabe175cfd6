package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wanderlite/booking-backend/internal/database"
)

// LockExpirationService handles background reclamation of expired seat
// locks. Correctness does not depend on it: every read and write path
// treats an expired lock as available. The sweep keeps the tables tidy
// and the seat map counters honest.
type LockExpirationService struct {
	lockRepo *database.SeatLockRepository
	logger   *logrus.Logger
	stopCh   chan struct{}
	interval time.Duration
}

// NewLockExpirationService creates a new lock expiration service
func NewLockExpirationService(
	lockRepo *database.SeatLockRepository,
	interval time.Duration,
	logger *logrus.Logger,
) *LockExpirationService {
	return &LockExpirationService{
		lockRepo: lockRepo,
		logger:   logger,
		stopCh:   make(chan struct{}),
		interval: interval,
	}
}

// Start begins the background sweep
func (s *LockExpirationService) Start() {
	s.logger.WithField("interval", s.interval.String()).Info("Starting seat lock expiration sweep")
	go s.run()
}

// Stop stops the background sweep
func (s *LockExpirationService) Stop() {
	s.logger.Info("Stopping seat lock expiration sweep")
	close(s.stopCh)
}

func (s *LockExpirationService) run() {
	// Run immediately on start
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			s.logger.Info("Seat lock expiration sweep stopped")
			return
		}
	}
}

// sweep releases expired locks and cleans up any orphan holds
func (s *LockExpirationService) sweep() {
	released, err := s.lockRepo.ReleaseExpiredLocks()
	if err != nil {
		s.logger.WithError(err).Error("Failed to release expired seat locks")
	} else if released > 0 {
		s.logger.WithField("count", released).Info("Released expired seat locks")
	}

	orphans, err := s.lockRepo.ReleaseOrphanLocks()
	if err != nil {
		s.logger.WithError(err).Error("Failed to release orphan seat locks")
	} else if orphans > 0 {
		s.logger.WithField("count", orphans).Warn("Released orphan seat locks")
	}
}

// RunOnce runs a single sweep cycle (useful for testing or manual trigger)
func (s *LockExpirationService) RunOnce() {
	s.sweep()
}

package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/wanderlite/booking-backend/internal/models"
)

// SeatLockRepository handles seat lock database operations. All
// check-and-set logic lives here as conditional UPDATEs so multiple
// server instances stay correct without application-level mutexes.
type SeatLockRepository struct {
	db *sqlx.DB
}

// NewSeatLockRepository creates a new SeatLockRepository
func NewSeatLockRepository(db *sqlx.DB) *SeatLockRepository {
	return &SeatLockRepository{db: db}
}

// lockedSeat is the projection returned by the lock CAS
type lockedSeat struct {
	ID         string `db:"id"`
	SeatNumber string `db:"seat_number"`
}

// LockSeats atomically transitions the requested seats to locked for
// holderID, all-or-nothing. A seat counts as lockable when it is
// available or carries an expired lock. If any seat fails the
// check-and-set the transaction rolls back, so no partial holds leak,
// and the unavailable seat numbers are reported.
func (r *SeatLockRepository) LockSeats(
	scheduleID, journeyDate string,
	seatNumbers []string,
	holderID string,
	expiresAt time.Time,
) ([]models.SeatLock, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sqlx.In(`
		UPDATE journey_seats
		SET status = 'locked', locked_by = ?, locked_until = ?, updated_at = NOW()
		WHERE schedule_id = ? AND journey_date = ? AND seat_number IN (?)
		  AND (status = 'available' OR (status = 'locked' AND locked_until < NOW()))
		RETURNING id, seat_number`,
		holderID, expiresAt, scheduleID, journeyDate, seatNumbers)
	if err != nil {
		return nil, fmt.Errorf("failed to build lock query: %w", err)
	}
	query = tx.Rebind(query)

	var locked []lockedSeat
	if err := tx.Select(&locked, query, args...); err != nil {
		return nil, fmt.Errorf("failed to lock seats: %w", err)
	}

	if len(locked) < len(seatNumbers) {
		// Conflict: the deferred rollback releases the seats this call
		// did manage to lock.
		lockedSet := make(map[string]bool, len(locked))
		for _, s := range locked {
			lockedSet[s.SeatNumber] = true
		}
		unavailable := make([]string, 0, len(seatNumbers)-len(locked))
		for _, n := range seatNumbers {
			if !lockedSet[n] {
				unavailable = append(unavailable, n)
			}
		}
		return nil, &models.SeatConflictError{SeatNumbers: unavailable}
	}

	// Replace any stale lock rows on these seats before inserting new ones
	seatIDs := make([]string, len(locked))
	for i, s := range locked {
		seatIDs[i] = s.ID
	}
	delQuery, delArgs, err := sqlx.In(`DELETE FROM seat_locks WHERE seat_id IN (?)`, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build stale lock cleanup: %w", err)
	}
	if _, err := tx.Exec(tx.Rebind(delQuery), delArgs...); err != nil {
		return nil, fmt.Errorf("failed to clean up stale locks: %w", err)
	}

	now := time.Now()
	locks := make([]models.SeatLock, len(locked))
	for i, s := range locked {
		lock := models.SeatLock{
			ID:          uuid.New().String(),
			SeatID:      s.ID,
			ScheduleID:  scheduleID,
			JourneyDate: journeyDate,
			SeatNumber:  s.SeatNumber,
			HolderID:    holderID,
			AcquiredAt:  now,
			ExpiresAt:   expiresAt,
		}

		_, err := tx.Exec(`
			INSERT INTO seat_locks (id, seat_id, schedule_id, journey_date, seat_number, holder_id, acquired_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			lock.ID, lock.SeatID, lock.ScheduleID, lock.JourneyDate,
			lock.SeatNumber, lock.HolderID, lock.AcquiredAt, lock.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create lock for seat %s: %w", s.SeatNumber, err)
		}
		locks[i] = lock
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return locks, nil
}

// ReleaseLocks idempotently frees the given locks if they are owned by
// holderID. Locks that are missing, expired, or already promoted to a
// booking are skipped silently. Returns the number of seats released.
func (r *SeatLockRepository) ReleaseLocks(lockIDs []string, holderID string) (int, error) {
	if len(lockIDs) == 0 {
		return 0, nil
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sqlx.In(`
		UPDATE journey_seats
		SET status = 'available', locked_by = NULL, locked_until = NULL, updated_at = NOW()
		WHERE status = 'locked' AND locked_by = ?
		  AND id IN (SELECT seat_id FROM seat_locks WHERE id IN (?) AND holder_id = ?)`,
		holderID, lockIDs, holderID)
	if err != nil {
		return 0, fmt.Errorf("failed to build release query: %w", err)
	}

	result, err := tx.Exec(tx.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to release seats: %w", err)
	}
	released, _ := result.RowsAffected()

	delQuery, delArgs, err := sqlx.In(`DELETE FROM seat_locks WHERE id IN (?) AND holder_id = ?`, lockIDs, holderID)
	if err != nil {
		return 0, fmt.Errorf("failed to build lock delete: %w", err)
	}
	if _, err := tx.Exec(tx.Rebind(delQuery), delArgs...); err != nil {
		return 0, fmt.Errorf("failed to delete locks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return int(released), nil
}

// GetActiveLocks returns the unexpired locks held on the given seats
func (r *SeatLockRepository) GetActiveLocks(scheduleID, journeyDate string, seatNumbers []string) ([]models.SeatLock, error) {
	if len(seatNumbers) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, seat_id, schedule_id, to_char(journey_date, 'YYYY-MM-DD') AS journey_date,
		       seat_number, holder_id, acquired_at, expires_at
		FROM seat_locks
		WHERE schedule_id = ? AND journey_date = ? AND seat_number IN (?) AND expires_at > NOW()`,
		scheduleID, journeyDate, seatNumbers)
	if err != nil {
		return nil, fmt.Errorf("failed to build lock lookup: %w", err)
	}

	query = r.db.Rebind(query)
	var locks []models.SeatLock
	if err := r.db.Select(&locks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get active locks: %w", err)
	}
	return locks, nil
}

// ReleaseExpiredLocks demotes every expired locked seat back to
// available and deletes the stale lock rows. Called by the background
// sweep; the read paths apply the same wall-clock predicate lazily.
func (r *SeatLockRepository) ReleaseExpiredLocks() (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE journey_seats
		SET status = 'available', locked_by = NULL, locked_until = NULL, updated_at = NOW()
		WHERE status = 'locked' AND locked_until < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to release expired seats: %w", err)
	}
	released, _ := result.RowsAffected()

	if _, err := tx.Exec(`DELETE FROM seat_locks WHERE expires_at < NOW()`); err != nil {
		return 0, fmt.Errorf("failed to delete expired locks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return int(released), nil
}

// ReleaseOrphanLocks releases locked seats whose lock row no longer
// exists. Safety cleanup for the sweep.
func (r *SeatLockRepository) ReleaseOrphanLocks() (int, error) {
	result, err := r.db.Exec(`
		UPDATE journey_seats
		SET status = 'available', locked_by = NULL, locked_until = NULL, updated_at = NOW()
		WHERE status = 'locked'
		  AND id NOT IN (SELECT seat_id FROM seat_locks WHERE expires_at > NOW())`)
	if err != nil {
		return 0, fmt.Errorf("failed to release orphan locks: %w", err)
	}
	released, _ := result.RowsAffected()
	return int(released), nil
}

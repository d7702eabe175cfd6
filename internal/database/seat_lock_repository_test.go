package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderlite/booking-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestLockSeats(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewSeatLockRepository(sqlxDB)

	scheduleID := uuid.New().String()
	journeyDate := "2026-09-15"
	holderID := "session:abc123"
	expiresAt := time.Now().Add(10 * time.Minute)

	t.Run("Success", func(t *testing.T) {
		seatA := uuid.New().String()
		seatB := uuid.New().String()

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE journey_seats`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "seat_number"}).
				AddRow(seatA, "L1").
				AddRow(seatB, "L2"))
		mock.ExpectExec(`DELETE FROM seat_locks WHERE seat_id IN`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO seat_locks`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO seat_locks`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		locks, err := repo.LockSeats(scheduleID, journeyDate, []string{"L1", "L2"}, holderID, expiresAt)
		require.NoError(t, err)
		require.Len(t, locks, 2)
		assert.Equal(t, "L1", locks[0].SeatNumber)
		assert.Equal(t, seatA, locks[0].SeatID)
		assert.Equal(t, holderID, locks[0].HolderID)
		assert.Equal(t, expiresAt, locks[0].ExpiresAt)
		assert.NotEmpty(t, locks[0].ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Partial Conflict Rolls Back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE journey_seats`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "seat_number"}).
				AddRow(uuid.New().String(), "L1"))
		mock.ExpectRollback()

		locks, err := repo.LockSeats(scheduleID, journeyDate, []string{"L1", "L2"}, holderID, expiresAt)
		require.Error(t, err)
		assert.Nil(t, locks)

		conflictErr, ok := err.(*models.SeatConflictError)
		require.True(t, ok, "expected SeatConflictError, got %T", err)
		assert.Equal(t, []string{"L2"}, conflictErr.SeatNumbers)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("All Seats Taken", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE journey_seats`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "seat_number"}))
		mock.ExpectRollback()

		_, err := repo.LockSeats(scheduleID, journeyDate, []string{"L1", "L2"}, holderID, expiresAt)
		require.Error(t, err)

		conflictErr, ok := err.(*models.SeatConflictError)
		require.True(t, ok)
		assert.Equal(t, []string{"L1", "L2"}, conflictErr.SeatNumbers)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE journey_seats`).
			WillReturnError(fmt.Errorf("connection reset"))
		mock.ExpectRollback()

		_, err := repo.LockSeats(scheduleID, journeyDate, []string{"L1"}, holderID, expiresAt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to lock seats")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReleaseLocks(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewSeatLockRepository(sqlxDB)

	holderID := "session:abc123"

	t.Run("Success", func(t *testing.T) {
		lockIDs := []string{uuid.New().String(), uuid.New().String()}

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE journey_seats`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM seat_locks`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		released, err := repo.ReleaseLocks(lockIDs, holderID)
		require.NoError(t, err)
		assert.Equal(t, 2, released)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Locks Are Skipped", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE journey_seats`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM seat_locks`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		released, err := repo.ReleaseLocks([]string{uuid.New().String()}, holderID)
		require.NoError(t, err)
		assert.Equal(t, 0, released)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Lock List", func(t *testing.T) {
		released, err := repo.ReleaseLocks(nil, holderID)
		require.NoError(t, err)
		assert.Equal(t, 0, released)
	})
}

func TestReleaseExpiredLocks(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewSeatLockRepository(sqlxDB)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE journey_seats`).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`DELETE FROM seat_locks WHERE expires_at`).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		released, err := repo.ReleaseExpiredLocks()
		require.NoError(t, err)
		assert.Equal(t, 3, released)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nothing Expired", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE journey_seats`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM seat_locks WHERE expires_at`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		released, err := repo.ReleaseExpiredLocks()
		require.NoError(t, err)
		assert.Equal(t, 0, released)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReleaseOrphanLocks(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewSeatLockRepository(sqlxDB)

	mock.ExpectExec(`UPDATE journey_seats`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	released, err := repo.ReleaseOrphanLocks()
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	assert.NoError(t, mock.ExpectationsWereMet())
}

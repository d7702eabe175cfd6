package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderlite/booking-backend/internal/config"
	"github.com/wanderlite/booking-backend/internal/database"
	"github.com/wanderlite/booking-backend/internal/models"
)

func testBookingConfig() config.BookingConfig {
	return config.BookingConfig{
		LockTTL:         10 * time.Minute,
		MaxSeatsPerLock: 6,
	}
}

func seatRowsFor(scheduleID, journeyDate string, seatNumbers ...string) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "schedule_id", "journey_date", "seat_number", "deck",
		"row_number", "column_number", "seat_price", "is_female_only",
		"status", "locked_by", "locked_until", "created_at", "updated_at",
	})
	for i, n := range seatNumbers {
		rows.AddRow(uuid.New().String(), scheduleID, journeyDate, n, "lower",
			i+1, 1, 1200.0, false, "available", nil, nil, now, now)
	}
	return rows
}

func newLockService(t *testing.T) (*SeatLockService, sqlmock.Sqlmock) {
	sqlxDB, mock := newMockDB(t)
	svc := NewSeatLockService(
		database.NewSeatLockRepository(sqlxDB),
		database.NewSeatRepository(sqlxDB),
		database.NewScheduleRepository(sqlxDB),
		testBookingConfig(),
		testLogger(),
	)
	return svc, mock
}

func TestLockSeatsValidation(t *testing.T) {
	holderID := "session:abc123"

	t.Run("Too Many Seats", func(t *testing.T) {
		svc, _ := newLockService(t)

		req := &models.LockSeatsRequest{
			ScheduleID:  uuid.New().String(),
			JourneyDate: "2026-09-15",
			SeatNumbers: []string{"L1", "L2", "L3", "L4", "L5", "L6", "L7"},
		}

		_, err := svc.LockSeats(holderID, req)
		require.Error(t, err)
		verr, ok := err.(*models.ValidationError)
		require.True(t, ok, "expected ValidationError, got %T", err)
		assert.Contains(t, verr.Fields["seat_numbers"], "maximum 6")
	})

	t.Run("Duplicate Seat Numbers", func(t *testing.T) {
		svc, _ := newLockService(t)

		req := &models.LockSeatsRequest{
			ScheduleID:  uuid.New().String(),
			JourneyDate: "2026-09-15",
			SeatNumbers: []string{"L1", "L1"},
		}

		_, err := svc.LockSeats(holderID, req)
		require.Error(t, err)
		verr, ok := err.(*models.ValidationError)
		require.True(t, ok)
		assert.Contains(t, verr.Fields["seat_numbers"], "duplicate")
	})

	t.Run("Malformed Journey Date", func(t *testing.T) {
		svc, _ := newLockService(t)

		req := &models.LockSeatsRequest{
			ScheduleID:  uuid.New().String(),
			JourneyDate: "15-09-2026",
			SeatNumbers: []string{"L1"},
		}

		_, err := svc.LockSeats(holderID, req)
		require.Error(t, err)
		_, ok := err.(*models.ValidationError)
		assert.True(t, ok)
	})
}

func TestLockSeatsFlow(t *testing.T) {
	holderID := "session:abc123"

	t.Run("Success", func(t *testing.T) {
		svc, mock := newLockService(t)

		scheduleID := uuid.New().String()
		journeyDate := "2026-09-15"

		mock.ExpectQuery(`SELECT (.+) FROM schedules`).
			WithArgs(scheduleID).
			WillReturnRows(scheduleTestRows(scheduleID, "08:30"))
		mock.ExpectQuery(`SELECT (.+) FROM journey_seats`).
			WillReturnRows(seatRowsFor(scheduleID, journeyDate, "L1", "L2"))
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE journey_seats`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "seat_number"}).
				AddRow(uuid.New().String(), "L1").
				AddRow(uuid.New().String(), "L2"))
		mock.ExpectExec(`DELETE FROM seat_locks`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO seat_locks`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO seat_locks`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		resp, err := svc.LockSeats(holderID, &models.LockSeatsRequest{
			ScheduleID:  scheduleID,
			JourneyDate: journeyDate,
			SeatNumbers: []string{"L1", "L2"},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Locks, 2)
		assert.Equal(t, 600, resp.TTLSeconds)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), resp.ExpiresAt, 5*time.Second)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Schedule", func(t *testing.T) {
		svc, mock := newLockService(t)

		scheduleID := uuid.New().String()
		mock.ExpectQuery(`SELECT (.+) FROM schedules`).
			WithArgs(scheduleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.LockSeats(holderID, &models.LockSeatsRequest{
			ScheduleID:  scheduleID,
			JourneyDate: "2026-09-15",
			SeatNumbers: []string{"L1"},
		})
		require.Error(t, err)
		_, ok := err.(*models.NotFoundError)
		assert.True(t, ok, "expected NotFoundError, got %T", err)
	})

	t.Run("Unknown Seat Number", func(t *testing.T) {
		svc, mock := newLockService(t)

		scheduleID := uuid.New().String()
		journeyDate := "2026-09-15"

		mock.ExpectQuery(`SELECT (.+) FROM schedules`).
			WithArgs(scheduleID).
			WillReturnRows(scheduleTestRows(scheduleID, "08:30"))
		mock.ExpectQuery(`SELECT (.+) FROM journey_seats`).
			WillReturnRows(seatRowsFor(scheduleID, journeyDate, "L1"))

		_, err := svc.LockSeats(holderID, &models.LockSeatsRequest{
			ScheduleID:  scheduleID,
			JourneyDate: journeyDate,
			SeatNumbers: []string{"L1", "Z9"},
		})
		require.Error(t, err)
		nfErr, ok := err.(*models.NotFoundError)
		require.True(t, ok)
		assert.Contains(t, nfErr.Resource, "Z9")
	})

	t.Run("Conflict Propagates", func(t *testing.T) {
		svc, mock := newLockService(t)

		scheduleID := uuid.New().String()
		journeyDate := "2026-09-15"

		mock.ExpectQuery(`SELECT (.+) FROM schedules`).
			WithArgs(scheduleID).
			WillReturnRows(scheduleTestRows(scheduleID, "08:30"))
		mock.ExpectQuery(`SELECT (.+) FROM journey_seats`).
			WillReturnRows(seatRowsFor(scheduleID, journeyDate, "L1", "L2"))
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE journey_seats`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "seat_number"}).
				AddRow(uuid.New().String(), "L1"))
		mock.ExpectRollback()

		_, err := svc.LockSeats(holderID, &models.LockSeatsRequest{
			ScheduleID:  scheduleID,
			JourneyDate: journeyDate,
			SeatNumbers: []string{"L1", "L2"},
		})
		require.Error(t, err)
		conflictErr, ok := err.(*models.SeatConflictError)
		require.True(t, ok)
		assert.Equal(t, []string{"L2"}, conflictErr.SeatNumbers)
	})
}

func TestReleaseLocksService(t *testing.T) {
	holderID := "session:abc123"

	svc, mock := newLockService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE journey_seats`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM seat_locks`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := svc.ReleaseLocks(holderID, &models.ReleaseLocksRequest{
		LockIDs: []string{uuid.New().String()},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Released)

	assert.NoError(t, mock.ExpectationsWereMet())
}

package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderlite/booking-backend/internal/models"
)

var journeySeatColumns = []string{
	"id", "schedule_id", "journey_date", "seat_number", "deck",
	"row_number", "column_number", "seat_price", "is_female_only",
	"status", "locked_by", "locked_until", "created_at", "updated_at",
}

func TestGetSeatMap(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewSeatRepository(sqlxDB)

	scheduleID := uuid.New().String()
	journeyDate := "2026-09-15"

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		holder := "session:abc123"
		until := now.Add(8 * time.Minute)

		mock.ExpectQuery(`SELECT (.+) FROM journey_seats`).
			WithArgs(scheduleID, journeyDate).
			WillReturnRows(sqlmock.NewRows(journeySeatColumns).
				AddRow(uuid.New().String(), scheduleID, journeyDate, "L1", "lower",
					1, 1, 1200.0, false, "available", nil, nil, now, now).
				AddRow(uuid.New().String(), scheduleID, journeyDate, "L2", "lower",
					1, 2, 1200.0, true, "locked", holder, until, now, now))

		seats, err := repo.GetSeatMap(scheduleID, journeyDate)
		require.NoError(t, err)
		require.Len(t, seats, 2)
		assert.Equal(t, models.SeatStatusAvailable, seats[0].Status)
		assert.Equal(t, models.SeatStatusLocked, seats[1].Status)
		assert.True(t, seats[1].IsFemaleOnly)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unmaterialized Map Is Empty", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM journey_seats`).
			WithArgs(scheduleID, journeyDate).
			WillReturnRows(sqlmock.NewRows(journeySeatColumns))

		seats, err := repo.GetSeatMap(scheduleID, journeyDate)
		require.NoError(t, err)
		assert.Empty(t, seats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetByNumbers(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewSeatRepository(sqlxDB)

	scheduleID := uuid.New().String()
	journeyDate := "2026-09-15"

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM journey_seats`).
			WillReturnRows(sqlmock.NewRows(journeySeatColumns).
				AddRow(uuid.New().String(), scheduleID, journeyDate, "U3", "upper",
					2, 1, 1500.0, false, "available", nil, nil, now, now))

		seats, err := repo.GetByNumbers(scheduleID, journeyDate, []string{"U3"})
		require.NoError(t, err)
		require.Len(t, seats, 1)
		assert.Equal(t, "U3", seats[0].SeatNumber)
		assert.Equal(t, models.SeatDeckUpper, seats[0].Deck)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Request", func(t *testing.T) {
		seats, err := repo.GetByNumbers(scheduleID, journeyDate, nil)
		require.NoError(t, err)
		assert.Nil(t, seats)
	})
}

func TestMaterializeSeatMap(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewSeatRepository(sqlxDB)

	schedule := &models.Schedule{
		ID:           uuid.New().String(),
		BaseFare:     1200,
		SeatLayoutID: uuid.New().String(),
	}

	t.Run("Creates Seats From Layout", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO journey_seats`).
			WithArgs(schedule.ID, "2026-09-15", schedule.BaseFare, schedule.SeatLayoutID).
			WillReturnResult(sqlmock.NewResult(0, 40))

		created, err := repo.MaterializeSeatMap(schedule, "2026-09-15")
		require.NoError(t, err)
		assert.Equal(t, 40, created)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Idempotent Re-run Creates Nothing", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO journey_seats`).
			WithArgs(schedule.ID, "2026-09-15", schedule.BaseFare, schedule.SeatLayoutID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		created, err := repo.MaterializeSeatMap(schedule, "2026-09-15")
		require.NoError(t, err)
		assert.Equal(t, 0, created)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetSummary(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewSeatRepository(sqlxDB)

	scheduleID := uuid.New().String()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM journey_seats`).
			WithArgs(scheduleID, "2026-09-15").
			WillReturnRows(sqlmock.NewRows([]string{
				"schedule_id", "journey_date", "total_seats", "available", "locked", "booked",
			}).AddRow(scheduleID, "2026-09-15", 40, 30, 4, 6))

		summary, err := repo.GetSummary(scheduleID, "2026-09-15")
		require.NoError(t, err)
		assert.Equal(t, 40, summary.TotalSeats)
		assert.Equal(t, 30, summary.Available)
		assert.Equal(t, 4, summary.Locked)
		assert.Equal(t, 6, summary.Booked)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Seats Yet", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM journey_seats`).
			WithArgs(scheduleID, "2026-09-16").
			WillReturnRows(sqlmock.NewRows([]string{
				"schedule_id", "journey_date", "total_seats", "available", "locked", "booked",
			}))

		summary, err := repo.GetSummary(scheduleID, "2026-09-16")
		require.NoError(t, err)
		assert.Equal(t, 0, summary.TotalSeats)
		assert.Equal(t, scheduleID, summary.ScheduleID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

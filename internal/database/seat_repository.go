package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wanderlite/booking-backend/internal/models"
)

// SeatRepository handles journey seat database operations: the seat
// map read path and materialization of seats from layout templates.
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// seatColumns is the live-status projection used by every seat read.
// A locked seat whose TTL has elapsed is reported as available; the
// sweep persists the same correction in the background, so no caller
// ever observes an expired lock as live.
const seatColumns = `
	id, schedule_id, to_char(journey_date, 'YYYY-MM-DD') AS journey_date,
	seat_number, deck, row_number, column_number, seat_price, is_female_only,
	CASE
		WHEN status = 'locked' AND locked_until < NOW() THEN 'available'
		ELSE status
	END AS status,
	locked_by, locked_until, created_at, updated_at`

// GetSeatMap returns all seats of a schedule+date with live status.
// Returns an empty slice when no seat map has been materialized.
func (r *SeatRepository) GetSeatMap(scheduleID, journeyDate string) ([]models.JourneySeat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM journey_seats
		WHERE schedule_id = $1 AND journey_date = $2
		ORDER BY deck, row_number, column_number`

	var seats []models.JourneySeat
	err := r.db.Select(&seats, query, scheduleID, journeyDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get seat map: %w", err)
	}
	return seats, nil
}

// GetByNumbers retrieves seats of a schedule+date by seat number,
// with the same live-status correction as GetSeatMap
func (r *SeatRepository) GetByNumbers(scheduleID, journeyDate string, seatNumbers []string) ([]models.JourneySeat, error) {
	if len(seatNumbers) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+seatColumns+`
		FROM journey_seats
		WHERE schedule_id = ? AND journey_date = ? AND seat_number IN (?)`,
		scheduleID, journeyDate, seatNumbers)
	if err != nil {
		return nil, fmt.Errorf("failed to build seat query: %w", err)
	}

	query = r.db.Rebind(query)
	var seats []models.JourneySeat
	if err := r.db.Select(&seats, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}
	return seats, nil
}

// MaterializeSeatMap instantiates journey seats for a schedule+date
// from its layout template with the schedule base fare. Idempotent:
// existing seats are left untouched so statuses survive re-runs.
// Returns the number of newly created seats.
func (r *SeatRepository) MaterializeSeatMap(schedule *models.Schedule, journeyDate string) (int, error) {
	query := `
		INSERT INTO journey_seats (
			id, schedule_id, journey_date, seat_number, deck,
			row_number, column_number, seat_price, is_female_only, status
		)
		SELECT gen_random_uuid(), $1, $2, seat_number, deck,
		       row_number, column_number, $3, is_female_only, 'available'
		FROM seat_layout_positions
		WHERE layout_id = $4
		ON CONFLICT (schedule_id, journey_date, seat_number) DO NOTHING`

	result, err := r.db.Exec(query, schedule.ID, journeyDate, schedule.BaseFare, schedule.SeatLayoutID)
	if err != nil {
		return 0, fmt.Errorf("failed to materialize seat map: %w", err)
	}

	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// GetSummary returns per-status seat counts for a schedule+date
func (r *SeatRepository) GetSummary(scheduleID, journeyDate string) (*models.SeatMapSummary, error) {
	summary := &models.SeatMapSummary{}
	query := `
		SELECT schedule_id, to_char(journey_date, 'YYYY-MM-DD') AS journey_date,
		       COUNT(*) AS total_seats,
		       COUNT(*) FILTER (WHERE status = 'available' OR (status = 'locked' AND locked_until < NOW())) AS available,
		       COUNT(*) FILTER (WHERE status = 'locked' AND locked_until >= NOW()) AS locked,
		       COUNT(*) FILTER (WHERE status = 'booked') AS booked
		FROM journey_seats
		WHERE schedule_id = $1 AND journey_date = $2
		GROUP BY schedule_id, journey_date`

	err := r.db.Get(summary, query, scheduleID, journeyDate)
	if err == sql.ErrNoRows {
		return &models.SeatMapSummary{ScheduleID: scheduleID, JourneyDate: journeyDate}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get seat summary: %w", err)
	}
	return summary, nil
}

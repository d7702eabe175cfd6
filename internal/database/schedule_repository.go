package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wanderlite/booking-backend/internal/models"
)

// ScheduleRepository reads schedule reference data: routes, departure
// times, base fares, boarding/dropping points, and layout templates.
// This data is owned by the schedule service; the booking core only
// reads it.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// GetByID retrieves a schedule by ID
func (r *ScheduleRepository) GetByID(scheduleID string) (*models.Schedule, error) {
	schedule := &models.Schedule{}
	query := `
		SELECT id, route_name, origin, destination, bus_type,
		       to_char(departure_time, 'HH24:MI') AS departure_time,
		       to_char(arrival_time, 'HH24:MI') AS arrival_time,
		       base_fare, seat_layout_id, is_active, created_at, updated_at
		FROM schedules
		WHERE id = $1`

	err := r.db.Get(schedule, query, scheduleID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return schedule, nil
}

// GetActive retrieves all schedules currently open for sale
func (r *ScheduleRepository) GetActive() ([]models.Schedule, error) {
	query := `
		SELECT id, route_name, origin, destination, bus_type,
		       to_char(departure_time, 'HH24:MI') AS departure_time,
		       to_char(arrival_time, 'HH24:MI') AS arrival_time,
		       base_fare, seat_layout_id, is_active, created_at, updated_at
		FROM schedules
		WHERE is_active = true
		ORDER BY route_name, departure_time`

	var schedules []models.Schedule
	if err := r.db.Select(&schedules, query); err != nil {
		return nil, fmt.Errorf("failed to get active schedules: %w", err)
	}
	return schedules, nil
}

// GetPoint retrieves a boarding or dropping point and verifies it
// belongs to the given schedule with the expected type
func (r *ScheduleRepository) GetPoint(pointID, scheduleID string, pointType models.SchedulePointType) (*models.SchedulePoint, error) {
	point := &models.SchedulePoint{}
	query := `
		SELECT id, schedule_id, point_type, name, landmark, time_offset_minutes, position
		FROM schedule_points
		WHERE id = $1 AND schedule_id = $2 AND point_type = $3`

	err := r.db.Get(point, query, pointID, scheduleID, pointType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule point: %w", err)
	}
	return point, nil
}

// GetPointsBySchedule lists all points of a schedule ordered by position
func (r *ScheduleRepository) GetPointsBySchedule(scheduleID string) ([]models.SchedulePoint, error) {
	query := `
		SELECT id, schedule_id, point_type, name, landmark, time_offset_minutes, position
		FROM schedule_points
		WHERE schedule_id = $1
		ORDER BY point_type, position`

	var points []models.SchedulePoint
	err := r.db.Select(&points, query, scheduleID)
	return points, err
}

// GetLayoutPositions retrieves the seat layout template of a schedule
func (r *ScheduleRepository) GetLayoutPositions(layoutID string) ([]models.SeatLayoutPosition, error) {
	query := `
		SELECT id, layout_id, seat_number, deck, row_number, column_number, is_female_only
		FROM seat_layout_positions
		WHERE layout_id = $1
		ORDER BY deck, row_number, column_number`

	var positions []models.SeatLayoutPosition
	err := r.db.Select(&positions, query, layoutID)
	return positions, err
}

package models

import (
	"time"
)

// Schedule is read-only reference data supplied by the schedule/search
// service: route, times, base fare, and the seat layout template used
// to materialize journey seats.
type Schedule struct {
	ID            string    `json:"id" db:"id"`
	RouteName     string    `json:"route_name" db:"route_name"`
	Origin        string    `json:"origin" db:"origin"`
	Destination   string    `json:"destination" db:"destination"`
	BusType       string    `json:"bus_type" db:"bus_type"`
	DepartureTime string    `json:"departure_time" db:"departure_time"` // "15:04"
	ArrivalTime   string    `json:"arrival_time" db:"arrival_time"`
	BaseFare      float64   `json:"base_fare" db:"base_fare"`
	SeatLayoutID  string    `json:"seat_layout_id" db:"seat_layout_id"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// DepartureAt combines a journey date with the schedule's departure
// time into an absolute instant. The refund engine measures
// time-to-departure against this.
func (s *Schedule) DepartureAt(journeyDate string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", journeyDate+" "+s.DepartureTime)
}

// SchedulePointType distinguishes boarding from dropping points
type SchedulePointType string

const (
	PointTypeBoarding SchedulePointType = "boarding"
	PointTypeDropping SchedulePointType = "dropping"
)

// SchedulePoint is a boarding or dropping point on a schedule's route
type SchedulePoint struct {
	ID                string            `json:"id" db:"id"`
	ScheduleID        string            `json:"schedule_id" db:"schedule_id"`
	PointType         SchedulePointType `json:"point_type" db:"point_type"`
	Name              string            `json:"name" db:"name"`
	Landmark          *string           `json:"landmark,omitempty" db:"landmark"`
	TimeOffsetMinutes int               `json:"time_offset_minutes" db:"time_offset_minutes"`
	Position          int               `json:"position" db:"position"`
}

// SeatLayoutPosition is one seat in a schedule's layout template.
// Journey seats are instantiated from these rows with the schedule's
// base fare.
type SeatLayoutPosition struct {
	ID           string   `json:"id" db:"id"`
	LayoutID     string   `json:"layout_id" db:"layout_id"`
	SeatNumber   string   `json:"seat_number" db:"seat_number"`
	Deck         SeatDeck `json:"deck" db:"deck"`
	RowNumber    int      `json:"row_number" db:"row_number"`
	ColumnNumber int      `json:"column_number" db:"column_number"`
	IsFemaleOnly bool     `json:"is_female_only" db:"is_female_only"`
}

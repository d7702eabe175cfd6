package models

import (
	"time"
)

// SeatStatus represents the status of a journey seat
// Matches PostgreSQL ENUM: seat_status
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusLocked    SeatStatus = "locked"
	SeatStatusBooked    SeatStatus = "booked"
)

// SeatDeck represents which deck a seat belongs to
type SeatDeck string

const (
	SeatDeckLower SeatDeck = "lower"
	SeatDeckUpper SeatDeck = "upper"
)

// JourneySeat represents one seat of a schedule on one journey date.
// Status transitions only through the lock manager, the booking
// orchestrator, or the expiry sweep: available -> locked -> booked,
// and back to available on cancellation or lock expiry.
type JourneySeat struct {
	ID           string     `json:"id" db:"id"`
	ScheduleID   string     `json:"schedule_id" db:"schedule_id"`
	JourneyDate  string     `json:"journey_date" db:"journey_date"` // "2006-01-02"
	SeatNumber   string     `json:"seat_number" db:"seat_number"`
	Deck         SeatDeck   `json:"deck" db:"deck"`
	RowNumber    int        `json:"row_number" db:"row_number"`
	ColumnNumber int        `json:"column_number" db:"column_number"`
	SeatPrice    float64    `json:"seat_price" db:"seat_price"`
	IsFemaleOnly bool       `json:"is_female_only" db:"is_female_only"`
	Status       SeatStatus `json:"status" db:"status"`
	LockedBy     *string    `json:"-" db:"locked_by"`
	LockedUntil  *time.Time `json:"-" db:"locked_until"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// SeatMapResponse is the response for the seat map endpoint
type SeatMapResponse struct {
	ScheduleID  string        `json:"schedule_id"`
	JourneyDate string        `json:"journey_date"`
	Seats       []JourneySeat `json:"seats"`
	TotalSeats  int           `json:"total_seats"`
	Available   int           `json:"available"`
	Locked      int           `json:"locked"`
	Booked      int           `json:"booked"`
}

// MaterializeSeatMapRequest is used to instantiate journey seats from a
// schedule's seat layout template for one journey date
type MaterializeSeatMapRequest struct {
	JourneyDate string `json:"journey_date" binding:"required"`
}

// SeatMapSummary provides a quick availability overview for a journey
type SeatMapSummary struct {
	ScheduleID  string `json:"schedule_id" db:"schedule_id"`
	JourneyDate string `json:"journey_date" db:"journey_date"`
	TotalSeats  int    `json:"total_seats" db:"total_seats"`
	Available   int    `json:"available" db:"available"`
	Locked      int    `json:"locked" db:"locked"`
	Booked      int    `json:"booked" db:"booked"`
}

package models

import (
	"time"
)

// SeatLock represents a time-bounded exclusive hold on one seat.
// At most one unexpired lock exists per seat; the row is deleted on
// expiry, explicit release, or promotion to booked.
type SeatLock struct {
	ID          string    `json:"id" db:"id"`
	SeatID      string    `json:"seat_id" db:"seat_id"`
	ScheduleID  string    `json:"schedule_id" db:"schedule_id"`
	JourneyDate string    `json:"journey_date" db:"journey_date"`
	SeatNumber  string    `json:"seat_number" db:"seat_number"`
	HolderID    string    `json:"holder_id" db:"holder_id"`
	AcquiredAt  time.Time `json:"acquired_at" db:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at" db:"expires_at"`
}

// IsExpired checks if the lock has passed its TTL.
// Every in-memory check of lock freshness goes through this; SQL paths
// use the equivalent predicate on locked_until/expires_at.
func (l *SeatLock) IsExpired() bool {
	return time.Now().After(l.ExpiresAt)
}

// LockSeatsRequest is the request to lock a batch of seats
type LockSeatsRequest struct {
	ScheduleID  string   `json:"schedule_id" binding:"required"`
	JourneyDate string   `json:"journey_date" binding:"required"`
	SeatNumbers []string `json:"seat_numbers" binding:"required,min=1,max=6"`
}

// LockSeatsResponse is returned when seats are successfully locked
type LockSeatsResponse struct {
	Locks      []SeatLock `json:"locks"`
	ExpiresAt  time.Time  `json:"expires_at"`
	TTLSeconds int        `json:"ttl_seconds"` // Remaining TTL for countdown
}

// ReleaseLocksRequest is the request to release held locks
type ReleaseLocksRequest struct {
	LockIDs []string `json:"lock_ids" binding:"required,min=1"`
}

// ReleaseLocksResponse acknowledges a release request
type ReleaseLocksResponse struct {
	Released int `json:"released"`
}

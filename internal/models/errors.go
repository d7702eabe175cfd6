package models

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed or missing input with field-level
// detail. The request is rejected before any transactional work.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SeatConflictError is returned when one or more requested seats are
// unavailable at lock or confirm time. The caller should re-select seats.
type SeatConflictError struct {
	SeatNumbers []string `json:"seat_numbers"`
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("%d seat(s) are no longer available: %s",
		len(e.SeatNumbers), strings.Join(e.SeatNumbers, ", "))
}

// LockExpiredError is returned when a held lock aged out between lock
// and confirm. The caller can retry by re-locking the same seats.
type LockExpiredError struct {
	SeatNumbers []string `json:"seat_numbers"`
}

func (e *LockExpiredError) Error() string {
	return fmt.Sprintf("lock expired for seat(s): %s", strings.Join(e.SeatNumbers, ", "))
}

// NotFoundError is returned for unknown schedule/date/point/booking references
type NotFoundError struct {
	Resource string `json:"resource"`
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ForbiddenError is returned when the requester does not own the
// resource it is trying to act on
type ForbiddenError struct {
	Message string `json:"message"`
}

func (e *ForbiddenError) Error() string {
	if e.Message == "" {
		return "forbidden"
	}
	return e.Message
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// BookingStatus represents the status of a booking
// Matches PostgreSQL ENUM: booking_status
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

var validGenders = map[string]bool{
	"male":   true,
	"female": true,
	"other":  true,
}

var validIDDocTypes = map[string]bool{
	"nic":      true,
	"passport": true,
	"license":  true,
}

// DeviceInfo stores parsed client device details as JSONB on the booking
type DeviceInfo struct {
	DeviceType string `json:"device_type,omitempty"`
	OS         string `json:"os,omitempty"`
	Browser    string `json:"browser,omitempty"`
	Platform   string `json:"platform,omitempty"`
	Raw        string `json:"raw,omitempty"`
}

func (d DeviceInfo) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *DeviceInfo) Scan(value interface{}) error {
	if value == nil {
		*d = DeviceInfo{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed for DeviceInfo")
	}
	return json.Unmarshal(bytes, d)
}

// Passenger is one passenger record embedded in a booking, bound to
// exactly one seat. Immutable once the booking is confirmed.
type Passenger struct {
	ID          string    `json:"id" db:"id"`
	BookingID   string    `json:"booking_id" db:"booking_id"`
	SeatID      string    `json:"seat_id" db:"seat_id"`
	SeatNumber  string    `json:"seat_number" db:"seat_number"`
	Name        string    `json:"name" db:"name"`
	Age         int       `json:"age" db:"age"`
	Gender      string    `json:"gender" db:"gender"`
	IDDocType   string    `json:"id_doc_type" db:"id_doc_type"`
	IDDocNumber string    `json:"id_doc_number" db:"id_doc_number"`
	SeatPrice   float64   `json:"seat_price" db:"seat_price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Booking represents a confirmed reservation of one or more seats on a
// journey. Created atomically with the locked->booked transition of its
// seats; irreversible except via cancellation.
type Booking struct {
	ID              string        `json:"id" db:"id"`
	PNR             string        `json:"pnr" db:"pnr"`
	UserID          string        `json:"user_id" db:"user_id"`
	ScheduleID      string        `json:"schedule_id" db:"schedule_id"`
	JourneyDate     string        `json:"journey_date" db:"journey_date"`
	BoardingPointID string        `json:"boarding_point_id" db:"boarding_point_id"`
	DroppingPointID string        `json:"dropping_point_id" db:"dropping_point_id"`
	ContactName     string        `json:"contact_name" db:"contact_name"`
	ContactPhone    string        `json:"contact_phone" db:"contact_phone"`
	ContactEmail    string        `json:"contact_email" db:"contact_email"`
	TotalAmount     float64       `json:"total_amount" db:"total_amount"`
	Status          BookingStatus `json:"status" db:"status"`
	RefundAmount    *float64      `json:"refund_amount,omitempty" db:"refund_amount"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	DeviceInfo      *DeviceInfo   `json:"-" db:"device_info"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`

	Passengers []Passenger `json:"passengers,omitempty" db:"-"`
}

// IsCancelled reports whether the booking is in its terminal state
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// PassengerRequest is one passenger in the confirm request
type PassengerRequest struct {
	SeatNumber  string `json:"seat_number" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Age         int    `json:"age" binding:"required"`
	Gender      string `json:"gender" binding:"required"`
	IDDocType   string `json:"id_doc_type" binding:"required"`
	IDDocNumber string `json:"id_doc_number" binding:"required"`
}

// ContactRequest carries the booking contact details
type ContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// ConfirmBookingRequest is the request to convert held locks into a booking
type ConfirmBookingRequest struct {
	ScheduleID      string             `json:"schedule_id" binding:"required"`
	JourneyDate     string             `json:"journey_date" binding:"required"`
	Passengers      []PassengerRequest `json:"passengers" binding:"required,min=1"`
	BoardingPointID string             `json:"boarding_point_id" binding:"required"`
	DroppingPointID string             `json:"dropping_point_id" binding:"required"`
	Contact         ContactRequest     `json:"contact" binding:"required"`
}

// Validate performs field-level validation before any transactional work.
// Phone and email formats are checked separately by the contact validator.
func (r *ConfirmBookingRequest) Validate() *ValidationError {
	fields := make(map[string]string)

	if len(r.Passengers) == 0 {
		fields["passengers"] = "at least one passenger is required"
	}
	if len(r.Passengers) > 6 {
		fields["passengers"] = "maximum 6 passengers per booking"
	}

	seen := make(map[string]bool, len(r.Passengers))
	for i, p := range r.Passengers {
		prefix := fmt.Sprintf("passengers[%d]", i)
		if strings.TrimSpace(p.Name) == "" {
			fields[prefix+".name"] = "name is required"
		}
		if p.Age < 1 || p.Age > 120 {
			fields[prefix+".age"] = "age must be between 1 and 120"
		}
		if !validGenders[strings.ToLower(p.Gender)] {
			fields[prefix+".gender"] = "gender must be male, female, or other"
		}
		if !validIDDocTypes[strings.ToLower(p.IDDocType)] {
			fields[prefix+".id_doc_type"] = "id document type must be nic, passport, or license"
		}
		if strings.TrimSpace(p.IDDocNumber) == "" {
			fields[prefix+".id_doc_number"] = "id document number is required"
		}
		if p.SeatNumber == "" {
			fields[prefix+".seat_number"] = "seat number is required"
		} else if seen[p.SeatNumber] {
			fields[prefix+".seat_number"] = "duplicate seat number " + p.SeatNumber
		}
		seen[p.SeatNumber] = true
	}

	if strings.TrimSpace(r.Contact.Name) == "" {
		fields["contact.name"] = "contact name is required"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// SeatNumbers returns the seat numbers referenced by the passengers
func (r *ConfirmBookingRequest) SeatNumbers() []string {
	numbers := make([]string, len(r.Passengers))
	for i, p := range r.Passengers {
		numbers[i] = p.SeatNumber
	}
	return numbers
}

// CancelBookingResponse is returned by the cancellation endpoint
type CancelBookingResponse struct {
	BookingID     string        `json:"booking_id"`
	PNR           string        `json:"pnr"`
	Status        BookingStatus `json:"status"`
	RefundAmount  float64       `json:"refund_amount"`
	RefundPercent int           `json:"refund_percent"`
}

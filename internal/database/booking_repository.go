package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/wanderlite/booking-backend/internal/models"
)

// BookingRepository handles booking database operations. Confirmation
// and cancellation run as single transactions so a failure after
// partial work never leaves seats booked or locked as a side effect.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// GeneratePNR generates a unique booking reference
// Format: WL-YYYYMMDD-XXXXXX (6 char alphanumeric)
// Example: WL-20260829-A1B2C3
func (r *BookingRepository) GeneratePNR() (string, error) {
	todayStr := time.Now().Format("20060102")

	for attempts := 0; attempts < 10; attempts++ {
		randomBytes := make([]byte, 3)
		if _, err := rand.Read(randomBytes); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		randomStr := strings.ToUpper(hex.EncodeToString(randomBytes))

		newPNR := fmt.Sprintf("WL-%s-%s", todayStr, randomStr)

		var count int
		err := r.db.Get(&count, `SELECT COUNT(*) FROM bookings WHERE pnr = $1`, newPNR)
		if err != nil {
			return "", fmt.Errorf("failed to check PNR uniqueness: %w", err)
		}

		if count == 0 {
			return newPNR, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique PNR after 10 attempts")
}

// ConfirmBooking converts the holder's locks on the passengers' seats
// into a confirmed booking within one transaction:
//  1. each seat moves locked -> booked via a conditional UPDATE that
//     re-verifies lock ownership and freshness
//  2. the booking and its passenger rows are inserted with a fresh PNR
//  3. the consumed lock rows are deleted
//
// If any seat fails re-verification the whole transaction rolls back
// and a SeatConflictError or LockExpiredError reports the seat.
func (r *BookingRepository) ConfirmBooking(
	booking *models.Booking,
	passengers []models.Passenger,
	holderID string,
) (*models.Booking, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	seatIDs := make([]string, len(passengers))
	for i, p := range passengers {
		seatIDs[i] = p.SeatID

		result, err := tx.Exec(`
			UPDATE journey_seats
			SET status = 'booked', locked_by = NULL, locked_until = NULL, updated_at = NOW()
			WHERE id = $1 AND status = 'locked' AND locked_by = $2 AND locked_until > NOW()`,
			p.SeatID, holderID)
		if err != nil {
			return nil, fmt.Errorf("failed to book seat %s: %w", p.SeatNumber, err)
		}

		rows, _ := result.RowsAffected()
		if rows == 0 {
			return nil, r.classifySeatFailure(tx, p.SeatID, p.SeatNumber, holderID)
		}
	}

	pnr, err := r.GeneratePNR()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNR: %w", err)
	}
	booking.ID = uuid.New().String()
	booking.PNR = pnr
	booking.Status = models.BookingStatusConfirmed

	err = tx.QueryRowx(`
		INSERT INTO bookings (
			id, pnr, user_id, schedule_id, journey_date,
			boarding_point_id, dropping_point_id,
			contact_name, contact_phone, contact_email,
			total_amount, status, device_info
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING created_at, updated_at`,
		booking.ID, booking.PNR, booking.UserID, booking.ScheduleID, booking.JourneyDate,
		booking.BoardingPointID, booking.DroppingPointID,
		booking.ContactName, booking.ContactPhone, booking.ContactEmail,
		booking.TotalAmount, booking.Status, booking.DeviceInfo,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	for i := range passengers {
		passengers[i].BookingID = booking.ID

		err = tx.QueryRowx(`
			INSERT INTO booking_passengers (
				id, booking_id, seat_id, seat_number,
				name, age, gender, id_doc_type, id_doc_number, seat_price
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
			) RETURNING id, created_at`,
			uuid.New().String(), passengers[i].BookingID, passengers[i].SeatID, passengers[i].SeatNumber,
			passengers[i].Name, passengers[i].Age, passengers[i].Gender,
			passengers[i].IDDocType, passengers[i].IDDocNumber, passengers[i].SeatPrice,
		).Scan(&passengers[i].ID, &passengers[i].CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create passenger for seat %s: %w", passengers[i].SeatNumber, err)
		}
	}

	delQuery, delArgs, err := sqlx.In(`DELETE FROM seat_locks WHERE seat_id IN (?)`, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build lock delete: %w", err)
	}
	if _, err := tx.Exec(tx.Rebind(delQuery), delArgs...); err != nil {
		return nil, fmt.Errorf("failed to delete consumed locks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	booking.Passengers = passengers
	return booking, nil
}

// classifySeatFailure inspects a seat that failed the booked CAS and
// reports the failure the caller can act on: re-lock for an expired
// hold, re-select for a seat someone else took.
func (r *BookingRepository) classifySeatFailure(tx *sqlx.Tx, seatID, seatNumber, holderID string) error {
	var state struct {
		Status      string     `db:"status"`
		LockedBy    *string    `db:"locked_by"`
		LockedUntil *time.Time `db:"locked_until"`
	}
	err := tx.Get(&state, `SELECT status, locked_by, locked_until FROM journey_seats WHERE id = $1`, seatID)
	if err != nil {
		return fmt.Errorf("failed to inspect seat %s: %w", seatNumber, err)
	}

	if state.Status == string(models.SeatStatusBooked) {
		return &models.SeatConflictError{SeatNumbers: []string{seatNumber}}
	}
	if state.Status == string(models.SeatStatusLocked) && state.LockedBy != nil && *state.LockedBy != holderID &&
		state.LockedUntil != nil && state.LockedUntil.After(time.Now()) {
		return &models.SeatConflictError{SeatNumbers: []string{seatNumber}}
	}
	return &models.LockExpiredError{SeatNumbers: []string{seatNumber}}
}

// GetByID retrieves a booking with its passengers by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	return r.getBooking(`id = $1`, bookingID)
}

// GetByPNR retrieves a booking with its passengers by PNR
func (r *BookingRepository) GetByPNR(pnr string) (*models.Booking, error) {
	return r.getBooking(`pnr = $1`, pnr)
}

func (r *BookingRepository) getBooking(where string, arg interface{}) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `
		SELECT id, pnr, user_id, schedule_id,
		       to_char(journey_date, 'YYYY-MM-DD') AS journey_date,
		       boarding_point_id, dropping_point_id,
		       contact_name, contact_phone, contact_email,
		       total_amount, status, refund_amount, cancelled_at,
		       created_at, updated_at
		FROM bookings
		WHERE ` + where

	err := r.db.Get(booking, query, arg)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	passengers, err := r.GetPassengers(booking.ID)
	if err != nil {
		return nil, err
	}
	booking.Passengers = passengers
	return booking, nil
}

// GetPassengers retrieves the passenger records of a booking
func (r *BookingRepository) GetPassengers(bookingID string) ([]models.Passenger, error) {
	query := `
		SELECT id, booking_id, seat_id, seat_number,
		       name, age, gender, id_doc_type, id_doc_number, seat_price, created_at
		FROM booking_passengers
		WHERE booking_id = $1
		ORDER BY seat_number`

	var passengers []models.Passenger
	if err := r.db.Select(&passengers, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to get passengers: %w", err)
	}
	return passengers, nil
}

// CancelBooking marks a confirmed booking cancelled, records the
// refund, and releases its seats back to available in one transaction
func (r *BookingRepository) CancelBooking(bookingID string, refundAmount float64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE bookings
		SET status = 'cancelled', refund_amount = $2, cancelled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'confirmed'`,
		bookingID, refundAmount)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("booking not in confirmed status")
	}

	_, err = tx.Exec(`
		UPDATE journey_seats
		SET status = 'available', updated_at = NOW()
		WHERE status = 'booked'
		  AND id IN (SELECT seat_id FROM booking_passengers WHERE booking_id = $1)`,
		bookingID)
	if err != nil {
		return fmt.Errorf("failed to release booked seats: %w", err)
	}

	return tx.Commit()
}

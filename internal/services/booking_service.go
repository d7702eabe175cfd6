package services

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wanderlite/booking-backend/internal/database"
	"github.com/wanderlite/booking-backend/internal/models"
	"github.com/wanderlite/booking-backend/pkg/validator"
)

// BookingService converts held seat locks into confirmed bookings and
// serves booking lookups
type BookingService struct {
	bookingRepo      *database.BookingRepository
	seatRepo         *database.SeatRepository
	scheduleRepo     *database.ScheduleRepository
	contactValidator *validator.ContactValidator
	logger           *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo *database.BookingRepository,
	seatRepo *database.SeatRepository,
	scheduleRepo *database.ScheduleRepository,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:      bookingRepo,
		seatRepo:         seatRepo,
		scheduleRepo:     scheduleRepo,
		contactValidator: validator.NewContactValidator(),
		logger:           logger,
	}
}

// ConfirmBooking converts the holder's seat locks into a confirmed
// booking with a PNR. Validation and reference checks run before the
// transactional seat conversion; the repository re-verifies lock
// ownership and freshness inside the transaction.
func (s *BookingService) ConfirmBooking(
	holderID string,
	req *models.ConfirmBookingRequest,
	device *models.DeviceInfo,
) (*models.Booking, error) {
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}
	if err := validateJourneyDate(req.JourneyDate); err != nil {
		return nil, err
	}

	contactFields := make(map[string]string)
	phone, err := s.contactValidator.ValidatePhone(req.Contact.Phone)
	if err != nil {
		contactFields["contact.phone"] = err.Error()
	}
	email, err := s.contactValidator.ValidateEmail(req.Contact.Email)
	if err != nil {
		contactFields["contact.email"] = err.Error()
	}
	if len(contactFields) > 0 {
		return nil, &models.ValidationError{Fields: contactFields}
	}

	schedule, err := s.scheduleRepo.GetByID(req.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if schedule == nil {
		return nil, &models.NotFoundError{Resource: "schedule"}
	}

	boarding, err := s.scheduleRepo.GetPoint(req.BoardingPointID, req.ScheduleID, models.PointTypeBoarding)
	if err != nil {
		return nil, fmt.Errorf("failed to load boarding point: %w", err)
	}
	if boarding == nil {
		return nil, &models.NotFoundError{Resource: "boarding point"}
	}

	dropping, err := s.scheduleRepo.GetPoint(req.DroppingPointID, req.ScheduleID, models.PointTypeDropping)
	if err != nil {
		return nil, fmt.Errorf("failed to load dropping point: %w", err)
	}
	if dropping == nil {
		return nil, &models.NotFoundError{Resource: "dropping point"}
	}

	seats, err := s.seatRepo.GetByNumbers(req.ScheduleID, req.JourneyDate, req.SeatNumbers())
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}
	seatsByNumber := make(map[string]models.JourneySeat, len(seats))
	for _, seat := range seats {
		seatsByNumber[seat.SeatNumber] = seat
	}

	passengers := make([]models.Passenger, len(req.Passengers))
	totalAmount := 0.0
	for i, p := range req.Passengers {
		seat, ok := seatsByNumber[p.SeatNumber]
		if !ok {
			return nil, &models.NotFoundError{Resource: "seat " + p.SeatNumber}
		}
		if seat.IsFemaleOnly && strings.ToLower(p.Gender) != "female" {
			return nil, &models.ValidationError{Fields: map[string]string{
				fmt.Sprintf("passengers[%d].seat_number", i): "seat " + p.SeatNumber + " is reserved for female passengers",
			}}
		}

		passengers[i] = models.Passenger{
			SeatID:      seat.ID,
			SeatNumber:  seat.SeatNumber,
			Name:        strings.TrimSpace(p.Name),
			Age:         p.Age,
			Gender:      strings.ToLower(p.Gender),
			IDDocType:   strings.ToLower(p.IDDocType),
			IDDocNumber: strings.TrimSpace(p.IDDocNumber),
			SeatPrice:   seat.SeatPrice,
		}
		totalAmount += seat.SeatPrice
	}

	booking := &models.Booking{
		UserID:          holderID,
		ScheduleID:      req.ScheduleID,
		JourneyDate:     req.JourneyDate,
		BoardingPointID: boarding.ID,
		DroppingPointID: dropping.ID,
		ContactName:     strings.TrimSpace(req.Contact.Name),
		ContactPhone:    phone,
		ContactEmail:    email,
		TotalAmount:     totalAmount,
		DeviceInfo:      device,
	}

	confirmed, err := s.bookingRepo.ConfirmBooking(booking, passengers, holderID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"pnr":          confirmed.PNR,
		"user_id":      holderID,
		"schedule_id":  confirmed.ScheduleID,
		"journey_date": confirmed.JourneyDate,
		"seats":        len(confirmed.Passengers),
		"total_amount": confirmed.TotalAmount,
	}).Info("Booking confirmed")

	return confirmed, nil
}

// GetBooking retrieves a booking by PNR or booking ID, scoped to its owner
func (s *BookingService) GetBooking(holderID, ref string) (*models.Booking, error) {
	booking, err := s.lookupBooking(ref)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, &models.NotFoundError{Resource: "booking"}
	}
	if booking.UserID != holderID {
		return nil, &models.ForbiddenError{Message: "booking belongs to another user"}
	}
	return booking, nil
}

func (s *BookingService) lookupBooking(ref string) (*models.Booking, error) {
	if strings.HasPrefix(ref, "WL-") {
		return s.bookingRepo.GetByPNR(ref)
	}
	return s.bookingRepo.GetByID(ref)
}

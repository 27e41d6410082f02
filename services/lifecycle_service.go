// services/lifecycle_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"horizon-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// legalTransitions is the whole state machine. Anything not listed here
// is rejected with ErrInvalidTransition; the status field is never
// silently coerced.
var legalTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled, models.BookingExpired},
	models.BookingConfirmed: {models.BookingPaid, models.BookingCheckedIn, models.BookingCancelled},
	models.BookingPaid:      {models.BookingCheckedIn, models.BookingCancelled},
	models.BookingCheckedIn: {models.BookingCheckedOut},
	// CHECKED_OUT, CANCELLED and EXPIRED are terminal.
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// LifecycleService owns Booking.Status: every status write in the system
// goes through Transition so illegal moves are impossible.
type LifecycleService struct {
	DB *gorm.DB
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{DB: db}
}

// Transition applies a guarded status change inside the caller's
// transaction and keeps the in-memory struct in sync.
func (s *LifecycleService) Transition(tx *gorm.DB, b *models.Booking, next models.BookingStatus) error {
	if !CanTransition(b.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}
	if err := tx.Model(b).Update("status", next).Error; err != nil {
		return fmt.Errorf("failed to update booking %d status: %w", b.ID, err)
	}
	b.Status = next
	return nil
}

// CheckInInput carries what the front desk captured at the counter.
type CheckInInput struct {
	StaffName      string
	IDVerification datatypes.JSON
	Notes          string

	// AllowEarly is the documented staff override for arriving before
	// the booked check-in date.
	AllowEarly bool
}

// CheckIn moves a CONFIRMED or PAID booking to CHECKED_IN, writes the
// once-only CheckInDetails row and marks the room occupied. All inside
// one transaction with the booking row locked.
func (s *LifecycleService) CheckIn(bookingID uint, in CheckInInput) (*models.CheckInDetails, error) {
	now := time.Now().UTC()
	var details models.CheckInDetails

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if err := expireIfLapsed(tx, &booking, now); err != nil {
			return err
		}

		if booking.Status != models.BookingConfirmed && booking.Status != models.BookingPaid {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, models.BookingCheckedIn)
		}
		if now.Before(booking.CheckInDate) && !in.AllowEarly {
			return ErrCheckInNotReached
		}

		var room models.Room
		if err := tx.First(&room, booking.RoomID).Error; err != nil {
			return fmt.Errorf("failed to load room %d: %w", booking.RoomID, err)
		}

		details = models.CheckInDetails{
			BookingID:      booking.ID,
			StaffName:      in.StaffName,
			CheckedInAt:    now,
			RoomNumber:     room.RoomNumber,
			IDVerification: in.IDVerification,
			Notes:          in.Notes,
		}
		if err := tx.Create(&details).Error; err != nil {
			if isUniqueViolation(err) {
				// details already written: the transition fired before
				return fmt.Errorf("%w: check-in details already recorded", ErrInvalidTransition)
			}
			return fmt.Errorf("failed to create check-in details: %w", err)
		}

		if err := tx.Model(&models.Room{}).
			Where("id = ?", booking.RoomID).
			Update("status", models.RoomOccupied).Error; err != nil {
			return fmt.Errorf("failed to update room %d status: %w", booking.RoomID, err)
		}

		return s.Transition(tx, &booking, models.BookingCheckedIn)
	})
	if txErr != nil {
		return nil, txErr
	}
	return &details, nil
}

// CheckOutInput carries the front desk's checkout form.
type CheckOutInput struct {
	StaffName   string
	KeyReturned bool
	Feedback    string
}

// CheckOut moves a CHECKED_IN booking to CHECKED_OUT. Every charge on the
// stay must be settled or formally disputed first. The room returns to
// AVAILABLE, or to MAINTENANCE when the key was not returned.
func (s *LifecycleService) CheckOut(bookingID uint, in CheckOutInput) (*models.CheckOutDetails, error) {
	now := time.Now().UTC()
	var details models.CheckOutDetails

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.Status != models.BookingCheckedIn {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, models.BookingCheckedOut)
		}

		var pendingCharges int64
		if err := tx.Model(&models.Charge{}).
			Where("booking_id = ? AND status = ?", booking.ID, models.ChargePending).
			Count(&pendingCharges).Error; err != nil {
			return fmt.Errorf("failed to count charges: %w", err)
		}
		if pendingCharges > 0 {
			return ErrUnsettledCharges
		}

		details = models.CheckOutDetails{
			BookingID:    booking.ID,
			StaffName:    in.StaffName,
			CheckedOutAt: now,
			KeyReturned:  in.KeyReturned,
			Feedback:     in.Feedback,
		}
		if err := tx.Create(&details).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: check-out details already recorded", ErrInvalidTransition)
			}
			return fmt.Errorf("failed to create check-out details: %w", err)
		}

		roomStatus := models.RoomAvailable
		if !in.KeyReturned {
			roomStatus = models.RoomMaintenance
		}
		if err := tx.Model(&models.Room{}).
			Where("id = ?", booking.RoomID).
			Update("status", roomStatus).Error; err != nil {
			return fmt.Errorf("failed to update room %d status: %w", booking.RoomID, err)
		}

		return s.Transition(tx, &booking, models.BookingCheckedOut)
	})
	if txErr != nil {
		return nil, txErr
	}
	return &details, nil
}

// services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"horizon-backend/models"
	"horizon-backend/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// amountTolerance absorbs float rounding between our decimal(10,2)
// columns and the processor's representation.
const amountTolerance = 0.01

// PaymentService records completed charges exactly once per booking and
// promotes the booking to PAID. Idempotency is durable: the unique index
// on processor_payment_id survives restarts and multiple instances,
// unlike any in-process cache.
type PaymentService struct {
	DB        *gorm.DB
	Lifecycle *LifecycleService
	Processor PaymentProcessor
}

func NewPaymentService(db *gorm.DB, lifecycle *LifecycleService, processor PaymentProcessor) *PaymentService {
	return &PaymentService{DB: db, Lifecycle: lifecycle, Processor: processor}
}

// ConfirmPayment runs the full guard sequence in one transaction with
// the booking row locked:
//
//	(a) a COMPLETED payment for this booking already exists -> reject
//	    (returns the existing payment with ErrPaymentAlreadyCompleted so
//	    the caller can answer "already done" instead of charging twice)
//	(b) processorPaymentID was already recorded on any payment -> reject
//	    (webhook replay / duplicate delivery)
//	(c) the processor must report the charge as succeeded with the exact
//	    booking total
//	(d) only then the Payment row is written and the booking moves
//	    PENDING -> CONFIRMED -> PAID
func (s *PaymentService) ConfirmPayment(bookingID uint, processorPaymentID string, amount float64) (*models.Payment, error) {
	if processorPaymentID == "" {
		return nil, fmt.Errorf("%w: missing processor payment id", ErrInvalidAmount)
	}

	now := time.Now().UTC()
	var payment models.Payment
	var guestEmail string
	var emailData utils.BookingEmailData

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Customer").
			Preload("Room").
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		// (a) no double charge per booking
		var existing models.Payment
		err := tx.
			Where("booking_id = ? AND status = ?", booking.ID, models.PaymentCompleted).
			First(&existing).Error
		if err == nil {
			payment = existing
			return ErrPaymentAlreadyCompleted
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing payment: %w", err)
		}

		// (b) replayed processor id, possibly against another booking
		var replay int64
		if err := tx.Model(&models.Payment{}).
			Where("processor_payment_id = ?", processorPaymentID).
			Count(&replay).Error; err != nil {
			return fmt.Errorf("failed to check processor id: %w", err)
		}
		if replay > 0 {
			return ErrDuplicateProcessorID
		}

		// the hold must still be live, or the booking already authorized
		if err := expireIfLapsed(tx, &booking, now); err != nil {
			return err
		}
		switch booking.Status {
		case models.BookingPending, models.BookingConfirmed:
			// ok
		case models.BookingExpired:
			return ErrHoldExpired
		default:
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, models.BookingPaid)
		}

		// (c) reconcile with the processor before trusting the caller
		charge, err := s.Processor.Retrieve(processorPaymentID)
		if err != nil {
			return fmt.Errorf("failed to verify charge %s: %w", processorPaymentID, err)
		}
		if charge.Status != "succeeded" {
			return fmt.Errorf("%w: status %q", ErrProcessorDeclined, charge.Status)
		}
		if math.Abs(charge.Amount-booking.TotalPrice) > amountTolerance ||
			math.Abs(amount-booking.TotalPrice) > amountTolerance {
			return fmt.Errorf("%w: charged %.2f, expected %.2f", ErrProcessorAmountMismatch, charge.Amount, booking.TotalPrice)
		}

		// (d) record the payment and promote the booking
		payment = models.Payment{
			BookingID:          booking.ID,
			Amount:             utils.RoundMoney(charge.Amount),
			Method:             "card",
			Status:             models.PaymentCompleted,
			ProcessorPaymentID: processorPaymentID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			if isUniqueViolation(err) {
				// a concurrent delivery won the index race
				return ErrDuplicateProcessorID
			}
			return fmt.Errorf("failed to create payment: %w", err)
		}

		if booking.Status == models.BookingPending {
			if err := s.Lifecycle.Transition(tx, &booking, models.BookingConfirmed); err != nil {
				return err
			}
		}
		if err := s.Lifecycle.Transition(tx, &booking, models.BookingPaid); err != nil {
			return err
		}

		guestEmail = booking.Customer.Email
		emailData = utils.BookingEmailData{
			GuestName:    booking.Customer.FullName,
			BookingRef:   booking.ReferenceCode,
			RoomNumber:   booking.Room.RoomNumber,
			RoomType:     string(booking.Room.Type),
			CheckInDate:  booking.CheckInDate.Format("2006-01-02"),
			CheckOutDate: booking.CheckOutDate.Format("2006-01-02"),
			TotalPrice:   booking.TotalPrice,
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrPaymentAlreadyCompleted) {
			return &payment, txErr
		}
		return nil, txErr
	}

	if guestEmail != "" {
		if mailErr := utils.SendBookingConfirmationEmail(guestEmail, emailData); mailErr != nil {
			log.Printf("warning: confirmation email for booking %d failed: %v", bookingID, mailErr)
		}
	}

	return &payment, nil
}

// ChargeCard charges the booking total against a card token and confirms
// the resulting processor payment through the same guarded path. The
// idempotency key sent to the processor makes the charge itself safe to
// retry after a timeout.
func (s *PaymentService) ChargeCard(bookingID uint, cardToken string) (*models.Payment, error) {
	booking, existing, err := s.loadChargeable(bookingID)
	if err != nil {
		return existing, err
	}

	// key derived from the booking so a retry after a timeout presents
	// the same key and the processor returns the original charge
	charge, err := s.Processor.Charge(booking.TotalPrice, "USD", cardToken, "charge-"+booking.ReferenceCode)
	if err != nil {
		return nil, fmt.Errorf("charge for booking %d failed: %w", bookingID, err)
	}
	if charge.Status != "succeeded" {
		return nil, fmt.Errorf("%w: status %q", ErrProcessorDeclined, charge.Status)
	}

	return s.ConfirmPayment(bookingID, charge.ID, charge.Amount)
}

// loadChargeable returns the booking when it can still be charged. For a
// booking that already carries a completed payment it returns that
// payment with ErrPaymentAlreadyCompleted, mirroring ConfirmPayment, so
// the pay endpoint and the webhook answer duplicates the same way.
func (s *PaymentService) loadChargeable(bookingID uint) (*models.Booking, *models.Payment, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}
	if err := expireIfLapsed(s.DB, &booking, time.Now().UTC()); err != nil {
		return nil, nil, err
	}
	switch booking.Status {
	case models.BookingPending, models.BookingConfirmed:
		return &booking, nil, nil
	case models.BookingExpired:
		return nil, nil, ErrHoldExpired
	}

	var existing models.Payment
	if err := s.DB.
		Where("booking_id = ? AND status = ?", booking.ID, models.PaymentCompleted).
		First(&existing).Error; err == nil {
		return nil, &existing, ErrPaymentAlreadyCompleted
	}
	return nil, nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, models.BookingPaid)
}

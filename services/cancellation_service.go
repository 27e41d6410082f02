// services/cancellation_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"horizon-backend/models"
	"horizon-backend/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PenaltyTier maps "hours remaining until check-in" to a cancellation fee.
// Tiers are checked in order; the first whose WithinHours bound contains
// the remaining time wins.
type PenaltyTier struct {
	WithinHours    float64
	PenaltyPercent float64
}

// DefaultPenaltyTiers is the house policy: cancelling 48 hours or less
// before check-in forfeits 30% of the total price, earlier cancellations
// refund in full.
var DefaultPenaltyTiers = []PenaltyTier{
	{WithinHours: 48, PenaltyPercent: 30},
}

// ComputePenalty returns (penalty, refund) for a total price and the
// hours remaining until check-in. Past check-in counts as the tightest
// bucket.
func ComputePenalty(tiers []PenaltyTier, totalPrice, hoursUntilCheckIn float64) (penalty, refund float64) {
	percent := 0.0
	for _, tier := range tiers {
		if hoursUntilCheckIn <= tier.WithinHours {
			percent = tier.PenaltyPercent
			break
		}
	}
	penalty = utils.RoundMoney(totalPrice * percent / 100)
	refund = utils.RoundMoney(totalPrice - penalty)
	return penalty, refund
}

// CancellationResult is the breakdown returned to the caller.
type CancellationResult struct {
	BookingID    uint                 `json:"booking_id"`
	NewStatus    models.BookingStatus `json:"new_status"`
	Penalty      float64              `json:"penalty"`
	RefundAmount float64              `json:"refund_amount"`
	Refund       *models.Refund       `json:"refund,omitempty"`
}

// CancellationService computes the penalty, drives the processor refund
// and transitions the booking to CANCELLED.
type CancellationService struct {
	DB        *gorm.DB
	Lifecycle *LifecycleService
	Processor PaymentProcessor
	Tiers     []PenaltyTier
}

func NewCancellationService(db *gorm.DB, lifecycle *LifecycleService, processor PaymentProcessor) *CancellationService {
	return &CancellationService{
		DB:        db,
		Lifecycle: lifecycle,
		Processor: processor,
		Tiers:     DefaultPenaltyTiers,
	}
}

func cancellable(status models.BookingStatus) bool {
	switch status {
	case models.BookingPending, models.BookingConfirmed, models.BookingPaid:
		return true
	}
	return false
}

// QuotePenalty returns the penalty/refund breakdown without cancelling.
// This is the authoritative server-side computation the UI must display.
func (s *CancellationService) QuotePenalty(bookingID uint) (*CancellationResult, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	if err := expireIfLapsed(s.DB, &booking, now); err != nil {
		return nil, err
	}
	if !cancellable(booking.Status) {
		return nil, ErrNotEligibleCancel
	}

	hoursUntil := booking.CheckInDate.Sub(now).Hours()
	penalty, refund := ComputePenalty(s.Tiers, booking.TotalPrice, hoursUntil)
	return &CancellationResult{
		BookingID:    booking.ID,
		NewStatus:    booking.Status,
		Penalty:      penalty,
		RefundAmount: refund,
	}, nil
}

// Cancel cancels a booking and refunds the computed amount against its
// completed payment, if any. The processor refund runs inside the same
// transaction that writes the Refund row and the CANCELLED status: if the
// processor fails or is unreachable, everything rolls back and the
// booking stays in its prior state for a retry or a manual override.
func (s *CancellationService) Cancel(bookingID uint, requestedBy, reason string) (*CancellationResult, error) {
	now := time.Now().UTC()
	var result CancellationResult
	var guestEmail string
	var refCode string

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Customer").
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if err := expireIfLapsed(tx, &booking, now); err != nil {
			return err
		}
		if !cancellable(booking.Status) {
			return ErrNotEligibleCancel
		}

		hoursUntil := booking.CheckInDate.Sub(now).Hours()
		penalty, refundAmount := ComputePenalty(s.Tiers, booking.TotalPrice, hoursUntil)

		refund := models.Refund{
			BookingID:   booking.ID,
			CustomerID:  booking.CustomerID,
			Amount:      refundAmount,
			Penalty:     penalty,
			Reason:      reason,
			RequestedBy: requestedBy,
			Status:      models.RefundCompleted,
		}

		// Only a booking that was actually charged gets money back
		// through the processor.
		var payment models.Payment
		err := tx.
			Where("booking_id = ? AND status = ?", booking.ID, models.PaymentCompleted).
			First(&payment).Error
		switch {
		case err == nil:
			// never refund more than was charged
			if refundAmount > payment.Amount {
				refundAmount = payment.Amount
				refund.Amount = refundAmount
			}
			if refundAmount > 0 {
				// key derived from the booking, not freshly minted: a
				// retry after a lost response carries the same key and
				// the processor answers with the first refund instead
				// of moving money twice
				pr, rErr := s.Processor.Refund(payment.ProcessorPaymentID, refundAmount, "refund-"+booking.ReferenceCode)
				if rErr != nil {
					return fmt.Errorf("refund for booking %d failed: %w", booking.ID, rErr)
				}
				if pr.Status != "succeeded" {
					return fmt.Errorf("%w: refund status %q", ErrProcessorDeclined, pr.Status)
				}
				refund.ProcessorRefundID = pr.ID
			}
			refund.PaymentID = &payment.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// unpaid hold or confirmed-but-unpaid booking: nothing to
			// send to the processor, still record the breakdown
		default:
			return fmt.Errorf("failed to look up payment: %w", err)
		}

		if err := tx.Create(&refund).Error; err != nil {
			return fmt.Errorf("failed to create refund: %w", err)
		}
		if err := s.Lifecycle.Transition(tx, &booking, models.BookingCancelled); err != nil {
			return err
		}

		guestEmail = booking.Customer.Email
		refCode = booking.ReferenceCode
		result = CancellationResult{
			BookingID:    booking.ID,
			NewStatus:    models.BookingCancelled,
			Penalty:      penalty,
			RefundAmount: refundAmount,
			Refund:       &refund,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// best-effort: delivery never affects the committed cancellation
	if guestEmail != "" {
		if mailErr := utils.SendCancellationEmail(guestEmail, utils.BookingEmailData{
			BookingRef:   refCode,
			Penalty:      result.Penalty,
			RefundAmount: result.RefundAmount,
		}); mailErr != nil {
			log.Printf("warning: cancellation email for booking %d failed: %v", bookingID, mailErr)
		}
	}

	return &result, nil
}

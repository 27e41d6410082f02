// services/charge_service.go
package services

import (
	"errors"
	"fmt"

	"horizon-backend/models"
	"horizon-backend/utils"

	"gorm.io/gorm"
)

// ChargeService posts ad hoc extras (minibar, breakfast, damage) to a
// stay and tracks their dispute state. Checkout refuses to complete while
// any charge is still PENDING.
type ChargeService struct {
	DB *gorm.DB
}

func NewChargeService(db *gorm.DB) *ChargeService {
	return &ChargeService{DB: db}
}

// AddCharge posts a charge to a booking that is currently checked in.
func (s *ChargeService) AddCharge(bookingID uint, description string, amount float64) (*models.Charge, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.Status != models.BookingCheckedIn {
		return nil, ErrChargeNotCheckedIn
	}

	charge := models.Charge{
		BookingID:   bookingID,
		Description: description,
		Amount:      utils.RoundMoney(amount),
		Status:      models.ChargePending,
	}
	if err := s.DB.Create(&charge).Error; err != nil {
		return nil, fmt.Errorf("failed to create charge: %w", err)
	}
	return &charge, nil
}

// ListCharges returns the charges posted to a booking, oldest first.
func (s *ChargeService) ListCharges(bookingID uint) ([]models.Charge, error) {
	var charges []models.Charge
	if err := s.DB.
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&charges).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve charges: %w", err)
	}
	return charges, nil
}

func (s *ChargeService) setStatus(chargeID uint, from, to models.ChargeStatus) (*models.Charge, error) {
	var charge models.Charge
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&charge, chargeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChargeNotFound
			}
			return err
		}
		if charge.Status != from {
			return fmt.Errorf("%w: charge is %s", ErrInvalidTransition, charge.Status)
		}
		if err := tx.Model(&charge).Update("status", to).Error; err != nil {
			return err
		}
		charge.Status = to
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &charge, nil
}

// DisputeCharge marks a pending charge as formally disputed; a disputed
// charge no longer blocks checkout and is resolved offline.
func (s *ChargeService) DisputeCharge(chargeID uint) (*models.Charge, error) {
	return s.setStatus(chargeID, models.ChargePending, models.ChargeDisputed)
}

// SettleCharge marks a pending charge as paid.
func (s *ChargeService) SettleCharge(chargeID uint) (*models.Charge, error) {
	return s.setStatus(chargeID, models.ChargePending, models.ChargePaid)
}

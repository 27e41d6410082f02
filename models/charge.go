package models

import "time"

type ChargeStatus string

const (
	ChargePending  ChargeStatus = "PENDING"
	ChargeDisputed ChargeStatus = "DISPUTED"
	ChargePaid     ChargeStatus = "PAID"
)

// Charge is an ad hoc extra posted to a stay (minibar, breakfast, damage).
// Every charge must be settled (PAID) or formally disputed before the
// booking can check out.
type Charge struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint `gorm:"index;not null" json:"booking_id"`

	Description string       `gorm:"size:255" json:"description"`
	Amount      float64      `gorm:"type:decimal(10,2)" json:"amount"`
	Status      ChargeStatus `gorm:"size:32;default:'PENDING'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

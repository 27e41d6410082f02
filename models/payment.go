package models

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint `gorm:"index;not null" json:"booking_id"`

	Amount float64       `gorm:"type:decimal(10,2)" json:"amount"`
	Method string        `gorm:"size:50" json:"method"`
	Status PaymentStatus `gorm:"size:32;index" json:"status"`

	// ProcessorPaymentID is the external payment-intent id. The unique
	// index is the durable idempotency guard: a replayed webhook or a
	// retried confirm for the same processor charge can never create a
	// second row, regardless of process restarts or instance count.
	ProcessorPaymentID string `gorm:"column:processor_payment_id;size:128;uniqueIndex" json:"processor_payment_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

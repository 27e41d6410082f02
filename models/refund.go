package models

import "time"

type RefundStatus string

const (
	RefundCompleted RefundStatus = "COMPLETED"
	RefundFailed    RefundStatus = "FAILED"
)

type Refund struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID  uint  `gorm:"index;not null" json:"booking_id"`
	CustomerID uint  `gorm:"index" json:"customer_id"`
	PaymentID  *uint `gorm:"index" json:"payment_id,omitempty"`

	Amount  float64 `gorm:"type:decimal(10,2)" json:"amount"`
	Penalty float64 `gorm:"type:decimal(10,2)" json:"penalty"`

	Reason      string       `gorm:"type:text" json:"reason"`
	RequestedBy string       `gorm:"size:128" json:"requested_by"`
	Status      RefundStatus `gorm:"size:32" json:"status"`

	// ProcessorRefundID is empty when the booking had no completed
	// payment to refund against.
	ProcessorRefundID string `gorm:"column:processor_refund_id;size:128" json:"processor_refund_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

package models

import "time"

// CheckOutDetails is the once-only counterpart of CheckInDetails,
// written when a booking transitions to CHECKED_OUT.
type CheckOutDetails struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint `gorm:"uniqueIndex;not null" json:"booking_id"`

	StaffName    string    `gorm:"size:128" json:"staff_name"`
	CheckedOutAt time.Time `json:"checked_out_at"`

	// KeyReturned=false sends the room to MAINTENANCE instead of
	// AVAILABLE so housekeeping can re-key it.
	KeyReturned bool   `gorm:"default:true" json:"key_returned"`
	Feedback    string `gorm:"type:text" json:"feedback,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

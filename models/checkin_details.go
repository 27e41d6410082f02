package models

import (
	"time"

	"gorm.io/datatypes"
)

// CheckInDetails is written exactly once when a booking transitions to
// CHECKED_IN and never updated afterwards. The unique index on BookingID
// backs up the once-only guarantee at the schema level.
type CheckInDetails struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint `gorm:"uniqueIndex;not null" json:"booking_id"`

	StaffName   string    `gorm:"size:128" json:"staff_name"`
	CheckedInAt time.Time `json:"checked_in_at"`
	RoomNumber  string    `gorm:"size:50" json:"room_number"`

	// IDVerification holds whatever the front desk captured for the
	// guest's identity document (type, number, issuing country, scans).
	IDVerification datatypes.JSON `gorm:"column:id_verification" json:"id_verification,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

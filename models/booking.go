package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingPaid       BookingStatus = "PAID"
	BookingCheckedIn  BookingStatus = "CHECKED_IN"
	BookingCheckedOut BookingStatus = "CHECKED_OUT"
	BookingCancelled  BookingStatus = "CANCELLED"
	BookingExpired    BookingStatus = "EXPIRED"
)

// BlockingStatuses are the statuses that hold room inventory: a booking in
// one of these states counts against availability for its date range.
// PENDING blocks only while its hold has not lapsed (expires_at > now).
func BlockingStatuses() []BookingStatus {
	return []BookingStatus{BookingPending, BookingConfirmed, BookingPaid, BookingCheckedIn}
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CustomerID uint `gorm:"index;column:customer_id" json:"customer_id"`
	RoomID     uint `gorm:"index;column:room_id" json:"room_id"`

	ReferenceCode string        `gorm:"column:reference_code;size:64;uniqueIndex" json:"reference_code"`
	Status        BookingStatus `gorm:"column:status;size:32;index" json:"status"`

	CheckInDate    time.Time `gorm:"column:check_in_date;index" json:"check_in_date"`
	CheckOutDate   time.Time `gorm:"column:check_out_date" json:"check_out_date"`
	NumberOfGuests int       `gorm:"column:number_of_guests;default:1" json:"number_of_guests"`

	TotalPrice      float64 `gorm:"column:total_price;type:decimal(10,2)" json:"total_price"`
	DiscountPercent float64 `gorm:"column:discount_percent;type:decimal(5,2);default:0" json:"discount_percent"`

	// ExpiresAt is only meaningful while Status is PENDING: past this
	// instant the hold no longer reserves the room.
	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`

	Room     Room     `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Customer Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}

// Nights returns the length of stay in nights for the half-open
// [CheckInDate, CheckOutDate) range.
func (b *Booking) Nights() int {
	n := int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
	if n <= 0 {
		n = 1
	}
	return n
}

// HoldLapsed reports whether a PENDING hold has passed its expiry.
func (b *Booking) HoldLapsed(now time.Time) bool {
	return b.Status == BookingPending && b.ExpiresAt != nil && !b.ExpiresAt.After(now)
}

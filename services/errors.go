package services

import "errors"

// Sentinel errors returned by the domain services. Controllers match on
// these with errors.Is and translate them to stable API error codes.
var (
	// validation — rejected before touching persistence
	ErrInvalidDateRange = errors.New("invalid_date_range")
	ErrInvalidRoomType  = errors.New("invalid_room_type")
	ErrInvalidAmount    = errors.New("invalid_amount")

	ErrTooManyGuests = errors.New("too_many_guests")

	// not found
	ErrBookingNotFound  = errors.New("booking_not_found")
	ErrRoomNotFound     = errors.New("room_not_found")
	ErrChargeNotFound   = errors.New("charge_not_found")
	ErrCustomerNotFound = errors.New("customer_not_found")

	// conflict — lost a race or the entity is no longer in the expected state
	ErrRoomUnavailable    = errors.New("room_no_longer_available")
	ErrHoldExpired        = errors.New("hold_expired")
	ErrInvalidTransition  = errors.New("invalid_transition")
	ErrUnsettledCharges   = errors.New("unsettled_charges")
	ErrNotEligibleCancel  = errors.New("booking_not_cancellable")
	ErrCheckInNotReached  = errors.New("check_in_date_not_reached")
	ErrRoomHasBookings    = errors.New("room_has_active_bookings")
	ErrChargeNotCheckedIn = errors.New("booking_not_checked_in")

	// payments
	ErrPaymentAlreadyCompleted = errors.New("payment_already_completed")
	ErrDuplicateProcessorID    = errors.New("duplicate_processor_payment_id")
	ErrProcessorDeclined       = errors.New("processor_charge_not_succeeded")
	ErrProcessorAmountMismatch = errors.New("processor_amount_mismatch")
	ErrProcessorUnavailable    = errors.New("processor_unavailable")
)

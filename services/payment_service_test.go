package services

import (
	"errors"
	"testing"

	"horizon-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPaymentFixture(t *testing.T) (*gorm.DB, *PaymentService, *fakeProcessor) {
	t.Helper()
	db := setupTestDB(t)
	processor := newFakeProcessor()
	svc := NewPaymentService(db, NewLifecycleService(db), processor)
	return db, svc, processor
}

func TestConfirmPayment(t *testing.T) {
	db, svc, processor := newPaymentFixture(t)

	room := newTestRoom(t, db, "101", models.RoomTypeStandard, 100)
	holds := NewHoldService(db)
	customer := newTestCustomer(t, db)
	checkIn, checkOut := stay(3, 2)
	hold, err := holds.CreateHold(customer.ID, room.ID, checkIn, checkOut, 2, 0)
	require.NoError(t, err)

	processor.addCharge("pi_abc", 200, "succeeded")

	payment, err := svc.ConfirmPayment(hold.ID, "pi_abc", 200)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, 200.0, payment.Amount)
	assert.Equal(t, "pi_abc", payment.ProcessorPaymentID)

	assert.Equal(t, models.BookingPaid, reloadBooking(t, db, hold.ID).Status)
}

// Confirming the same booking twice charges once: the second call returns
// the original payment and a sentinel the caller maps to "already done".
func TestConfirmPaymentTwiceKeepsOnePayment(t *testing.T) {
	db, svc, processor := newPaymentFixture(t)

	room := newTestRoom(t, db, "101", models.RoomTypeStandard, 100)
	customer := newTestCustomer(t, db)
	checkIn, checkOut := stay(3, 2)
	booking := newTestBooking(t, db, customer.ID, room.ID, models.BookingPending, checkIn, checkOut, 200)

	processor.addCharge("pi_abc", 200, "succeeded")

	first, err := svc.ConfirmPayment(booking.ID, "pi_abc", 200)
	require.NoError(t, err)

	// same delivery again, and a different intent against the same booking
	for _, id := range []string{"pi_abc", "pi_other"} {
		again, err := svc.ConfirmPayment(booking.ID, id, 200)
		assert.ErrorIs(t, err, ErrPaymentAlreadyCompleted)
		require.NotNil(t, again)
		assert.Equal(t, first.ID, again.ID)
	}

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Where("booking_id = ?", booking.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, models.BookingPaid, reloadBooking(t, db, booking.ID).Status)
}

func TestConfirmPaymentRejectsReplayedProcessorID(t *testing.T) {
	db, svc, processor := newPaymentFixture(t)

	room := newTestRoom(t, db, "101", models.RoomTypeStandard, 100)
	customer := newTestCustomer(t, db)
	checkIn, checkOut := stay(3, 2)
	paid := newTestBooking(t, db, customer.ID, room.ID, models.BookingPending, checkIn, checkOut, 200)
	other := newTestBooking(t, db, customer.ID, room.ID, models.BookingPending, checkOut, checkOut.AddDate(0, 0, 2), 200)

	processor.addCharge("pi_abc", 200, "succeeded")
	_, err := svc.ConfirmPayment(paid.ID, "pi_abc", 200)
	require.NoError(t, err)

	// the same processor charge cannot pay for a second booking
	_, err = svc.ConfirmPayment(other.ID, "pi_abc", 200)
	assert.ErrorIs(t, err, ErrDuplicateProcessorID)
	assert.Equal(t, models.BookingPending, reloadBooking(t, db, other.ID).Status)
}

func TestConfirmPaymentAmountMismatch(t *testing.T) {
	db, svc, processor := newPaymentFixture(t)

	room := newTestRoom(t, db, "101", models.RoomTypeStandard, 100)
	customer := newTestCustomer(t, db)
	checkIn, checkOut := stay(3, 2)
	booking := newTestBooking(t, db, customer.ID, room.ID, models.BookingPending, checkIn, checkOut, 200)

	// processor captured less than the booking total
	processor.addCharge("pi_low", 150, "succeeded")
	_, err := svc.ConfirmPayment(booking.ID, "pi_low", 150)
	assert.ErrorIs(t, err, ErrProcessorAmountMismatch)

	// caller claims a different amount than the booking total
	processor.addCharge("pi_ok", 200, "succeeded")
	_, err = svc.ConfirmPayment(booking.ID, "pi_ok", 150)
	assert.ErrorIs(t, err, ErrProcessorAmountMismatch)

	assert.Equal(t, models.BookingPending, reloadBooking(t, db, booking.ID).Status)
	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConfirmPaymentDeclined(t *testing.T) {
	db, svc, processor := newPaymentFixture(t)

	room := newTestRoom(t, db, "101", models.RoomTypeStandard, 100)
	customer := newTestCustomer(t, db)
	checkIn, checkOut := stay(3, 2)
	booking := newTestBooking(t, db, customer.ID, room.ID, models.BookingPending, checkIn, checkOut, 200)

	processor.addCharge("pi_bad", 200, "failed")
	_, err := svc.ConfirmPayment(booking.ID, "pi_bad", 200)
	assert.ErrorIs(t, err, ErrProcessorDeclined)
	assert.Equal(t, models.BookingPending, reloadBooking(t, db, booking.ID).Status)
}

func TestConfirmPaymentProcessorUnreachable(t *testing.T) {
	db, svc, processor := newPaymentFixture(t)

	room := newTestRoom(t, db, "101", models.RoomTypeStandard, 100)
	customer := newTestCustomer(t, db)
	checkIn, checkOut := stay(3, 2)
	booking := newTestBooking(t, db, customer.ID, room.ID, models.BookingPending, checkIn, checkOut, 200)

	processor.retrieveErr = errors.New("connection refused")
	_, err := svc.ConfirmPayment(booking.ID, "pi_abc", 200)
	require.Error(t, err)

	// nothing recorded, safe to retry once the processor is back
	assert.Equal(t, models.BookingPending, reloadBooking(t, db, booking.ID).Status)
	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConfirmPaymentExpiredHold(t *testing.T) {
	db, svc, processor := newPaymentFixture(t)

	room := newTestRoom(t, db, "101", models.RoomTypeStandard, 100)
	customer := newTestCustomer(t, db)
	checkIn, checkOut := stay(3, 2)
	hold := newTestBooking(t, db, customer.ID, room.ID, models.BookingPending, checkIn, checkOut, 200)
	lapseHold(t, db, hold.ID)

	processor.addCharge("pi_abc", 200, "succeeded")
	_, err := svc.ConfirmPayment(hold.ID, "pi_abc", 200)
	assert.ErrorIs(t, err, ErrHoldExpired)
	assert.Equal(t, models.BookingExpired, reloadBooking(t, db, hold.ID).Status)
}

func TestConfirmPaymentValidation(t *testing.T) {
	_, svc, _ := newPaymentFixture(t)

	_, err := svc.ConfirmPayment(1, "", 200)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.ConfirmPayment(9999, "pi_abc", 200)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestChargeCard(t *testing.T) {
	db, svc, _ := newPaymentFixture(t)

	room := newTestRoom(t, db, "101", models.RoomTypeStandard, 100)
	customer := newTestCustomer(t, db)
	checkIn, checkOut := stay(3, 2)
	booking := newTestBooking(t, db, customer.ID, room.ID, models.BookingPending, checkIn, checkOut, 200)

	payment, err := svc.ChargeCard(booking.ID, "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, 200.0, payment.Amount)
	assert.Equal(t, models.BookingPaid, reloadBooking(t, db, booking.ID).Status)

	// paying again is answered with the stored payment, not a new charge
	again, err := svc.ChargeCard(booking.ID, "tok_visa")
	assert.ErrorIs(t, err, ErrPaymentAlreadyCompleted)
	require.NotNil(t, again)
	assert.Equal(t, payment.ID, again.ID)
}

// A charge whose confirmation fails mid-flight is retried with the same
// idempotency key, so the processor reuses the original charge and the
// card is debited once.
func TestChargeCardRetryReusesCharge(t *testing.T) {
	db, svc, processor := newPaymentFixture(t)

	room := newTestRoom(t, db, "101", models.RoomTypeStandard, 100)
	customer := newTestCustomer(t, db)
	checkIn, checkOut := stay(3, 2)
	booking := newTestBooking(t, db, customer.ID, room.ID, models.BookingPending, checkIn, checkOut, 200)

	processor.retrieveErr = errors.New("connection refused")
	_, err := svc.ChargeCard(booking.ID, "tok_visa")
	require.Error(t, err)
	assert.Equal(t, models.BookingPending, reloadBooking(t, db, booking.ID).Status)

	processor.retrieveErr = nil
	payment, err := svc.ChargeCard(booking.ID, "tok_visa")
	require.NoError(t, err)

	require.Len(t, processor.chargeKeys, 2)
	assert.Equal(t, processor.chargeKeys[0], processor.chargeKeys[1])
	assert.Equal(t, "charge-"+booking.ReferenceCode, processor.chargeKeys[0])
	assert.Equal(t, "ch_charge-"+booking.ReferenceCode, payment.ProcessorPaymentID)

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Where("booking_id = ?", booking.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestChargeCardDeclined(t *testing.T) {
	db, svc, _ := newPaymentFixture(t)

	room := newTestRoom(t, db, "101", models.RoomTypeStandard, 100)
	customer := newTestCustomer(t, db)
	checkIn, checkOut := stay(3, 2)
	booking := newTestBooking(t, db, customer.ID, room.ID, models.BookingPending, checkIn, checkOut, 200)

	_, err := svc.ChargeCard(booking.ID, "tok_declined")
	assert.ErrorIs(t, err, ErrProcessorDeclined)
	assert.Equal(t, models.BookingPending, reloadBooking(t, db, booking.ID).Status)
}

// Full desk flow: hold, pay, check in, post and settle a charge, check
// out. Every transition lands where the front desk expects it.
func TestBookingFlowEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	processor := newFakeProcessor()
	lifecycle := NewLifecycleService(db)
	holds := NewHoldService(db)
	payments := NewPaymentService(db, lifecycle, processor)
	charges := NewChargeService(db)

	room := newTestRoom(t, db, "101", models.RoomTypeStandard, 100)
	customer := newTestCustomer(t, db)

	checkIn, checkOut := stay(0, 2)
	hold, err := holds.CreateHold(customer.ID, room.ID, checkIn, checkOut, 2, 0)
	require.NoError(t, err)
	require.Equal(t, 200.0, hold.TotalPrice)

	_, err = payments.ChargeCard(hold.ID, "tok_visa")
	require.NoError(t, err)
	require.Equal(t, models.BookingPaid, reloadBooking(t, db, hold.ID).Status)

	_, err = lifecycle.CheckIn(hold.ID, CheckInInput{StaffName: "Sam Desk", AllowEarly: true})
	require.NoError(t, err)

	charge, err := charges.AddCharge(hold.ID, "minibar", 12.50)
	require.NoError(t, err)
	_, err = charges.SettleCharge(charge.ID)
	require.NoError(t, err)

	_, err = lifecycle.CheckOut(hold.ID, CheckOutInput{StaffName: "Sam Desk", KeyReturned: true})
	require.NoError(t, err)

	assert.Equal(t, models.BookingCheckedOut, reloadBooking(t, db, hold.ID).Status)
	var got models.Room
	require.NoError(t, db.First(&got, room.ID).Error)
	assert.Equal(t, models.RoomAvailable, got.Status)
}

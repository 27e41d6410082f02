package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"horizon-backend/config"
	"horizon-backend/models"
	"horizon-backend/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a per-test in-memory SQLite database and runs the
// same migrations as production. Connections are capped at one so
// concurrent transactions serialize instead of tripping SQLITE_BUSY.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func newTestRoom(t *testing.T, db *gorm.DB, number string, rtype models.RoomType, price float64) *models.Room {
	t.Helper()
	room := &models.Room{
		RoomNumber:   number,
		Type:         rtype,
		Status:       models.RoomAvailable,
		NightlyPrice: price,
		MaxOccupancy: 4,
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

func newTestCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()
	customer := &models.Customer{FullName: "Ada Guest", Email: "ada@example.com"}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// newTestBooking inserts a booking directly, bypassing the hold flow,
// for tests that need a booking in an arbitrary state.
func newTestBooking(t *testing.T, db *gorm.DB, customerID, roomID uint, status models.BookingStatus, checkIn, checkOut time.Time, total float64) *models.Booking {
	t.Helper()
	b := &models.Booking{
		CustomerID:    customerID,
		RoomID:        roomID,
		ReferenceCode: utils.NewReferenceCode(),
		Status:        status,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		TotalPrice:    total,
	}
	if status == models.BookingPending {
		exp := time.Now().UTC().Add(time.Hour)
		b.ExpiresAt = &exp
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func lapseHold(t *testing.T, db *gorm.DB, bookingID uint) {
	t.Helper()
	past := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, db.Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("expires_at", past).Error)
}

// stay returns a [checkIn, checkOut) range starting daysFromNow days
// ahead at midnight UTC.
func stay(daysFromNow, nights int) (time.Time, time.Time) {
	checkIn := time.Now().UTC().AddDate(0, 0, daysFromNow).Truncate(24 * time.Hour)
	return checkIn, checkIn.AddDate(0, 0, nights)
}

func reloadBooking(t *testing.T, db *gorm.DB, id uint) *models.Booking {
	t.Helper()
	var b models.Booking
	require.NoError(t, db.First(&b, id).Error)
	return &b
}

// fakeProcessor is the in-memory PaymentProcessor used by the tests.
// Like a real processor it dedupes on the idempotency key: a replayed
// charge or refund returns the original outcome instead of moving money
// again.
type fakeProcessor struct {
	mu sync.Mutex

	charges    map[string]ProcessorCharge
	chargeKeys []string

	refundsByKey map[string]ProcessorRefund
	refundCalls  []fakeRefundCall

	retrieveErr error
	refundErr   error

	// dropNextRefundResponse applies the next refund but fails the
	// response, simulating a timeout after the money already moved
	dropNextRefundResponse bool
}

type fakeRefundCall struct {
	PaymentRef string
	Amount     float64
	Key        string
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{
		charges:      map[string]ProcessorCharge{},
		refundsByKey: map[string]ProcessorRefund{},
	}
}

func (f *fakeProcessor) addCharge(id string, amount float64, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.charges[id] = ProcessorCharge{ID: id, Status: status, Amount: amount}
}

func (f *fakeProcessor) Charge(amount float64, currency, cardToken, idempotencyKey string) (ProcessorCharge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chargeKeys = append(f.chargeKeys, idempotencyKey)

	id := "ch_" + idempotencyKey
	if prior, ok := f.charges[id]; ok {
		return prior, nil
	}
	charge := ProcessorCharge{ID: id, Status: "succeeded", Amount: amount}
	if cardToken == "tok_declined" {
		charge.Status = "failed"
	}
	f.charges[id] = charge
	return charge, nil
}

func (f *fakeProcessor) Retrieve(id string) (ProcessorCharge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.retrieveErr != nil {
		return ProcessorCharge{}, f.retrieveErr
	}
	charge, ok := f.charges[id]
	if !ok {
		return ProcessorCharge{ID: id, Status: "failed"}, nil
	}
	return charge, nil
}

func (f *fakeProcessor) Refund(paymentRef string, amount float64, idempotencyKey string) (ProcessorRefund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refundErr != nil {
		return ProcessorRefund{}, f.refundErr
	}
	if prior, ok := f.refundsByKey[idempotencyKey]; ok {
		return prior, nil
	}

	refund := ProcessorRefund{ID: "re_" + idempotencyKey, Status: "succeeded", Amount: amount}
	f.refundsByKey[idempotencyKey] = refund
	f.refundCalls = append(f.refundCalls, fakeRefundCall{PaymentRef: paymentRef, Amount: amount, Key: idempotencyKey})

	if f.dropNextRefundResponse {
		f.dropNextRefundResponse = false
		return ProcessorRefund{}, errors.New("response timeout")
	}
	return refund, nil
}

package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"horizon-backend/config"
	"horizon-backend/controllers"
	"horizon-backend/models"
	"horizon-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubGateway is a processor that accepts every charge and refund.
type stubGateway struct{}

func (stubGateway) Charge(amount float64, currency, cardToken, idempotencyKey string) (services.ProcessorCharge, error) {
	return services.ProcessorCharge{ID: "ch_" + idempotencyKey, Status: "succeeded", Amount: amount}, nil
}

func (stubGateway) Retrieve(id string) (services.ProcessorCharge, error) {
	// charge amount is encoded in the test ids as pi_<amount>
	var amount float64
	fmt.Sscanf(id, "pi_%f", &amount)
	return services.ProcessorCharge{ID: id, Status: "succeeded", Amount: amount}, nil
}

func (stubGateway) Refund(paymentRef string, amount float64, idempotencyKey string) (services.ProcessorRefund, error) {
	return services.ProcessorRefund{ID: "re_" + idempotencyKey, Status: "succeeded", Amount: amount}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	processor := stubGateway{}
	availabilitySvc := services.NewAvailabilityService(db)
	holdSvc := services.NewHoldService(db)
	lifecycleSvc := services.NewLifecycleService(db)
	paymentSvc := services.NewPaymentService(db, lifecycleSvc, processor)
	cancellationSvc := services.NewCancellationService(db, lifecycleSvc, processor)
	chargeSvc := services.NewChargeService(db)
	roomSvc := services.NewRoomService(db)
	customerSvc := services.NewCustomerService(db)

	router := SetupRouter(
		controllers.NewAvailabilityController(availabilitySvc),
		controllers.NewBookingController(holdSvc, cancellationSvc),
		controllers.NewPaymentController(paymentSvc),
		controllers.NewFrontDeskController(lifecycleSvc),
		controllers.NewChargeController(chargeSvc),
		controllers.NewRoomController(roomSvc),
		controllers.NewCustomerController(customerSvc),
	)
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedRoomAndCustomer(t *testing.T, db *gorm.DB) (*models.Room, *models.Customer) {
	t.Helper()
	room := &models.Room{RoomNumber: "101", Type: models.RoomTypeStandard, Status: models.RoomAvailable, NightlyPrice: 100, MaxOccupancy: 4}
	require.NoError(t, db.Create(room).Error)
	customer := &models.Customer{FullName: "Ada Guest", Email: "ada@example.com"}
	require.NoError(t, db.Create(customer).Error)
	return room, customer
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	router, db := newTestRouter(t)
	seedRoomAndCustomer(t, db)

	rec := doJSON(t, router, http.MethodGet, "/api/availability?roomType=STANDARD&checkIn=2026-10-01&checkOut=2026-10-03", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data []models.Room `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "101", resp.Data[0].RoomNumber)

	// swapped dates
	rec = doJSON(t, router, http.MethodGet, "/api/availability?roomType=STANDARD&checkIn=2026-10-03&checkOut=2026-10-01", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHoldAndCancelOverHTTP(t *testing.T) {
	router, db := newTestRouter(t)
	room, customer := seedRoomAndCustomer(t, db)

	rec := doJSON(t, router, http.MethodPost, "/api/bookings/hold", gin.H{
		"customer_id": customer.ID,
		"room_id":     room.ID,
		"check_in":    "2026-10-01",
		"check_out":   "2026-10-03",
		"guests":      2,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.Data.ID)
	assert.Equal(t, models.BookingPending, created.Data.Status)

	// the same room for the same dates is now taken
	rec = doJSON(t, router, http.MethodPost, "/api/bookings/hold", gin.H{
		"customer_id": customer.ID,
		"room_id":     room.ID,
		"check_in":    "2026-10-02",
		"check_out":   "2026-10-04",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	path := fmt.Sprintf("/api/bookings/%d/cancellation-quote", created.Data.ID)
	rec = doJSON(t, router, http.MethodGet, path, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	path = fmt.Sprintf("/api/bookings/%d/cancel", created.Data.ID)
	rec = doJSON(t, router, http.MethodPost, path, gin.H{"reason": "test"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var after models.Booking
	require.NoError(t, db.First(&after, created.Data.ID).Error)
	assert.Equal(t, models.BookingCancelled, after.Status)
}

// A webhook delivered twice records one payment and answers the replay
// with already_completed instead of an error.
func TestPaymentWebhookReplayOverHTTP(t *testing.T) {
	router, db := newTestRouter(t)
	room, customer := seedRoomAndCustomer(t, db)

	rec := doJSON(t, router, http.MethodPost, "/api/bookings/hold", gin.H{
		"customer_id": customer.ID,
		"room_id":     room.ID,
		"check_in":    "2026-10-01",
		"check_out":   "2026-10-03",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	payload := gin.H{
		"booking_id":           created.Data.ID,
		"processor_payment_id": "pi_200.00",
		"amount":               200,
	}

	rec = doJSON(t, router, http.MethodPost, "/api/payments/webhook", payload, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/payments/webhook", payload, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "already_completed")

	var payments int64
	require.NoError(t, db.Model(&models.Payment{}).Where("booking_id = ?", created.Data.ID).Count(&payments).Error)
	assert.EqualValues(t, 1, payments)

	// the same processor id against another booking is a conflict
	other := models.Booking{
		CustomerID:    customer.ID,
		RoomID:        room.ID,
		ReferenceCode: "BK-TESTREF1",
		Status:        models.BookingConfirmed,
		CheckInDate:   created.Data.CheckOutDate,
		CheckOutDate:  created.Data.CheckOutDate.AddDate(0, 0, 2),
		TotalPrice:    200,
	}
	require.NoError(t, db.Create(&other).Error)

	payload["booking_id"] = other.ID
	rec = doJSON(t, router, http.MethodPost, "/api/payments/webhook", payload, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestStaffRoutesRequireRole(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/bookings", nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/bookings", nil, map[string]string{"X-Acting-Role": "frontdesk"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// room mutations are admin-only
	rec = doJSON(t, router, http.MethodPost, "/api/rooms", gin.H{
		"roomNumber": "102", "type": "STANDARD", "nightlyPrice": 100,
	}, map[string]string{"X-Acting-Role": "frontdesk"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/rooms", gin.H{
		"roomNumber": "102", "type": "STANDARD", "nightlyPrice": 100,
	}, map[string]string{"X-Acting-Role": "admin"})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

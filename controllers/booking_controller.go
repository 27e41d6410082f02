// controllers/booking_controller.go
package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"horizon-backend/services"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateHoldPayload struct {
	CustomerID      uint    `json:"customer_id" binding:"required"`
	RoomID          uint    `json:"room_id" binding:"required"`
	CheckIn         string  `json:"check_in" binding:"required"`
	CheckOut        string  `json:"check_out" binding:"required"`
	Guests          int     `json:"guests"`
	DiscountPercent float64 `json:"discount_percent"`
}

type CancelBookingPayload struct {
	Reason string `json:"reason"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	HoldSvc         *services.HoldService
	CancellationSvc *services.CancellationService
}

func NewBookingController(holdSvc *services.HoldService, cancelSvc *services.CancellationService) *BookingController {
	return &BookingController{HoldSvc: holdSvc, CancellationSvc: cancelSvc}
}

func bookingIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	parsed, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || parsed == 0 {
		respondError(c, http.StatusBadRequest, "error.invalidBookingId", "booking id must be numeric")
		return 0, false
	}
	return uint(parsed), true
}

func parseStayDate(raw string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// CreateHold handles POST /api/bookings/hold: a provisional PENDING
// booking that reserves the room until its expiry.
func (ctrl *BookingController) CreateHold(c *gin.Context) {
	var payload CreateHoldPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("CreateHold bind error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "error.invalidPayload",
				"message": "customer_id, room_id, check_in and check_out are required",
				"details": err.Error(),
			},
		})
		return
	}

	checkIn, ok := parseStayDate(payload.CheckIn)
	if !ok {
		respondError(c, http.StatusBadRequest, "error.invalidPayload", "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, ok := parseStayDate(payload.CheckOut)
	if !ok {
		respondError(c, http.StatusBadRequest, "error.invalidPayload", "check_out must be YYYY-MM-DD")
		return
	}

	booking, err := ctrl.HoldSvc.CreateHold(
		payload.CustomerID,
		payload.RoomID,
		checkIn,
		checkOut,
		payload.Guests,
		payload.DiscountPercent,
	)
	if err != nil {
		log.Printf("CreateHold error (room %d): %v", payload.RoomID, err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   booking,
	})
}

// GetBookings handles GET /api/bookings (staff listing, lapsed holds
// swept first).
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	bookings, err := ctrl.HoldSvc.ListBookings()
	if err != nil {
		log.Printf("GetBookings error: %v", err)
		respondError(c, http.StatusInternalServerError, "error.fetchBookings", "could not retrieve bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBookingDetails handles GET /api/bookings/:id. Reading a lapsed
// PENDING hold persists its EXPIRED transition before responding.
func (ctrl *BookingController) GetBookingDetails(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	booking, err := ctrl.HoldSvc.GetBooking(id)
	if err != nil {
		log.Printf("GetBookingDetails error (booking %d): %v", id, err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   booking,
	})
}

// CancellationQuote handles GET /api/bookings/:id/cancellation-quote —
// the authoritative penalty/refund breakdown, no mutation.
func (ctrl *BookingController) CancellationQuote(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	quote, err := ctrl.CancellationSvc.QuotePenalty(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   quote,
	})
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var payload CancelBookingPayload
	_ = c.ShouldBindJSON(&payload) // reason is optional

	requestedBy := c.GetHeader("X-Acting-Role")
	if requestedBy == "" {
		requestedBy = "guest"
	}

	result, err := ctrl.CancellationSvc.Cancel(id, requestedBy, payload.Reason)
	if err != nil {
		log.Printf("CancelBooking error (booking %d): %v", id, err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   result,
	})
}

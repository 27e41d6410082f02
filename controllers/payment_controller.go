// controllers/payment_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"horizon-backend/services"

	"github.com/gin-gonic/gin"
)

type PayBookingPayload struct {
	CardToken string `json:"card_token" binding:"required"`
}

type PaymentWebhookPayload struct {
	BookingID          uint    `json:"booking_id" binding:"required"`
	ProcessorPaymentID string  `json:"processor_payment_id" binding:"required"`
	Amount             float64 `json:"amount" binding:"required"`
}

type PaymentController struct {
	PaymentSvc *services.PaymentService
}

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{PaymentSvc: svc}
}

// PayBooking handles POST /api/bookings/:id/pay — charges the card token
// for the booking total and confirms the payment.
func (ctrl *PaymentController) PayBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var payload PayBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "error.invalidPayload", "card_token is required")
		return
	}

	payment, err := ctrl.PaymentSvc.ChargeCard(id, payload.CardToken)
	if err != nil {
		if errors.Is(err, services.ErrPaymentAlreadyCompleted) {
			// not an error from the caller's point of view: the booking
			// is paid, repeating the request changes nothing
			c.JSON(http.StatusOK, gin.H{
				"status": "already_completed",
				"data":   payment,
			})
			return
		}
		log.Printf("PayBooking error (booking %d): %v", id, err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   payment,
	})
}

// Webhook handles POST /api/payments/webhook — the processor's
// asynchronous confirmation. Duplicate deliveries are answered with the
// already-recorded payment so the processor stops retrying.
func (ctrl *PaymentController) Webhook(c *gin.Context) {
	var payload PaymentWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "error.invalidPayload", "booking_id, processor_payment_id and amount are required")
		return
	}

	payment, err := ctrl.PaymentSvc.ConfirmPayment(payload.BookingID, payload.ProcessorPaymentID, payload.Amount)
	if err != nil {
		if errors.Is(err, services.ErrPaymentAlreadyCompleted) {
			c.JSON(http.StatusOK, gin.H{
				"status": "already_completed",
				"data":   payment,
			})
			return
		}
		log.Printf("payment webhook error (booking %d, processor id %s): %v",
			payload.BookingID, payload.ProcessorPaymentID, err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   payment,
	})
}

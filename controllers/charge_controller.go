// controllers/charge_controller.go
package controllers

import (
	"log"
	"net/http"
	"strconv"

	"horizon-backend/services"

	"github.com/gin-gonic/gin"
)

type AddChargePayload struct {
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
}

type ChargeController struct {
	ChargeSvc *services.ChargeService
}

func NewChargeController(svc *services.ChargeService) *ChargeController {
	return &ChargeController{ChargeSvc: svc}
}

func chargeIDParam(c *gin.Context) (uint, bool) {
	parsed, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || parsed == 0 {
		respondError(c, http.StatusBadRequest, "error.invalidChargeId", "charge id must be numeric")
		return 0, false
	}
	return uint(parsed), true
}

// AddCharge handles POST /api/bookings/:id/charges.
func (ctrl *ChargeController) AddCharge(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var payload AddChargePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "error.invalidPayload", "description and amount are required")
		return
	}

	charge, err := ctrl.ChargeSvc.AddCharge(bookingID, payload.Description, payload.Amount)
	if err != nil {
		log.Printf("AddCharge error (booking %d): %v", bookingID, err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   charge,
	})
}

// ListCharges handles GET /api/bookings/:id/charges.
func (ctrl *ChargeController) ListCharges(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}

	charges, err := ctrl.ChargeSvc.ListCharges(bookingID)
	if err != nil {
		log.Printf("ListCharges error (booking %d): %v", bookingID, err)
		respondError(c, http.StatusInternalServerError, "error.fetchCharges", "could not retrieve charges")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   charges,
	})
}

// DisputeCharge handles POST /api/charges/:id/dispute.
func (ctrl *ChargeController) DisputeCharge(c *gin.Context) {
	id, ok := chargeIDParam(c)
	if !ok {
		return
	}

	charge, err := ctrl.ChargeSvc.DisputeCharge(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   charge,
	})
}

// SettleCharge handles POST /api/charges/:id/settle.
func (ctrl *ChargeController) SettleCharge(c *gin.Context) {
	id, ok := chargeIDParam(c)
	if !ok {
		return
	}

	charge, err := ctrl.ChargeSvc.SettleCharge(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   charge,
	})
}

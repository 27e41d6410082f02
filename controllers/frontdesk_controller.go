// controllers/frontdesk_controller.go
package controllers

import (
	"log"
	"net/http"

	"horizon-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type CheckInPayload struct {
	StaffName      string         `json:"staff_name" binding:"required"`
	IDVerification datatypes.JSON `json:"id_verification,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	AllowEarly     bool           `json:"allow_early,omitempty"`
}

type CheckOutPayload struct {
	StaffName   string `json:"staff_name" binding:"required"`
	KeyReturned *bool  `json:"key_returned" binding:"required"`
	Feedback    string `json:"feedback,omitempty"`
}

// FrontDeskController drives the staff-side lifecycle transitions.
type FrontDeskController struct {
	LifecycleSvc *services.LifecycleService
}

func NewFrontDeskController(svc *services.LifecycleService) *FrontDeskController {
	return &FrontDeskController{LifecycleSvc: svc}
}

// CheckIn handles POST /api/bookings/:id/checkin.
func (ctrl *FrontDeskController) CheckIn(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var payload CheckInPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "error.invalidPayload", "staff_name is required")
		return
	}

	details, err := ctrl.LifecycleSvc.CheckIn(id, services.CheckInInput{
		StaffName:      payload.StaffName,
		IDVerification: payload.IDVerification,
		Notes:          payload.Notes,
		AllowEarly:     payload.AllowEarly,
	})
	if err != nil {
		log.Printf("CheckIn error (booking %d): %v", id, err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   details,
	})
}

// CheckOut handles POST /api/bookings/:id/checkout.
func (ctrl *FrontDeskController) CheckOut(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var payload CheckOutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "error.invalidPayload", "staff_name and key_returned are required")
		return
	}

	details, err := ctrl.LifecycleSvc.CheckOut(id, services.CheckOutInput{
		StaffName:   payload.StaffName,
		KeyReturned: *payload.KeyReturned,
		Feedback:    payload.Feedback,
	})
	if err != nil {
		log.Printf("CheckOut error (booking %d): %v", id, err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   details,
	})
}

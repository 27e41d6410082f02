// controllers/availability_controller.go
package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"horizon-backend/models"
	"horizon-backend/services"

	"github.com/gin-gonic/gin"
)

type AvailabilityController struct {
	AvailabilitySvc *services.AvailabilityService
}

func NewAvailabilityController(svc *services.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{AvailabilitySvc: svc}
}

// Search handles GET /api/availability?roomType=&checkIn=&checkOut=&count=
// Dates are ISO-8601 calendar dates (2006-01-02).
func (ctrl *AvailabilityController) Search(c *gin.Context) {
	roomType := models.RoomType(c.Query("roomType"))

	checkIn, err := time.Parse("2006-01-02", c.Query("checkIn"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "error.invalidPayload", "checkIn must be YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse("2006-01-02", c.Query("checkOut"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "error.invalidPayload", "checkOut must be YYYY-MM-DD")
		return
	}

	count := 1
	if raw := c.Query("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			count = n
		}
	}

	rooms, err := ctrl.AvailabilitySvc.FindAvailable(roomType, checkIn.UTC(), checkOut.UTC(), count)
	if err != nil {
		log.Printf("availability search error: %v", err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   rooms,
	})
}

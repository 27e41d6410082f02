// controllers/errors.go
package controllers

import (
	"errors"
	"net/http"

	"horizon-backend/services"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps the service sentinels onto stable API error
// codes. Conflicts are expected, named outcomes ("please refresh and
// retry"); processor failures tell the caller whether retrying can help.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidDateRange):
		respondError(c, http.StatusBadRequest, "error.invalidDateRange", "check-out must be after check-in")
	case errors.Is(err, services.ErrInvalidRoomType):
		respondError(c, http.StatusBadRequest, "error.invalidRoomType", "unknown room type")
	case errors.Is(err, services.ErrInvalidAmount):
		respondError(c, http.StatusBadRequest, "error.invalidInput", err.Error())
	case errors.Is(err, services.ErrTooManyGuests):
		respondError(c, http.StatusBadRequest, "error.tooManyGuests", "guest count exceeds room capacity")

	case errors.Is(err, services.ErrBookingNotFound):
		respondError(c, http.StatusNotFound, "error.bookingNotFound", "booking not found")
	case errors.Is(err, services.ErrRoomNotFound):
		respondError(c, http.StatusNotFound, "error.roomNotFound", "room not found")
	case errors.Is(err, services.ErrChargeNotFound):
		respondError(c, http.StatusNotFound, "error.chargeNotFound", "charge not found")
	case errors.Is(err, services.ErrCustomerNotFound):
		respondError(c, http.StatusNotFound, "error.customerNotFound", "customer not found")

	case errors.Is(err, services.ErrRoomUnavailable):
		respondError(c, http.StatusConflict, "error.roomUnavailable", "dates no longer available, please search again")
	case errors.Is(err, services.ErrHoldExpired):
		respondError(c, http.StatusConflict, "error.holdExpired", "this hold has expired, please book again")
	case errors.Is(err, services.ErrInvalidTransition):
		respondError(c, http.StatusConflict, "error.invalidTransition", "booking is no longer in the expected state, please refresh")
	case errors.Is(err, services.ErrUnsettledCharges):
		respondError(c, http.StatusConflict, "error.unsettledCharges", "all charges must be settled or disputed before checkout")
	case errors.Is(err, services.ErrNotEligibleCancel):
		respondError(c, http.StatusConflict, "error.notCancellable", "booking can no longer be cancelled")
	case errors.Is(err, services.ErrCheckInNotReached):
		respondError(c, http.StatusConflict, "error.checkInNotReached", "check-in date has not arrived (staff override required)")
	case errors.Is(err, services.ErrRoomHasBookings):
		respondError(c, http.StatusConflict, "error.roomHasBookings", "room still has active bookings")
	case errors.Is(err, services.ErrChargeNotCheckedIn):
		respondError(c, http.StatusConflict, "error.notCheckedIn", "charges can only be posted to a checked-in stay")
	case errors.Is(err, services.ErrDuplicateProcessorID):
		respondError(c, http.StatusConflict, "error.duplicatePaymentId", "this processor payment id was already recorded")

	case errors.Is(err, services.ErrProcessorDeclined), errors.Is(err, services.ErrProcessorAmountMismatch):
		respondError(c, http.StatusPaymentRequired, "error.paymentNotConfirmed", "payment could not be confirmed, please try again")
	case errors.Is(err, services.ErrProcessorUnavailable):
		respondError(c, http.StatusBadGateway, "error.processorUnavailable", "payment processor unreachable, please retry")

	default:
		respondError(c, http.StatusInternalServerError, "error.internal", "internal error")
	}
}

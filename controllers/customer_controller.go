package controllers

import (
	"log"
	"net/http"
	"strconv"

	"horizon-backend/models"
	"horizon-backend/services"

	"github.com/gin-gonic/gin"
)

type CustomerController struct {
	CustomerSvc *services.CustomerService
}

func NewCustomerController(svc *services.CustomerService) *CustomerController {
	return &CustomerController{CustomerSvc: svc}
}

// CreateCustomer (POST /api/customers) — guests register before holding
// a room.
func (ctrl *CustomerController) CreateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		respondError(c, http.StatusBadRequest, "error.invalidPayload", "invalid customer payload")
		return
	}

	if err := ctrl.CustomerSvc.Create(&customer); err != nil {
		log.Printf("CreateCustomer error: %v", err)
		respondError(c, http.StatusInternalServerError, "error.createCustomer", "failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomer (GET /api/customers/:id)
func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	parsed, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || parsed == 0 {
		respondError(c, http.StatusBadRequest, "error.invalidCustomerId", "customer id must be numeric")
		return
	}

	customer, svcErr := ctrl.CustomerSvc.GetByID(uint(parsed))
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, customer)
}

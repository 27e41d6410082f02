package services

import (
	"errors"

	"horizon-backend/models"

	"gorm.io/gorm"
)

type CustomerService struct {
	DB *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{DB: db}
}

// Create takes a pointer so GORM fills in the generated ID.
func (s *CustomerService) Create(customer *models.Customer) error {
	return s.DB.Create(customer).Error
}

func (s *CustomerService) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.DB.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// models/customer.go
package models

import (
	"gorm.io/gorm"
)

type Customer struct {
	gorm.Model

	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty" gorm:"type:varchar(32)"`
}

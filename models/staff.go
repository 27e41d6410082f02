package models

import (
	"time"

	"gorm.io/gorm"
)

// ActingRole is the capability the caller presents on staff endpoints.
// The core does not derive roles from session state; the API layer passes
// the role in and the middleware checks it.
type ActingRole string

const (
	RoleGuest     ActingRole = "guest"
	RoleFrontDesk ActingRole = "frontdesk"
	RoleAdmin     ActingRole = "admin"
)

type Staff struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FullName  string         `gorm:"size:255" json:"full_name"`
	Username  string         `gorm:"uniqueIndex;size:150" json:"username"`
	Password  string         `gorm:"size:255" json:"-"` // store hashed password, never return in JSON
	Role      ActingRole     `gorm:"size:32" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

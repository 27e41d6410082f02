package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomType string

const (
	RoomTypeStandard     RoomType = "STANDARD"
	RoomTypeDeluxe       RoomType = "DELUXE"
	RoomTypeSuite        RoomType = "SUITE"
	RoomTypeExecutive    RoomType = "EXECUTIVE"
	RoomTypePresidential RoomType = "PRESIDENTIAL"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite, RoomTypeExecutive, RoomTypePresidential:
		return true
	}
	return false
}

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "AVAILABLE"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomMaintenance RoomStatus = "MAINTENANCE"
	RoomUnavailable RoomStatus = "UNAVAILABLE"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomUnavailable:
		return true
	}
	return false
}

type Room struct {
	gorm.Model

	RoomNumber string     `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	Type       RoomType   `json:"type" gorm:"column:type;size:32;index"`
	Status     RoomStatus `json:"status" gorm:"column:status;size:32;default:'AVAILABLE'"`

	Floor        string  `json:"floor" gorm:"type:varchar(10)"`
	NightlyPrice float64 `json:"nightlyPrice" gorm:"column:nightly_price;type:decimal(10,2)"`
	MaxOccupancy int     `json:"maxOccupancy" gorm:"column:max_occupancy"`
	Description  string  `json:"description" gorm:"type:text"`

	Amenities datatypes.JSON `json:"amenities,omitempty" gorm:"column:amenities"`
	Images    datatypes.JSON `json:"images,omitempty" gorm:"column:images"`
}

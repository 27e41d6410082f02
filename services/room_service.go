// services/room_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"horizon-backend/models"

	"gorm.io/gorm"
)

// RoomService is the admin-facing room inventory CRUD.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) Create(room *models.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return fmt.Errorf("%w: room number required", ErrInvalidAmount)
	}
	if !room.Type.Valid() {
		return ErrInvalidRoomType
	}
	if room.NightlyPrice < 0 {
		return fmt.Errorf("%w: nightly price cannot be negative", ErrInvalidAmount)
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	if err := s.DB.Create(room).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: room number %s taken", ErrRoomUnavailable, room.RoomNumber)
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (s *RoomService) GetAll() ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Order("room_number ASC").Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) GetByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) Update(room *models.Room) error {
	if room.Type != "" && !room.Type.Valid() {
		return ErrInvalidRoomType
	}
	if room.Status != "" && !room.Status.Valid() {
		return fmt.Errorf("%w: bad room status %q", ErrInvalidAmount, room.Status)
	}
	return s.DB.Model(&models.Room{}).Where("id = ?", room.ID).Updates(room).Error
}

// Delete removes a room, refusing while any non-cancelled, non-expired
// booking still references it.
func (s *RoomService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		var active int64
		if err := tx.Model(&models.Booking{}).
			Where("room_id = ? AND status NOT IN ?", id,
				[]models.BookingStatus{models.BookingCancelled, models.BookingExpired, models.BookingCheckedOut}).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to count bookings for room %d: %w", id, err)
		}
		if active > 0 {
			return ErrRoomHasBookings
		}

		return tx.Delete(&room).Error
	})
}

// services/availability_service.go
package services

import (
	"time"

	"horizon-backend/models"

	"gorm.io/gorm"
)

// AvailabilityService answers "which rooms are free for these dates".
// It is read-only: it never mutates bookings or rooms, so repeated calls
// with unchanged data return the same rooms in the same order.
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// blockingOverlapCondition matches bookings that hold inventory for a
// room over the half-open range [checkIn, checkOut): confirmed-or-later
// stays always block, PENDING holds block only until their expiry. Two
// ranges overlap iff existing.checkIn < requested.checkOut AND
// existing.checkOut > requested.checkIn, so a checkout on the same day
// as a new check-in does not collide.
const blockingOverlapCondition = `
bookings.deleted_at IS NULL
AND bookings.check_in_date < ? AND bookings.check_out_date > ?
AND (
	bookings.status IN ('CONFIRMED', 'PAID', 'CHECKED_IN')
	OR (bookings.status = 'PENDING' AND bookings.expires_at > ?)
)`

// FindAvailable returns up to count rooms of the requested type with no
// overlapping blocking booking, ordered by room number for a stable,
// deterministic result.
func (s *AvailabilityService) FindAvailable(roomType models.RoomType, checkIn, checkOut time.Time, count int) ([]models.Room, error) {
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}
	if !roomType.Valid() {
		return nil, ErrInvalidRoomType
	}
	if count <= 0 {
		count = 1
	}

	now := time.Now().UTC()

	var rooms []models.Room
	err := s.DB.
		Where("type = ? AND status = ?", roomType, models.RoomAvailable).
		Where(`NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE bookings.room_id = rooms.id
			AND `+blockingOverlapCondition+`
		)`, checkOut, checkIn, now).
		Order("room_number ASC").
		Limit(count).
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// countBlockingBookings is the same overlap predicate scoped to one room,
// run inside the caller's transaction so the hold insert and the check
// see one consistent snapshot.
func countBlockingBookings(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, now time.Time) (int64, error) {
	var n int64
	err := tx.Model(&models.Booking{}).
		Where("bookings.room_id = ?", roomID).
		Where(blockingOverlapCondition, checkOut, checkIn, now).
		Count(&n).Error
	return n, err
}

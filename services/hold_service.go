// services/hold_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"horizon-backend/models"
	"horizon-backend/utils"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HoldService creates time-boxed provisional reservations. A hold counts
// against availability the moment it is inserted, so the room cannot be
// double-booked while the guest is in the payment flow, and lapses on its
// own once expires_at passes.
type HoldService struct {
	DB *gorm.DB
}

func NewHoldService(db *gorm.DB) *HoldService {
	return &HoldService{DB: db}
}

func holdTTL() time.Duration {
	minutes := utils.EnvIntOrDefault("HOLD_TTL_MINUTES", 60)
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

// isUniqueViolation matches duplicate-key failures. MySQL errors carry
// code 1062; the string fallback covers the sqlite test dialect.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") || strings.Contains(lc, "constraint")
}

// CreateHold reserves roomID for [checkIn, checkOut) as a PENDING booking
// expiring after the hold TTL. The availability predicate is re-run inside
// the same transaction that inserts the row, with the room row locked, so
// two simultaneous holds for the last room cannot both succeed: the loser
// gets ErrRoomUnavailable.
func (s *HoldService) CreateHold(customerID, roomID uint, checkIn, checkOut time.Time, guests int, discountPercent float64) (*models.Booking, error) {
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}
	if guests <= 0 {
		guests = 1
	}
	if discountPercent < 0 || discountPercent >= 100 {
		return nil, ErrInvalidAmount
	}

	now := time.Now().UTC()
	var booking models.Booking

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("db error checking room %d: %w", roomID, err)
		}

		if room.Status != models.RoomAvailable {
			return ErrRoomUnavailable
		}
		if room.MaxOccupancy > 0 && guests > room.MaxOccupancy {
			return ErrTooManyGuests
		}

		var cust models.Customer
		if err := tx.First(&cust, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("db error checking customer %d: %w", customerID, err)
		}

		blocking, err := countBlockingBookings(tx, roomID, checkIn, checkOut, now)
		if err != nil {
			return fmt.Errorf("db error checking overlap for room %d: %w", roomID, err)
		}
		if blocking > 0 {
			return ErrRoomUnavailable
		}

		nights := int(checkOut.Sub(checkIn).Hours() / 24)
		if nights <= 0 {
			nights = 1
		}
		total := utils.RoundMoney(float64(nights) * room.NightlyPrice * (1 - discountPercent/100))
		expiresAt := now.Add(holdTTL())

		booking = models.Booking{
			CustomerID:      customerID,
			RoomID:          roomID,
			Status:          models.BookingPending,
			CheckInDate:     checkIn,
			CheckOutDate:    checkOut,
			NumberOfGuests:  guests,
			TotalPrice:      total,
			DiscountPercent: discountPercent,
			ExpiresAt:       &expiresAt,
		}

		// retry reference-code collisions, the index stays authoritative
		maxRetries := 5
		var createErr error
		for attempt := 0; attempt < maxRetries; attempt++ {
			booking.ID = 0
			booking.ReferenceCode = utils.NewReferenceCode()
			createErr = tx.Create(&booking).Error
			if createErr == nil {
				break
			}
			if isUniqueViolation(createErr) {
				log.Printf("create booking collision (attempt %d) - retrying", attempt+1)
				continue
			}
			return fmt.Errorf("failed to create booking: %w", createErr)
		}
		if createErr != nil {
			return fmt.Errorf("failed to create booking after retries: %w", createErr)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.DB.Preload("Room").Preload("Customer").First(&booking, booking.ID).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// expireIfLapsed persists the lazy PENDING -> EXPIRED transition at the
// point of read. Any path that loads a booking before acting on it must
// call this so a lapsed hold is never treated as live inventory.
func expireIfLapsed(tx *gorm.DB, b *models.Booking, now time.Time) error {
	if !b.HoldLapsed(now) {
		return nil
	}
	if err := tx.Model(b).Update("status", models.BookingExpired).Error; err != nil {
		return fmt.Errorf("failed to expire lapsed hold %d: %w", b.ID, err)
	}
	b.Status = models.BookingExpired
	return nil
}

// ExpireLapsedHolds flips every lapsed PENDING hold to EXPIRED in one
// statement. Lazy expiry is authoritative; this sweep is hygiene so the
// admin booking list doesn't show stale holds.
func (s *HoldService) ExpireLapsedHolds() (int64, error) {
	now := time.Now().UTC()
	res := s.DB.Model(&models.Booking{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", models.BookingPending, now).
		Update("status", models.BookingExpired)
	return res.RowsAffected, res.Error
}

// GetBooking loads a booking with relations, applying lazy expiry first.
func (s *HoldService) GetBooking(bookingID uint) (*models.Booking, error) {
	var b models.Booking
	if err := s.DB.Preload("Room").Preload("Customer").First(&b, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	if err := expireIfLapsed(s.DB, &b, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBookings returns bookings newest first, sweeping lapsed holds so
// the listing reflects real inventory state.
func (s *HoldService) ListBookings() ([]models.Booking, error) {
	if _, err := s.ExpireLapsedHolds(); err != nil {
		return nil, err
	}
	var list []models.Booking
	if err := s.DB.
		Preload("Room").
		Preload("Customer").
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}

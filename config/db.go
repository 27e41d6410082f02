package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"horizon-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// SeedDatabase provisions the minimum a fresh install needs: a staff
// account per role and a starter room per type. All blocks are no-ops
// when data already exists.
func SeedDatabase() {
	// ---------------- Staff ----------------
	var staffCount int64
	DB.Model(&models.Staff{}).Count(&staffCount)
	if staffCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default staff password: %v", err)
		} else {
			staff := []models.Staff{
				{FullName: "Admin User", Username: "admin@horizon.local", Password: string(hash), Role: models.RoleAdmin},
				{FullName: "Front Desk", Username: "frontdesk@horizon.local", Password: string(hash), Role: models.RoleFrontDesk},
			}
			if err := DB.Create(&staff).Error; err != nil {
				log.Printf("warning: failed to create default staff: %v", err)
			} else {
				log.Println("Default staff seeded")
			}
		}
	}

	// ---------------- Rooms ----------------
	var roomCount int64
	DB.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		rooms := []models.Room{
			{RoomNumber: "101", Type: models.RoomTypeStandard, Status: models.RoomAvailable, Floor: "1", NightlyPrice: 100, MaxOccupancy: 2},
			{RoomNumber: "102", Type: models.RoomTypeStandard, Status: models.RoomAvailable, Floor: "1", NightlyPrice: 100, MaxOccupancy: 2},
			{RoomNumber: "201", Type: models.RoomTypeDeluxe, Status: models.RoomAvailable, Floor: "2", NightlyPrice: 180, MaxOccupancy: 3},
			{RoomNumber: "301", Type: models.RoomTypeSuite, Status: models.RoomAvailable, Floor: "3", NightlyPrice: 320, MaxOccupancy: 4},
			{RoomNumber: "401", Type: models.RoomTypeExecutive, Status: models.RoomAvailable, Floor: "4", NightlyPrice: 520, MaxOccupancy: 4},
			{RoomNumber: "501", Type: models.RoomTypePresidential, Status: models.RoomAvailable, Floor: "5", NightlyPrice: 1200, MaxOccupancy: 6},
		}
		if err := DB.Create(&rooms).Error; err != nil {
			log.Printf("warning: failed to seed rooms: %v", err)
		} else {
			log.Println("Rooms seeded")
		}
	}
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "horizon_db")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	)
	return dsn, nil
}

// Migrate runs AutoMigrate in parent->child order against any gorm DB.
// Shared with the test setup, which runs it on sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Staff{},
		&models.Customer{},
		&models.Room{},
		&models.Booking{},
		&models.Payment{},
		&models.Refund{},
		&models.CheckInDetails{},
		&models.CheckOutDetails{},
		&models.Charge{},
	)
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := Migrate(DB); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}

package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"horizon-backend/controllers"
	"horizon-backend/middleware"
	"horizon-backend/models"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controller instances into the route table.
func SetupRouter(
	ac *controllers.AvailabilityController,
	bc *controllers.BookingController,
	pc *controllers.PaymentController,
	fc *controllers.FrontDeskController,
	cc *controllers.ChargeController,
	rc *controllers.RoomController,
	ctc *controllers.CustomerController,
) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Acting-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	staff := middleware.RequireRole(models.RoleFrontDesk, models.RoleAdmin)
	admin := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/availability", ac.Search)

		bookings := api.Group("/bookings")
		{
			bookings.POST("/hold", bc.CreateHold)
			bookings.GET("", staff, bc.GetBookings)
			bookings.GET("/:id", bc.GetBookingDetails)

			bookings.POST("/:id/pay", pc.PayBooking)

			bookings.GET("/:id/cancellation-quote", bc.CancellationQuote)
			bookings.POST("/:id/cancel", bc.CancelBooking)

			bookings.POST("/:id/checkin", staff, fc.CheckIn)
			bookings.POST("/:id/checkout", staff, fc.CheckOut)

			bookings.POST("/:id/charges", staff, cc.AddCharge)
			bookings.GET("/:id/charges", cc.ListCharges)
		}

		charges := api.Group("/charges")
		{
			charges.POST("/:id/dispute", cc.DisputeCharge)
			charges.POST("/:id/settle", staff, cc.SettleCharge)
		}

		payments := api.Group("/payments")
		{
			payments.POST("/webhook", pc.Webhook)
		}

		customers := api.Group("/customers")
		{
			customers.POST("", ctc.CreateCustomer)
			customers.GET("/:id", staff, ctc.GetCustomer)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)
			rooms.GET("/:id", rc.GetRoom)
			rooms.POST("", admin, rc.CreateRoom)
			rooms.PATCH("/:id", admin, rc.UpdateRoom)
			rooms.PUT("/:id", admin, rc.UpdateRoom)
			rooms.DELETE("/:id", admin, rc.DeleteRoom)
		}
	}

	return r
}

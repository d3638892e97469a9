package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/konvff/taxi-api/internal/container"
	"github.com/konvff/taxi-api/internal/handlers"
	"github.com/konvff/taxi-api/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "taxi-api",
			})
		})

		// public routes
		v1.POST("/register", handlers.Register(container.AuthService))
		v1.POST("/login", handlers.Login(container.AuthService))
		v1.POST("/forgot-password", handlers.ForgotPassword(container.AuthService))
		v1.POST("/reset-password", handlers.ResetPassword(container.AuthService))

		// Admin live feed; the JWT travels in the token query parameter.
		v1.GET("/ws/admin-feed", func(c *gin.Context) {
			container.Hub.ServeWS(c.Writer, c.Request)
		})
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Logger))

	protected.POST("/logout", handlers.Logout())
	protected.POST("/upload", handlers.UploadImage(container.Cloudinary))

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("/", handlers.CreateBooking(container.BookingService))
		bookingRoutes.GET("/", handlers.ListBookings(container.BookingService))
		bookingRoutes.GET("/by-date", handlers.BookingsByDate(container.BookingService))
		bookingRoutes.GET("/:id", handlers.ShowBooking(container.BookingService))
		bookingRoutes.PUT("/:id", handlers.UpdateBooking(container.BookingService))
		bookingRoutes.DELETE("/:id", handlers.DeleteBooking(container.BookingService))
		bookingRoutes.POST("/:id/restore", handlers.RestoreBooking(container.BookingService))
		bookingRoutes.DELETE("/:id/force", handlers.ForceDeleteBooking(container.BookingService))
		bookingRoutes.PATCH("/:id/status", handlers.UpdateBookingStatus(container.BookingService))
		bookingRoutes.PATCH("/:id/assign-driver", handlers.AssignDriver(container.BookingService))
		bookingRoutes.PATCH("/:id/assign-customer", handlers.AssignCustomer(container.BookingService))
		bookingRoutes.PATCH("/:id/booking-date", handlers.UpdateBookingDate(container.BookingService))
		bookingRoutes.GET("/driver/:user_id", handlers.DriverBookings(container.BookingService))
		bookingRoutes.GET("/customer/:user_id", handlers.CustomerBookings(container.BookingService))
	}

	userRoutes := protected.Group("/users")
	{
		userRoutes.GET("/", handlers.ListUsers(container.DriverService))
		userRoutes.GET("/:id", handlers.ShowUser(container.DriverService))
		userRoutes.PATCH("/:id", handlers.UpdateUser(container.DriverService))
		userRoutes.DELETE("/:id", handlers.DeleteUser(container.DriverService))
		userRoutes.PATCH("/:id/status", handlers.UpdateUserStatus(container.DriverService))
		userRoutes.PATCH("/:id/rating", handlers.UpdateRating(container.DriverService))
		userRoutes.PATCH("/:id/toggle-active", handlers.ToggleActive(container.DriverService))
		userRoutes.GET("/:id/online-stats", handlers.OnlineStats(container.DriverService))
	}

	dashboardRoutes := protected.Group("/dashboard")
	{
		dashboardRoutes.GET("/revenue", handlers.Revenue(container.DashboardService))
		dashboardRoutes.GET("/revenue/:user_id", handlers.DriverRevenue(container.DashboardService))
	}

	notificationRoutes := protected.Group("/notifications")
	{
		notificationRoutes.POST("/", handlers.CreateNotification(container.NotificationService))
		notificationRoutes.GET("/", handlers.ListNotifications(container.NotificationService))
		notificationRoutes.PATCH("/:id/read", handlers.MarkNotificationRead(container.NotificationService))
	}

	return r
}

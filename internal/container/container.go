package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/konvff/taxi-api/internal/helpers"
	"github.com/konvff/taxi-api/internal/models"
	"github.com/konvff/taxi-api/internal/notify"
	"github.com/konvff/taxi-api/internal/services"
	"github.com/konvff/taxi-api/internal/ws"
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary
	// Database clients
	PgPool        *pgxpool.Pool
	MongoDBClient *mongo.Client

	Hub        *ws.Hub
	Dispatcher *notify.Dispatcher

	AuthService         *services.AuthService
	BookingService      *services.BookingService
	DriverService       *services.DriverService
	DashboardService    *services.DashboardService
	NotificationService *services.NotificationService
}

// NewContainer creates a new dependency injection container. The push
// sender, event publisher and reset mailer are optional; nil disables
// the integration while the rest of the app runs unchanged.
func NewContainer(
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	pgPool *pgxpool.Pool,
	mongoDBClient *mongo.Client,
	sender notify.Sender,
	events notify.EventPublisher,
	resetMailer services.ResetMailer,
) *Container {
	// Initialize repositories
	pg := models.PostgresNewRepo(pgPool)
	mongodb := models.MongodbNewRepo(mongoDBClient)

	hub := ws.NewHub(func(token string) (string, string, error) {
		claims, err := helpers.ValidateToken(token)
		if err != nil {
			return "", "", err
		}
		return claims.UserID, claims.Role, nil
	}, logger)

	dispatcher := notify.NewDispatcher(sender, pg, hub, events, logger)

	authService := services.NewAuthService(pg, resetMailer, logger)
	bookingService := services.NewBookingService(pg, pg, dispatcher, logger)
	driverService := services.NewDriverService(pg, mongodb, dispatcher, logger)
	dashboardService := services.NewDashboardService(pg)
	notificationService := services.NewNotificationService(pg, pg, pg)

	return &Container{
		Logger:              logger,
		Cloudinary:          cld,
		PgPool:              pgPool,
		MongoDBClient:       mongoDBClient,
		Hub:                 hub,
		Dispatcher:          dispatcher,
		AuthService:         authService,
		BookingService:      bookingService,
		DriverService:       driverService,
		DashboardService:    dashboardService,
		NotificationService: notificationService,
	}
}

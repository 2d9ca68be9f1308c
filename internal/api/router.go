package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/clinicbook/appointment-system/docs"
	"github.com/clinicbook/appointment-system/internal/api/handler"
	"github.com/clinicbook/appointment-system/internal/api/middleware"
	"github.com/clinicbook/appointment-system/internal/core/domain"
	"github.com/clinicbook/appointment-system/internal/core/service"
	mongodb "github.com/clinicbook/appointment-system/internal/infrastructure/db/mongo"
	redisdb "github.com/clinicbook/appointment-system/internal/infrastructure/db/redis"
	"github.com/clinicbook/appointment-system/pkg/logger"
)

// Repositories bundles the persistence layer handed to NewRouter.
type Repositories struct {
	Users        *mongodb.UserRepository
	Appointments *mongodb.AppointmentRepository
	Tokens       *mongodb.TokenRepository
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, repos Repositories, baseURL string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("clinicbook"))

	// --- Dependencies ---
	log := logger.Get()
	callerCache := redisdb.NewCallerCache(rdb)
	authService := service.NewAuthService(repos.Users, repos.Tokens, callerCache, log)
	userService := service.NewUserService(repos.Users, repos.Tokens, callerCache, log)
	appointmentService := service.NewAppointmentService(repos.Appointments, repos.Users, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService, baseURL)

	authMW := middleware.Auth(authService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	adminOrDoctor := middleware.RBAC(domain.RoleAdmin, domain.RoleDoctor)

	// --- Auth ---
	e.POST("/login", authHandler.Login)

	// --- User directory (admin only) ---
	users := e.Group("/users", authMW, adminOnly)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Appointment ledger ---
	appointments := e.Group("/appointments", authMW)
	appointments.GET("", appointmentHandler.List, adminOrDoctor)
	appointments.POST("", appointmentHandler.Create, adminOnly)
	appointments.GET("/summary", appointmentHandler.Summary, adminOnly)
	// Detail reads admit doctors too; the service restricts them to their
	// own appointments.
	appointments.GET("/:id", appointmentHandler.Get, adminOrDoctor)
	appointments.PUT("/:id", appointmentHandler.Update, adminOnly)
	appointments.DELETE("/:id", appointmentHandler.Delete, adminOnly)

	// --- Operational surface (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

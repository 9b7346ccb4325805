package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/scm/dashboard-gateway/docs"
	"github.com/scm/dashboard-gateway/internal/api/handler"
	"github.com/scm/dashboard-gateway/internal/api/middleware"
	"github.com/scm/dashboard-gateway/internal/core/access"
	"github.com/scm/dashboard-gateway/internal/core/ports"
)

// Services bundles the use cases the router exposes.
type Services struct {
	Auth          ports.AuthService
	Dashboard     ports.DashboardService
	Indicators    ports.IndicatorService
	Simulations   ports.SimulationService
	Notifications ports.NotificationService
	Users         ports.UserService
	System        ports.SystemService
}

// Infra holds the optional backing connections probed by /health/ready.
// Nil members are skipped.
type Infra struct {
	Mongo *mongo.Database
	Redis *redis.Client
	NATS  *nats.Conn
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, views *access.Table, infra Infra, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("scm_gateway_http"))
	e.Use(middleware.Session(svc.Auth, log))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	sessionHandler := handler.NewSessionHandler(views)
	dashboardHandler := handler.NewDashboardHandler(svc.Dashboard)
	indicatorHandler := handler.NewIndicatorHandler(svc.Indicators)
	simulationHandler := handler.NewSimulationHandler(svc.Simulations)
	notificationHandler := handler.NewNotificationHandler(svc.Notifications)
	userHandler := handler.NewUserHandler(svc.Users)
	systemHandler := handler.NewSystemHandler(svc.System)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register/city-manager", authHandler.RegisterCityManager)
	e.POST("/auth/register/service-provider-admin", authHandler.RegisterServiceProviderAdmin)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Session and navigation ---
	apiGroup := e.Group("/api")
	apiGroup.GET("/session", sessionHandler.Session)
	apiGroup.GET("/navigation", sessionHandler.Navigation)
	apiGroup.GET("/views/:view/access", sessionHandler.ViewAccess)

	// --- Dashboard ---
	dashboard := apiGroup.Group("/dashboard", middleware.RequireView(views, "dashboard"))
	dashboard.GET("/stats", dashboardHandler.Stats)
	dashboard.GET("/overview", dashboardHandler.Overview)

	// --- Indicators ---
	// Static routes win over :mode in echo's router regardless of order.
	indicators := apiGroup.Group("/indicators")
	indicators.GET("/events", indicatorHandler.Events, middleware.RequireView(views, "indicators-events"))
	indicators.GET("/construction", indicatorHandler.Construction, middleware.RequireView(views, "indicators-construction"))
	indicators.GET("/:mode", indicatorHandler.Transport, middleware.RequireViewFrom(views, func(c echo.Context) string {
		return "indicators-" + c.Param("mode")
	}))

	// --- Simulations ---
	simulations := apiGroup.Group("/simulations", middleware.RequireView(views, "simulation"))
	simulations.GET("", simulationHandler.List)
	simulations.POST("/run", simulationHandler.Run)
	simulations.GET("/:id", simulationHandler.Get)
	simulations.DELETE("/:id", simulationHandler.Delete)

	// --- Notifications ---
	notifications := apiGroup.Group("/notifications", middleware.RequireView(views, "notifications"))
	notifications.GET("", notificationHandler.List)
	notifications.GET("/stats", notificationHandler.Stats)
	notifications.PUT("/mark-all-read", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)

	// --- Users ---
	users := apiGroup.Group("/users", middleware.RequireView(views, "users"))
	users.GET("", userHandler.List)
	users.GET("/service-provider", userHandler.ServiceProviderUsers)
	users.POST("/service-provider", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- System status ---
	system := apiGroup.Group("/system", middleware.RequireView(views, "system-status"))
	system.GET("/status", systemHandler.Status)
	system.GET("/status/stream", systemHandler.StatusStream)
	system.GET("/health", systemHandler.Health)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(infra.Mongo, infra.Redis, infra.NATS)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskboard/task-manager/docs"
	"github.com/taskboard/task-manager/internal/api/handler"
	"github.com/taskboard/task-manager/internal/api/middleware"
	"github.com/taskboard/task-manager/internal/core/ports"
	"github.com/taskboard/task-manager/internal/infrastructure/http/handlers"
)

const (
	metricsSubsystem = "taskmanager"
	bodyLimit        = "1M"
)

// Dependencies is everything the HTTP layer needs; main wires it.
type Dependencies struct {
	Logger         zerolog.Logger
	AuthService    ports.AuthService
	TaskService    ports.TaskService
	Tokens         ports.TokenValidator
	Readiness      *handlers.HealthDependenciesHandler
	AllowedOrigins []string
	DetailedErrors bool
	EnableSwagger  bool
	// Registry receives the HTTP metrics. Nil means the Prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger, deps.DetailedErrors)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  deps.AllowedOrigins,
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, handler.HeaderIdempotencyKey},
		ExposeHeaders: []string{echo.HeaderLocation},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	if deps.Registry != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  metricsSubsystem,
			Registerer: deps.Registry,
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Registry}))
	} else {
		e.Use(echoprometheus.NewMiddleware(metricsSubsystem))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Task routes (bearer token required) ---
	taskHandler := handler.NewTaskHandler(deps.TaskService)
	tasks := e.Group("/tasks", middleware.Auth(deps.Tokens))
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readiness := deps.Readiness
	if readiness == nil {
		readiness = handlers.NewHealthDependenciesHandler()
	}
	e.GET("/health", healthHandler.Liveness)    // liveness  – is the process alive?
	e.GET("/health/ready", readiness.Readiness) // readiness – are dependencies up?

	if deps.EnableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Msg("request")
			return nil
		},
	})
}

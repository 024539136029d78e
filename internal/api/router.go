package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/postboard/content-api/internal/api/handler"
	"github.com/postboard/content-api/internal/api/middleware"
	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
	"github.com/postboard/content-api/internal/infrastructure/http/handlers"
)

// Dependencies is everything the router wires into handlers.
type Dependencies struct {
	Posts ports.PostService
	Users ports.UserService
	Auth  ports.AuthService
	Gate  ports.Gate

	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handlers.Checker

	Logger          zerolog.Logger
	StrictForbidden bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger, ErrorHandlerOptions{
		StrictForbidden: deps.StrictForbidden,
	})

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(middleware.Metrics())

	postHandler := handler.NewPostHandler(deps.Posts)
	userHandler := handler.NewUserHandler(deps.Users)
	authHandler := handler.NewAuthHandler(deps.Auth)

	requireUser := middleware.Auth(deps.Gate, domain.RoleUser)
	requireAdmin := middleware.Auth(deps.Gate, domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/token", authHandler.Token)
	auth.POST("/refresh-token", authHandler.Refresh)
	auth.DELETE("/logout", authHandler.Logout)

	// --- Posts: reads are public, writes need the User scope ---
	posts := e.Group("/posts")
	posts.GET("", postHandler.List)
	posts.GET("/one", postHandler.Featured)
	posts.GET("/:id", postHandler.Get)
	posts.POST("", postHandler.Create, requireUser)
	posts.PUT("/:id", postHandler.Update, requireUser)
	posts.DELETE("/:id", postHandler.Delete, requireUser)

	// --- Users: Admin only ---
	users := e.Group("/users", requireAdmin)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/email/:email", userHandler.GetByEmail)
	users.GET("/:username", userHandler.GetByUsername)
	users.PUT("/:username", userHandler.Ban)

	// --- Health probes (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(deps.Readiness).Readiness)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

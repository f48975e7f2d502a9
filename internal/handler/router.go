package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rohitmp45/ai-interview/internal/metrics"
	"github.com/rohitmp45/ai-interview/internal/service"
	"github.com/rohitmp45/ai-interview/internal/session"
)

// RouterConfig carries the collaborators and settings the router needs.
type RouterConfig struct {
	Auth        *service.AuthService
	Todos       *service.TodoService
	Sessions    *session.Manager
	FrontendURL string
	Healthcheck func(c echo.Context) error
}

// NewRouter builds the echo instance with all middleware and routes wired.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewAppValidator()
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(RequestLogger())
	e.Use(metrics.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.Healthcheck != nil {
		e.GET("/healthz", cfg.Healthcheck)
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authHandler := NewAuthHandler(cfg.Auth, cfg.Sessions)
	todoHandler := NewTodoHandler(cfg.Todos)

	api := e.Group("/api")
	api.GET("/auth/google", authHandler.GoogleRedirect)
	api.GET("/auth/google/callback", authHandler.GoogleCallback)
	api.POST("/signup", authHandler.Signup)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/user", authHandler.Me)

	todos := api.Group("/todos", SessionAuth(cfg.Sessions, cfg.Auth))
	todos.GET("", todoHandler.List)
	todos.POST("", todoHandler.Create)
	todos.PUT("", todoHandler.Update)
	todos.DELETE("", todoHandler.Delete)
	todos.GET("/due", todoHandler.Due)

	pages := NewPageHandler()
	e.GET("/", pages.Page("home"), PageGuard(RouteHybrid, cfg.Sessions, cfg.Auth))
	e.GET("/login", pages.Page("login"), PageGuard(RoutePublic, cfg.Sessions, cfg.Auth))
	e.GET("/signup", pages.Page("signup"), PageGuard(RoutePublic, cfg.Sessions, cfg.Auth))
	e.GET("/chat", pages.Page("chat"), PageGuard(RoutePrivate, cfg.Sessions, cfg.Auth))

	return e
}

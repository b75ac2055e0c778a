// Package api provides the HTTP handlers for the DineWise backend.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dinewise/dinewise/internal/auth"
	"github.com/dinewise/dinewise/internal/metrics"
	"github.com/dinewise/dinewise/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	users       *service.UserService
	restaurants *service.RestaurantService
	chat        *service.ChatService
	tokens      *auth.TokenIssuer
	metrics     *metrics.Collector
	logger      *slog.Logger
}

// NewHandler creates a new handler.
func NewHandler(users *service.UserService, restaurants *service.RestaurantService, chat *service.ChatService, tokens *auth.TokenIssuer, collector *metrics.Collector, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		users:       users,
		restaurants: restaurants,
		chat:        chat,
		tokens:      tokens,
		metrics:     collector,
		logger:      logger,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	protected := auth.Middleware(h.tokens)

	e.GET("/", h.Root)
	e.GET("/health", h.Health)
	e.GET("/internal/stats", h.Stats)

	// Accounts
	e.POST("/users/signup", h.Signup)
	e.GET("/users/verify-email", h.VerifyEmail)
	e.POST("/users/login", h.Login)
	e.GET("/users/forgot-password", h.ForgotPassword)
	e.POST("/users/reset-password/:token", h.ResetPassword)
	e.POST("/users/change-password", h.ChangePassword, protected)
	e.GET("/users/me", h.Me, protected)

	// Restaurants
	e.GET("/restaurants/names", h.RestaurantNames)
	e.GET("/restaurants/me", h.MyRestaurant, protected)

	// Chat
	e.POST("/chat/start", h.StartChat, protected)
	e.POST("/chat/message", h.SendMessage, protected)
	e.GET("/chat/history", h.ChatHistory, protected)
}

// Root returns the API welcome message.
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Welcome to the DineWise Restaurant Review Assistant API",
	})
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// Stats returns runtime metrics.
func (h *Handler) Stats(c echo.Context) error {
	if h.metrics == nil {
		return c.JSON(http.StatusOK, map[string]string{"status": "metrics disabled"})
	}
	return c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// httpError maps service failures onto HTTP status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrDuplicatePhone),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrAccountDeleted):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrSamePassword):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dinewise/dinewise/internal/auth"
	"github.com/dinewise/dinewise/internal/models"
	"github.com/dinewise/dinewise/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type userResponse struct {
	Email        string      `json:"email"`
	Name         string      `json:"name,omitempty"`
	PhoneNumber  string      `json:"phone_number,omitempty"`
	RestaurantID string      `json:"restaurant_id,omitempty"`
	Tier         models.Tier `json:"tier"`
	IsVerified   bool        `json:"is_verified"`
}

// Signup registers a new account and returns an access token.
func (h *Handler) Signup(c echo.Context) error {
	var req service.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "email and password are required")
	}

	token, err := h.users.Signup(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("signup failed", "email", req.Email, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// VerifyEmail activates the account named by the token query parameter.
func (h *Handler) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "token is required")
	}

	if err := h.users.VerifyEmail(c.Request().Context(), token); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Email verified! You can now login."})
}

// Login checks credentials and returns an access token.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login failed", "email", req.Email, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// ForgotPassword mails a reset token to the account in the email query
// parameter.
func (h *Handler) ForgotPassword(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "email is required")
	}

	if err := h.users.ForgotPassword(c.Request().Context(), email); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "please check your email"})
}

// ResetPassword sets a new password using the reset token path parameter.
func (h *Handler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Password == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "password is required")
	}

	if err := h.users.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// ChangePassword rotates the authenticated account's password.
func (h *Handler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	email := auth.EmailFromContext(c)
	if err := h.users.ChangePassword(c.Request().Context(), email, req.OldPassword, req.NewPassword); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// Me returns the authenticated account.
func (h *Handler) Me(c echo.Context) error {
	user, err := h.users.GetByEmail(c.Request().Context(), auth.EmailFromContext(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, userResponse{
		Email:        user.Email,
		Name:         user.Name,
		PhoneNumber:  user.PhoneNumber,
		RestaurantID: user.RestaurantID,
		Tier:         user.Tier,
		IsVerified:   user.IsVerified,
	})
}

package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dinewise/dinewise/internal/agent"
	"github.com/dinewise/dinewise/internal/auth"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatHistoryResponse struct {
	Messages []agent.Turn `json:"messages"`
}

// StartChat opens a fresh chat session for the authenticated user, discarding
// any previous history.
func (h *Handler) StartChat(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.users.GetByEmail(ctx, auth.EmailFromContext(c))
	if err != nil {
		return httpError(err)
	}

	h.chat.StartChat(ctx, user.Email, user.RestaurantID)
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Chat session started. You can now send messages.",
	})
}

// SendMessage runs one conversation turn for the authenticated user.
func (h *Handler) SendMessage(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "message is required")
	}

	ctx := c.Request().Context()
	user, err := h.users.GetByEmail(ctx, auth.EmailFromContext(c))
	if err != nil {
		return httpError(err)
	}

	result := h.chat.SendMessage(ctx, user.Email, user.RestaurantID, req.Message)
	return c.JSON(http.StatusOK, result)
}

// ChatHistory returns the authenticated user's conversation so far.
func (h *Handler) ChatHistory(c echo.Context) error {
	email := auth.EmailFromContext(c)
	turns := h.chat.History(email)
	if turns == nil {
		turns = []agent.Turn{}
	}
	return c.JSON(http.StatusOK, chatHistoryResponse{Messages: turns})
}

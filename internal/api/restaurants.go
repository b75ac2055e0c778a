package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dinewise/dinewise/internal/auth"
)

// RestaurantNames returns every known restaurant name.
func (h *Handler) RestaurantNames(c echo.Context) error {
	names, err := h.restaurants.ListNames(c.Request().Context())
	if err != nil {
		h.logger.Error("list restaurant names failed", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"restaurant_names": names})
}

// MyRestaurant returns the summary for the authenticated user's restaurant.
func (h *Handler) MyRestaurant(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.users.GetByEmail(ctx, auth.EmailFromContext(c))
	if err != nil {
		return httpError(err)
	}
	if user.RestaurantID == "" {
		return echo.NewHTTPError(http.StatusNotFound, "no restaurant linked to this account")
	}

	summary, err := h.restaurants.Get(ctx, user.RestaurantID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

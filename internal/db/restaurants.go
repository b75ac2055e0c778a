package db

import (
	"context"
	"fmt"

	"github.com/dinewise/dinewise/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// GetRestaurant retrieves a restaurant by ID. Returns nil if not found.
func (c *Client) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	results, err := surrealdb.Query[[]models.Restaurant](ctx, c.db, `
		SELECT * FROM type::record("restaurant", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// ListRestaurantNames returns the names of all active restaurants.
func (c *Client) ListRestaurantNames(ctx context.Context) ([]string, error) {
	results, err := surrealdb.Query[[]struct {
		Name string `json:"restaurant_name"`
	}](ctx, c.db, `
		SELECT restaurant_name FROM restaurant WHERE is_active = true ORDER BY restaurant_name ASC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list restaurant names: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []string{}, nil
	}

	rows := (*results)[0].Result
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	return names, nil
}

// NearbyRanked returns restaurants in the same neighbourhood as the given
// restaurant, ranked by overall rating descending. Equal ratings are broken
// alphabetically by name so comparison answers are deterministic.
func (c *Client) NearbyRanked(ctx context.Context, id string, limit int) ([]models.RestaurantRanking, error) {
	if limit <= 0 {
		limit = 5
	}

	results, err := surrealdb.Query[[]models.RestaurantRanking](ctx, c.db, `
		LET $home = (SELECT neighbourhood FROM ONLY type::record("restaurant", $id));
		SELECT restaurant_name, overall_rating, neighbourhood FROM restaurant
		WHERE neighbourhood = $home.neighbourhood AND is_active = true
		ORDER BY overall_rating DESC, restaurant_name ASC
		LIMIT $limit
	`, map[string]any{"id": id, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("nearby ranked: %w", wrapQueryError(err))
	}

	// Two statements: the ranking rows are in the last result set.
	if results == nil || len(*results) == 0 {
		return []models.RestaurantRanking{}, nil
	}
	return (*results)[len(*results)-1].Result, nil
}

// UpsertRestaurant creates or updates a restaurant record by ID.
func (c *Client) UpsertRestaurant(ctx context.Context, id string, r models.Restaurant) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::record("restaurant", $id) SET
			restaurant_name = $name,
			average_price = $average_price,
			total_rating = $total_rating,
			restaurant_location = $location,
			neighbourhood = $neighbourhood,
			hours_of_operation = $hours,
			cuisine = $cuisine,
			tags = $tags,
			overall_rating = $overall_rating,
			food_rating = $food_rating,
			service_rating = $service_rating,
			ambience_rating = $ambience_rating,
			five_stars = $five_stars,
			four_stars = $four_stars,
			three_stars = $three_stars,
			two_stars = $two_stars,
			one_stars = $one_stars,
			total_review_counts = $total_review_counts,
			is_active = $is_active
	`, map[string]any{
		"id":                  id,
		"name":                r.Name,
		"average_price":       r.AveragePrice,
		"total_rating":        r.TotalRating,
		"location":            r.Location,
		"neighbourhood":       r.Neighbourhood,
		"hours":               r.HoursOfOperation,
		"cuisine":             r.Cuisine,
		"tags":                r.Tags,
		"overall_rating":      r.OverallRating,
		"food_rating":         r.FoodRating,
		"service_rating":      r.ServiceRating,
		"ambience_rating":     r.AmbienceRating,
		"five_stars":          r.FiveStars,
		"four_stars":          r.FourStars,
		"three_stars":         r.ThreeStars,
		"two_stars":           r.TwoStars,
		"one_stars":           r.OneStars,
		"total_review_counts": r.TotalReviewCount,
		"is_active":           r.IsActive,
	})
	if err != nil {
		return fmt.Errorf("upsert restaurant: %w", wrapQueryError(err))
	}
	return nil
}

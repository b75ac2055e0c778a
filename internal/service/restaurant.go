// Package service provides business logic on top of storage, auth, and the
// conversational agent.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dinewise/dinewise/internal/models"
)

// RestaurantStore is the storage surface the restaurant service needs.
type RestaurantStore interface {
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	ListRestaurantNames(ctx context.Context) ([]string, error)
	NearbyRanked(ctx context.Context, id string, limit int) ([]models.RestaurantRanking, error)
}

// RestaurantService handles restaurant lookups and context assembly.
type RestaurantService struct {
	store  RestaurantStore
	logger *slog.Logger
}

// NewRestaurantService creates a new restaurant service.
func NewRestaurantService(store RestaurantStore, logger *slog.Logger) *RestaurantService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RestaurantService{store: store, logger: logger}
}

// RestaurantSummary is the dashboard projection of a restaurant record.
type RestaurantSummary struct {
	ID               string  `json:"restaurant_id"`
	Name             string  `json:"restaurant_name"`
	Cuisine          string  `json:"cuisine,omitempty"`
	OverallRating    float64 `json:"overall_rating"`
	TotalReviewCount int     `json:"total_review_counts"`
	FiveStars        int     `json:"five_stars"`
	FourStars        int     `json:"four_stars"`
	ThreeStars       int     `json:"three_stars"`
	TwoStars         int     `json:"two_stars"`
	OneStars         int     `json:"one_stars"`
}

// Get returns the summary for one restaurant. The cuisine field is reduced to
// its first comma-separated entry.
func (s *RestaurantService) Get(ctx context.Context, restaurantID string) (*RestaurantSummary, error) {
	r, err := s.store.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("get restaurant %s: %w", restaurantID, err)
	}
	if r == nil {
		return nil, fmt.Errorf("restaurant %s: %w", restaurantID, ErrNotFound)
	}

	cuisine := r.Cuisine
	if idx := strings.Index(cuisine, ","); idx >= 0 {
		cuisine = strings.TrimSpace(cuisine[:idx])
	}

	return &RestaurantSummary{
		ID:               restaurantID,
		Name:             r.Name,
		Cuisine:          cuisine,
		OverallRating:    r.OverallRating,
		TotalReviewCount: r.TotalReviewCount,
		FiveStars:        r.FiveStars,
		FourStars:        r.FourStars,
		ThreeStars:       r.ThreeStars,
		TwoStars:         r.TwoStars,
		OneStars:         r.OneStars,
	}, nil
}

// ListNames returns every known restaurant name.
func (s *RestaurantService) ListNames(ctx context.Context) ([]string, error) {
	names, err := s.store.ListRestaurantNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurant names: %w", err)
	}
	return names, nil
}

// FetchRestaurantContext builds the identity paragraph injected into every
// chat turn. Lookup failures degrade to an empty string; the agent substitutes
// its placeholder.
func (s *RestaurantService) FetchRestaurantContext(ctx context.Context, restaurantID string) string {
	r, err := s.store.GetRestaurant(ctx, restaurantID)
	if err != nil {
		s.logger.Warn("restaurant context lookup failed", "restaurant_id", restaurantID, "error", err)
		return ""
	}
	if r == nil {
		s.logger.Warn("no context found for restaurant", "restaurant_id", restaurantID)
		return ""
	}

	return fmt.Sprintf(
		"Restaurant Name: %s\nLocation: %s\nCuisine: %s\nRating: %.1f stars\nNeighbourhood: %s\nAverage Price: %s",
		r.Name, r.Location, r.Cuisine, r.OverallRating, r.Neighbourhood, r.AveragePrice)
}

// NearbyRanked lists restaurants in the same neighbourhood ordered by overall
// rating descending, names ascending on ties.
func (s *RestaurantService) NearbyRanked(ctx context.Context, restaurantID string, limit int) ([]models.RestaurantRanking, error) {
	candidates, err := s.store.NearbyRanked(ctx, restaurantID, limit)
	if err != nil {
		return nil, fmt.Errorf("nearby ranking for %s: %w", restaurantID, err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].OverallRating != candidates[j].OverallRating {
			return candidates[i].OverallRating > candidates[j].OverallRating
		}
		return candidates[i].Name < candidates[j].Name
	})

	return candidates, nil
}

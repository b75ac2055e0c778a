package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Restaurant is a restaurant record with aggregate review statistics.
type Restaurant struct {
	ID               surrealmodels.RecordID `json:"id"`
	Name             string                 `json:"restaurant_name"`
	AveragePrice     string                 `json:"average_price,omitempty"`
	TotalRating      float64                `json:"total_rating,omitempty"`
	Location         string                 `json:"restaurant_location,omitempty"`
	Neighbourhood    string                 `json:"neighbourhood,omitempty"`
	HoursOfOperation string                 `json:"hours_of_operation,omitempty"`
	Cuisine          string                 `json:"cuisine,omitempty"`
	Tags             string                 `json:"tags,omitempty"`
	OverallRating    float64                `json:"overall_rating"`
	FoodRating       float64                `json:"food_rating,omitempty"`
	ServiceRating    float64                `json:"service_rating,omitempty"`
	AmbienceRating   float64                `json:"ambience_rating,omitempty"`
	FiveStars        int                    `json:"five_stars"`
	FourStars        int                    `json:"four_stars"`
	ThreeStars       int                    `json:"three_stars"`
	TwoStars         int                    `json:"two_stars"`
	OneStars         int                    `json:"one_stars"`
	TotalReviewCount int                    `json:"total_review_counts"`
	CreatedAt        time.Time              `json:"created_at,omitempty"`
	IsActive         bool                   `json:"is_active,omitempty"`
}

// RestaurantRanking is the slim projection used when ranking nearby candidates.
type RestaurantRanking struct {
	Name          string  `json:"restaurant_name"`
	OverallRating float64 `json:"overall_rating"`
	Neighbourhood string  `json:"neighbourhood,omitempty"`
}

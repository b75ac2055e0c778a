package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Tier is the subscription tier of a user account.
type Tier string

const (
	TierFree    Tier = "FREE"
	TierPremium Tier = "PREMIUM"
)

// User is a registered account, optionally bound to one restaurant.
type User struct {
	ID           surrealmodels.RecordID `json:"id"`
	Email        string                 `json:"email"`
	PhoneNumber  string                 `json:"phone_number,omitempty"`
	Name         string                 `json:"name,omitempty"`
	PasswordHash string                 `json:"password"`
	IsVerified   bool                   `json:"is_verified"`
	IsDeleted    bool                   `json:"is_deleted"`
	IsActive     bool                   `json:"is_active"`
	IsAdmin      bool                   `json:"is_admin"`
	Tier         Tier                   `json:"tier"`
	RestaurantID string                 `json:"restaurant_id,omitempty"`
	CreatedAt    time.Time              `json:"created_at,omitempty"`
	UpdatedAt    time.Time              `json:"updated_at,omitempty"`
}

package db

import (
	"context"
	"fmt"

	"github.com/dinewise/dinewise/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// CreateUser inserts a new user record. Returns ErrAlreadyExists when the
// email or phone number collides with an existing account.
func (c *Client) CreateUser(ctx context.Context, id string, u models.User) (*models.User, error) {
	results, err := surrealdb.Query[[]models.User](ctx, c.db, `
		CREATE type::record("user", $id) SET
			email = $email,
			phone_number = $phone,
			name = $name,
			password = $password,
			is_verified = $is_verified,
			is_deleted = false,
			is_active = $is_active,
			is_admin = false,
			tier = $tier,
			restaurant_id = $restaurant_id
	`, map[string]any{
		"id":            id,
		"email":         u.Email,
		"phone":         u.PhoneNumber,
		"name":          u.Name,
		"password":      u.PasswordHash,
		"is_verified":   u.IsVerified,
		"is_active":     u.IsActive,
		"tier":          string(u.Tier),
		"restaurant_id": u.RestaurantID,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create user: no record returned")
	}
	return &(*results)[0].Result[0], nil
}

// GetUserByEmail returns the user with the given email, or nil if none exists.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	results, err := surrealdb.Query[[]models.User](ctx, c.db, `
		SELECT * FROM user WHERE email = $email LIMIT 1
	`, map[string]any{"email": email})
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// GetUserByPhone returns the user with the given phone number, or nil if none exists.
func (c *Client) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	results, err := surrealdb.Query[[]models.User](ctx, c.db, `
		SELECT * FROM user WHERE phone_number = $phone LIMIT 1
	`, map[string]any{"phone": phone})
	if err != nil {
		return nil, fmt.Errorf("get user by phone: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// MarkUserVerified flags the account as verified and active.
func (c *Client) MarkUserVerified(ctx context.Context, email string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE user SET is_verified = true, is_active = true, updated_at = time::now()
		WHERE email = $email
	`, map[string]any{"email": email})
	if err != nil {
		return fmt.Errorf("mark user verified: %w", wrapQueryError(err))
	}
	return nil
}

// UpdateUserPassword replaces the stored password hash.
func (c *Client) UpdateUserPassword(ctx context.Context, email, passwordHash string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE user SET password = $password, updated_at = time::now()
		WHERE email = $email
	`, map[string]any{"email": email, "password": passwordHash})
	if err != nil {
		return fmt.Errorf("update user password: %w", wrapQueryError(err))
	}
	return nil
}

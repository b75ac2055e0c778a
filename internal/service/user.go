package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dinewise/dinewise/internal/auth"
	"github.com/dinewise/dinewise/internal/models"
)

// UserStore is the storage surface the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, id string, u models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	MarkUserVerified(ctx context.Context, email string) error
	UpdateUserPassword(ctx context.Context, email, passwordHash string) error
}

// Mailer sends account mail. Implementations may be disabled in development.
type Mailer interface {
	Enabled() bool
	SendVerificationCode(to, code string) error
	SendPasswordReset(to, code string) error
}

// UserService handles account registration, login, and password flows.
type UserService struct {
	store  UserStore
	tokens *auth.TokenIssuer
	mailer Mailer
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store UserStore, tokens *auth.TokenIssuer, mailer Mailer, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{store: store, tokens: tokens, mailer: mailer, logger: logger}
}

// SignupRequest carries a new account registration.
type SignupRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	PhoneNumber  string `json:"phone_number"`
	RestaurantID string `json:"restaurant_id"`
}

// Signup registers a new account and returns an access token. A verification
// token is mailed when SMTP is configured.
func (s *UserService) Signup(ctx context.Context, req SignupRequest) (string, error) {
	if existing, err := s.store.GetUserByEmail(ctx, req.Email); err != nil {
		return "", fmt.Errorf("signup lookup: %w", err)
	} else if existing != nil {
		return "", fmt.Errorf("%s: %w", req.Email, ErrUserExists)
	}

	if req.PhoneNumber != "" {
		if existing, err := s.store.GetUserByPhone(ctx, req.PhoneNumber); err != nil {
			return "", fmt.Errorf("signup phone lookup: %w", err)
		} else if existing != nil {
			return "", ErrDuplicatePhone
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", err
	}

	user := models.User{
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Name:         req.Name,
		PasswordHash: hash,
		RestaurantID: req.RestaurantID,
		Tier:         models.TierFree,
	}

	if _, err := s.store.CreateUser(ctx, uuid.New().String(), user); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(req.Email)
	if err != nil {
		return "", err
	}

	// Verification mail is best effort; signup succeeds without it.
	if s.mailer != nil && s.mailer.Enabled() {
		if err := s.mailer.SendVerificationCode(req.Email, token); err != nil {
			s.logger.Warn("verification mail failed", "email", req.Email, "error", err)
		}
	} else {
		s.logger.Info("mail disabled, verification token issued", "email", req.Email)
	}

	s.logger.Info("user registered", "email", req.Email)
	return token, nil
}

// VerifyEmail activates the account named by a verification token.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("verify lookup: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%s: %w", email, ErrNotFound)
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	if err := s.store.MarkUserVerified(ctx, email); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	s.logger.Info("user verified", "email", email)
	return nil
}

// Login checks credentials and returns an access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("login lookup: %w", err)
	}
	if user == nil {
		return "", fmt.Errorf("%s: %w", email, ErrNotFound)
	}
	if user.IsDeleted {
		return "", ErrAccountDeleted
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", ErrWrongPassword
	}

	return s.tokens.Issue(email)
}

// ForgotPassword mails a password-reset token to an existing account.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("reset lookup: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%s: %w", email, ErrNotFound)
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		return err
	}

	if s.mailer != nil && s.mailer.Enabled() {
		if err := s.mailer.SendPasswordReset(email, token); err != nil {
			return fmt.Errorf("send reset mail: %w", err)
		}
	} else {
		s.logger.Info("mail disabled, reset token issued", "email", email)
	}

	return nil
}

// ResetPassword sets a new password for the account named by a reset token.
// The new password must differ from the current one.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("reset lookup: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%s: %w", email, ErrNotFound)
	}
	if auth.CheckPassword(newPassword, user.PasswordHash) {
		return ErrSamePassword
	}

	return s.setPassword(ctx, email, newPassword)
}

// ChangePassword rotates the password of a logged-in account after checking
// the old one.
func (s *UserService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("change lookup: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%s: %w", email, ErrNotFound)
	}
	if !auth.CheckPassword(oldPassword, user.PasswordHash) {
		return ErrWrongPassword
	}
	if oldPassword == newPassword {
		return ErrSamePassword
	}

	return s.setPassword(ctx, email, newPassword)
}

func (s *UserService) setPassword(ctx context.Context, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.store.UpdateUserPassword(ctx, email, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.logger.Info("password updated", "email", email)
	return nil
}

// GetByEmail returns the account for an authenticated email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%s: %w", email, ErrNotFound)
	}
	return user, nil
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinewise/dinewise/internal/auth"
	"github.com/dinewise/dinewise/internal/models"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	byPhone map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*models.User),
		byPhone: make(map[string]*models.User),
	}
}

func (f *fakeUserStore) CreateUser(_ context.Context, _ string, u models.User) (*models.User, error) {
	f.byEmail[u.Email] = &u
	if u.PhoneNumber != "" {
		f.byPhone[u.PhoneNumber] = &u
	}
	return &u, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserStore) GetUserByPhone(_ context.Context, phone string) (*models.User, error) {
	return f.byPhone[phone], nil
}

func (f *fakeUserStore) MarkUserVerified(_ context.Context, email string) error {
	if u := f.byEmail[email]; u != nil {
		u.IsVerified = true
		u.IsActive = true
	}
	return nil
}

func (f *fakeUserStore) UpdateUserPassword(_ context.Context, email, hash string) error {
	if u := f.byEmail[email]; u != nil {
		u.PasswordHash = hash
	}
	return nil
}

type fakeMailer struct {
	verifications map[string]string
	resets        map[string]string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{verifications: make(map[string]string), resets: make(map[string]string)}
}

func (f *fakeMailer) Enabled() bool { return true }

func (f *fakeMailer) SendVerificationCode(to, code string) error {
	f.verifications[to] = code
	return nil
}

func (f *fakeMailer) SendPasswordReset(to, code string) error {
	f.resets[to] = code
	return nil
}

func newUserService(t *testing.T) (*UserService, *fakeUserStore, *fakeMailer) {
	t.Helper()
	store := newFakeUserStore()
	mailer := newFakeMailer()
	tokens := auth.NewTokenIssuer("test-secret", 60)
	return NewUserService(store, tokens, mailer, nil), store, mailer
}

func TestSignupAndLogin(t *testing.T) {
	svc, store, mailer := newUserService(t)
	ctx := context.Background()

	token, err := svc.Signup(ctx, SignupRequest{
		Email:       "alice@example.com",
		Password:    "pa55word",
		Name:        "Alice",
		PhoneNumber: "+447700900000",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Password is stored hashed and the verification mail carries a token.
	stored := store.byEmail["alice@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "pa55word", stored.PasswordHash)
	assert.Equal(t, models.TierFree, stored.Tier)
	assert.NotEmpty(t, mailer.verifications["alice@example.com"])

	loginToken, err := svc.Login(ctx, "alice@example.com", "pa55word")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Login(ctx, "nobody@example.com", "pa55word")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSignupRejectsDuplicates(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "alice@example.com", Password: "pw", PhoneNumber: "+447700900000"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupRequest{Email: "alice@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Signup(ctx, SignupRequest{Email: "bob@example.com", Password: "pw", PhoneNumber: "+447700900000"})
	assert.ErrorIs(t, err, ErrDuplicatePhone)
}

func TestVerifyEmail(t *testing.T) {
	svc, store, mailer := newUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	token := mailer.verifications["alice@example.com"]
	require.NoError(t, svc.VerifyEmail(ctx, token))
	assert.True(t, store.byEmail["alice@example.com"].IsVerified)

	// Second verification is rejected.
	assert.ErrorIs(t, svc.VerifyEmail(ctx, token), ErrAlreadyVerified)

	// Garbage tokens are rejected.
	assert.ErrorIs(t, svc.VerifyEmail(ctx, "bogus"), ErrInvalidToken)
}

func TestLoginRejectsDeletedAccount(t *testing.T) {
	svc, store, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	store.byEmail["alice@example.com"].IsDeleted = true

	_, err = svc.Login(ctx, "alice@example.com", "pw")
	assert.ErrorIs(t, err, ErrAccountDeleted)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, mailer := newUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "alice@example.com", Password: "old-pw"})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "alice@example.com"))
	token := mailer.resets["alice@example.com"]
	require.NotEmpty(t, token)

	// Reusing the old password is rejected.
	assert.ErrorIs(t, svc.ResetPassword(ctx, token, "old-pw"), ErrSamePassword)

	require.NoError(t, svc.ResetPassword(ctx, token, "new-pw"))

	_, err = svc.Login(ctx, "alice@example.com", "new-pw")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "alice@example.com", "old-pw")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestForgotPasswordUnknownUser(t *testing.T) {
	svc, _, _ := newUserService(t)
	assert.ErrorIs(t, svc.ForgotPassword(context.Background(), "nobody@example.com"), ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "alice@example.com", Password: "old-pw"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, "alice@example.com", "wrong", "new-pw"), ErrWrongPassword)
	assert.ErrorIs(t, svc.ChangePassword(ctx, "alice@example.com", "old-pw", "old-pw"), ErrSamePassword)

	require.NoError(t, svc.ChangePassword(ctx, "alice@example.com", "old-pw", "new-pw"))
	_, err = svc.Login(ctx, "alice@example.com", "new-pw")
	assert.NoError(t, err)
}

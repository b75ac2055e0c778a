package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinewise/dinewise/internal/auth"
	"github.com/dinewise/dinewise/internal/llm"
	"github.com/dinewise/dinewise/internal/metrics"
	"github.com/dinewise/dinewise/internal/models"
	"github.com/dinewise/dinewise/internal/service"
)

type memUserStore struct {
	byEmail map[string]*models.User
	byPhone map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byEmail: map[string]*models.User{}, byPhone: map[string]*models.User{}}
}

func (s *memUserStore) CreateUser(_ context.Context, _ string, u models.User) (*models.User, error) {
	s.byEmail[u.Email] = &u
	if u.PhoneNumber != "" {
		s.byPhone[u.PhoneNumber] = &u
	}
	return &u, nil
}

func (s *memUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.byEmail[email], nil
}

func (s *memUserStore) GetUserByPhone(_ context.Context, phone string) (*models.User, error) {
	return s.byPhone[phone], nil
}

func (s *memUserStore) MarkUserVerified(_ context.Context, email string) error {
	if u := s.byEmail[email]; u != nil {
		u.IsVerified = true
		u.IsActive = true
	}
	return nil
}

func (s *memUserStore) UpdateUserPassword(_ context.Context, email, hash string) error {
	if u := s.byEmail[email]; u != nil {
		u.PasswordHash = hash
	}
	return nil
}

type memRestaurantStore struct {
	restaurants map[string]*models.Restaurant
}

func (s *memRestaurantStore) GetRestaurant(_ context.Context, id string) (*models.Restaurant, error) {
	return s.restaurants[id], nil
}

func (s *memRestaurantStore) ListRestaurantNames(context.Context) ([]string, error) {
	names := make([]string, 0, len(s.restaurants))
	for _, r := range s.restaurants {
		names = append(names, r.Name)
	}
	return names, nil
}

func (s *memRestaurantStore) NearbyRanked(context.Context, string, int) ([]models.RestaurantRanking, error) {
	return nil, nil
}

type echoModel struct{}

func (echoModel) Chat(context.Context, []llm.ChatMessage, []llm.ToolSpec) (llm.ChatResult, error) {
	return llm.ChatResult{Content: "Their Sunday roast is the most praised dish."}, nil
}

func (echoModel) Complete(context.Context, string) (string, error) {
	return "Their Sunday roast is the most praised dish.", nil
}

type testStack struct {
	e       *echo.Echo
	handler *Handler
	users   *memUserStore
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	userStore := newMemUserStore()
	restaurantStore := &memRestaurantStore{restaurants: map[string]*models.Restaurant{
		"restaurant:ivy": {
			Name:          "The Ivy",
			Location:      "1-5 West Street, London",
			Cuisine:       "British, European",
			OverallRating: 4.3,
			Neighbourhood: "Covent Garden",
			AveragePrice:  "£50-80",
		},
	}}

	tokens := auth.NewTokenIssuer("test-secret", 60)
	users := service.NewUserService(userStore, tokens, nil, nil)
	restaurants := service.NewRestaurantService(restaurantStore, nil)
	chat := service.NewChatService(echoModel{}, nil, restaurants, restaurants, nil, nil)

	h := NewHandler(users, restaurants, chat, tokens, metrics.NewCollector(), nil)
	e := echo.New()
	h.RegisterRoutes(e)

	return &testStack{e: e, handler: h, users: userStore}
}

func (ts *testStack) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testStack) signupAndLogin(t *testing.T, email string) string {
	t.Helper()

	rec := ts.request(http.MethodPost, "/users/signup", "", map[string]string{
		"email":         email,
		"password":      "pa55word",
		"restaurant_id": "restaurant:ivy",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.request(http.MethodPost, "/users/login", "", map[string]string{
		"email":    email,
		"password": "pa55word",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestRootAndHealth(t *testing.T) {
	ts := newTestStack(t)

	rec := ts.request(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Restaurant Review Assistant API")

	rec = ts.request(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	ts := newTestStack(t)

	rec := ts.request(http.MethodPost, "/users/signup", "", map[string]string{"email": "a@b.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSignupDuplicate(t *testing.T) {
	ts := newTestStack(t)
	ts.signupAndLogin(t, "alice@example.com")

	rec := ts.request(http.MethodPost, "/users/signup", "", map[string]string{
		"email":    "alice@example.com",
		"password": "pa55word",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestStack(t)
	ts.signupAndLogin(t, "alice@example.com")

	rec := ts.request(http.MethodPost, "/users/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestStack(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/restaurants/me"},
		{http.MethodPost, "/chat/start"},
		{http.MethodPost, "/chat/message"},
		{http.MethodGet, "/chat/history"},
	} {
		rec := ts.request(route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestMe(t *testing.T) {
	ts := newTestStack(t)
	token := ts.signupAndLogin(t, "alice@example.com")

	rec := ts.request(http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, "restaurant:ivy", resp.RestaurantID)
	assert.Equal(t, models.TierFree, resp.Tier)
}

func TestMyRestaurant(t *testing.T) {
	ts := newTestStack(t)
	token := ts.signupAndLogin(t, "alice@example.com")

	rec := ts.request(http.MethodGet, "/restaurants/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "The Ivy")
	// Cuisine is reduced to its first entry.
	assert.Contains(t, rec.Body.String(), `"cuisine":"British"`)
}

func TestRestaurantNames(t *testing.T) {
	ts := newTestStack(t)

	rec := ts.request(http.MethodGet, "/restaurants/names", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Ivy")
}

func TestChatFlow(t *testing.T) {
	ts := newTestStack(t)
	token := ts.signupAndLogin(t, "alice@example.com")

	rec := ts.request(http.MethodPost, "/chat/start", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.request(http.MethodPost, "/chat/message", token, map[string]string{
		"message": "What is the most popular dish?",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Answer string `json:"answer"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "ok", result.Status)
	assert.Contains(t, result.Answer, "Sunday roast")

	rec = ts.request(http.MethodGet, "/chat/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history chatHistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "What is the most popular dish?", history.Messages[0].Content)

	// Restarting the chat clears history.
	rec = ts.request(http.MethodPost, "/chat/start", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.request(http.MethodGet, "/chat/history", token, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Empty(t, history.Messages)
}

func TestChatMessageValidation(t *testing.T) {
	ts := newTestStack(t)
	token := ts.signupAndLogin(t, "alice@example.com")

	rec := ts.request(http.MethodPost, "/chat/message", token, map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPasswordChangeFlow(t *testing.T) {
	ts := newTestStack(t)
	token := ts.signupAndLogin(t, "alice@example.com")

	rec := ts.request(http.MethodPost, "/users/change-password", token, map[string]string{
		"old_password": "wrong",
		"new_password": "new-pw",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.request(http.MethodPost, "/users/change-password", token, map[string]string{
		"old_password": "pa55word",
		"new_password": "new-pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.request(http.MethodPost, "/users/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "new-pw",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStats(t *testing.T) {
	ts := newTestStack(t)

	rec := ts.request(http.MethodGet, "/internal/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "UptimeSeconds")
}

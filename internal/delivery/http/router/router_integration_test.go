package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"gatehouse/config"
	"gatehouse/internal/delivery/http/middleware"
	"gatehouse/internal/delivery/http/router/handler"
	"gatehouse/internal/delivery/http/validator"
	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/domain/repository"
	"gatehouse/internal/infra/auth"
	"gatehouse/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memoryUserStore is an in-memory UserRepository plus TransactionManager,
// enough to exercise the full HTTP stack without a database.
type memoryUserStore struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*entity.User
	byEmail map[string]*entity.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{
		byID:    make(map[uuid.UUID]*entity.User),
		byEmail: make(map[string]*entity.User),
	}
}

func (s *memoryUserStore) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user

	return &copied, nil
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user

	return &copied, nil
}

func (s *memoryUserStore) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return domainerrors.ErrUserAlreadyExists
	}

	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	copied := *user
	s.byID[user.ID] = &copied
	s.byEmail[user.Email] = &copied

	return nil
}

// Execute implements TransactionManager; the in-memory store has no real
// transactions, the callback just runs against the store itself.
func (s *memoryUserStore) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(s)
}

// UserRepo implements RepositoryFactory.
func (s *memoryUserStore) UserRepo() repository.UserRepository {
	return s
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newMemoryUserStore()

	// MinCost keeps the hashing fast; production cost comes from config.
	hasher := auth.NewBcryptHasherWithCost(bcrypt.MinCost)
	tokenSvc, err := auth.NewJWTService(&config.Config{
		SecretKey: "integration-test-secret",
		Auth:      &config.AuthConfig{TokenTTL: time.Hour},
	})
	require.NoError(t, err)

	authUC := impl.NewAuthService(store, store, hasher, tokenSvc, logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	r := NewRouter(RouterParams{
		AuthHandler: handler.NewAuthHandler(handler.AuthHandlerParams{
			AuthUC: authUC,
			Logger: logger,
		}),
		PrivateHandler: handler.NewPrivateHandler(handler.PrivateHandlerParams{
			Logger: logger,
		}),
		AuthMiddleware: middleware.NewAuthMiddleware(tokenSvc),
	})
	r.RegisterRoutes(e)

	return e
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeAuthData(t *testing.T, rec *httptest.ResponseRecorder) (string, map[string]any) {
	t.Helper()

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Token string         `json:"token"`
			User  map[string]any `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	return envelope.Data.Token, envelope.Data.User
}

func TestRouter_RegisterLoginAndRoleGates(t *testing.T) {
	e := newTestServer(t)

	// Register a fresh account.
	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Ana Ruiz","email":"ana@test.com","password":"secret123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	token, user := decodeAuthData(t, rec)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Ana Ruiz", user["name"])
	assert.Equal(t, "ana@test.com", user["email"])
	assert.Equal(t, "user", user["role"])

	// The serialized user must not leak anything password-shaped.
	assert.NotContains(t, rec.Body.String(), "password")

	// Same email again is a conflict.
	rec = doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Ana Again","email":"ana@test.com","password":"different1"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "USER_ALREADY_EXISTS")

	// Login with the right password.
	rec = doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"ana@test.com","password":"secret123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	loginToken, _ := decodeAuthData(t, rec)
	require.NotEmpty(t, loginToken)

	// The token opens the user area but not the admin area.
	rec = doJSON(e, http.MethodGet, "/private/user", "", loginToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/private/admin", "", loginToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// No token at all.
	rec = doJSON(e, http.MethodGet, "/private/user", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_LoginFailuresAreIndistinguishable(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Ana Ruiz","email":"ana@test.com","password":"secret123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"ana@test.com","password":"totally-wrong"}`, "")
	unknownEmail := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"ghost@test.com","password":"secret123"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Contains(t, wrongPassword.Body.String(), "INVALID_CREDENTIALS")
}

func TestRouter_RegisterValidation(t *testing.T) {
	e := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{name: "name too short", body: `{"name":"Al","email":"al@test.com","password":"secret123"}`},
		{name: "bad email", body: `{"name":"Ana Ruiz","email":"not-an-email","password":"secret123"}`},
		{name: "password too short", body: `{"name":"Ana Ruiz","email":"ana@test.com","password":"12345"}`},
		{name: "unknown role", body: `{"name":"Ana Ruiz","email":"ana@test.com","password":"secret123","role":"superuser"}`},
		{name: "missing everything", body: `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/auth/register", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
		})
	}
}

func TestRouter_AdminRegistrationReachesAdminArea(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Root Ruiz","email":"root@test.com","password":"secret123","role":"admin"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	token, user := decodeAuthData(t, rec)
	assert.Equal(t, "admin", user["role"])

	rec = doJSON(e, http.MethodGet, "/private/admin", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/private/user", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_EmailIsNormalizedAcrossRegisterAndLogin(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register",
		fmt.Sprintf(`{"name":"Ana Ruiz","email":%q,"password":"secret123"}`, "Ana@Test.com"), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	_, user := decodeAuthData(t, rec)
	assert.Equal(t, "ana@test.com", user["email"])

	// Login with a differently-cased spelling of the same address.
	rec = doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"ANA@TEST.COM","password":"secret123"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_HealthCheck(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

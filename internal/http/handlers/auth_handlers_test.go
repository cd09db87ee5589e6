package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecopulse/internal/models"
	"ecopulse/internal/password"
	"ecopulse/internal/repository"
	"ecopulse/internal/service"
)

type authStoreStub struct {
	createErr error
	byEmail   map[string]*models.User
}

func newAuthStoreStub() *authStoreStub {
	return &authStoreStub{byEmail: make(map[string]*models.User)}
}

func (s *authStoreStub) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = uuid.New()
	s.byEmail[user.Email] = user
	return nil
}

func (s *authStoreStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *authStoreStub) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return nil, repository.ErrUserNotFound
}

func newAuthHandlersForTest(store *authStoreStub) *AuthHandlers {
	tokens := service.NewTokenService("test-secret", time.Hour)
	auth := service.NewAuthService(store, password.NewBcryptHasher(4), tokens, zap.NewNop())
	return NewAuthHandlers(auth, zap.NewNop())
}

func postSignup(t *testing.T, h *AuthHandlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)
	return rec
}

func TestSignupCreatesUser(t *testing.T) {
	h := newAuthHandlersForTest(newAuthStoreStub())
	rec := postSignup(t, h, `{"email":"jane@example.com","password":"s3cret-pass","full_name":"Jane"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), "jane@example.com")
}

func TestSignupValidationReturnsBadRequest(t *testing.T) {
	h := newAuthHandlersForTest(newAuthStoreStub())

	rec := postSignup(t, h, `{"email":"","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postSignup(t, h, `{"email":"jane@example.com","password":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupDuplicateEmailReturnsConflict(t *testing.T) {
	h := newAuthHandlersForTest(newAuthStoreStub())
	body := `{"email":"jane@example.com","password":"s3cret-pass"}`

	require.Equal(t, http.StatusCreated, postSignup(t, h, body).Code)
	require.Equal(t, http.StatusConflict, postSignup(t, h, body).Code)
}

func TestSignupStoreFailureReturnsInternalError(t *testing.T) {
	store := newAuthStoreStub()
	store.createErr = errors.New("connection refused")
	h := newAuthHandlersForTest(store)

	rec := postSignup(t, h, `{"email":"jane@example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "signup failed")
	require.NotContains(t, rec.Body.String(), "connection refused")
}

package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/echoplay/echoplay-backend/internal/gateway/middleware"
	"github.com/echoplay/echoplay-backend/internal/modules/auth/application"
	"github.com/echoplay/echoplay-backend/internal/modules/auth/domain"
	authhttp "github.com/echoplay/echoplay-backend/internal/modules/auth/interfaces/http"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, req application.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req application.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRegisterHandler_Created(t *testing.T) {
	svc := new(mockAuthService)
	user := &domain.User{ID: uuid.New(), Email: "a@b.com", FullName: "Test User"}
	svc.On("Register", mock.Anything, mock.Anything).Return(user, nil)

	req := httptest.NewRequest("POST", "/register",
		strings.NewReader(`{"fullName":"Test User","email":"a@b.com","password":"password123"}`))
	w := httptest.NewRecorder()
	authhttp.NewAuthHandler(svc).Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var got domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, user.ID, got.ID)
	assert.NotContains(t, w.Body.String(), "password", "credential hash must never leave the API")
}

func TestRegisterHandler_Conflict(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, domain.ErrUserAlreadyExists)

	req := httptest.NewRequest("POST", "/register",
		strings.NewReader(`{"fullName":"Test User","email":"dup@b.com","password":"password123"}`))
	w := httptest.NewRecorder()
	authhttp.NewAuthHandler(svc).Register(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"user already exists"}`, w.Body.String())
}

func TestRegisterHandler_InvalidBody(t *testing.T) {
	svc := new(mockAuthService)

	req := httptest.NewRequest("POST", "/register", strings.NewReader(`not json`))
	w := httptest.NewRecorder()
	authhttp.NewAuthHandler(svc).Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Register")
}

func TestLoginHandler_ReturnsToken(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, application.LoginRequest{Email: "a@b.com", Password: "password123"}).
		Return("jwt-token", nil)

	req := httptest.NewRequest("POST", "/login",
		strings.NewReader(`{"email":"a@b.com","password":"password123"}`))
	w := httptest.NewRecorder()
	authhttp.NewAuthHandler(svc).Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"jwt-token"}`, w.Body.String())
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, mock.Anything).Return("", domain.ErrInvalidCredentials)

	req := httptest.NewRequest("POST", "/login",
		strings.NewReader(`{"email":"a@b.com","password":"wrong"}`))
	w := httptest.NewRecorder()
	authhttp.NewAuthHandler(svc).Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, w.Body.String())
}

func TestMeHandler_ReturnsCurrentUser(t *testing.T) {
	userID := uuid.New()
	svc := new(mockAuthService)
	svc.On("GetUser", mock.Anything, userID).
		Return(&domain.User{ID: userID, Email: "a@b.com"}, nil)

	req := httptest.NewRequest("GET", "/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyUserID, userID))
	w := httptest.NewRecorder()
	authhttp.NewAuthHandler(svc).Me(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, userID, got.ID)
}

func TestMeHandler_NoUserInContext(t *testing.T) {
	svc := new(mockAuthService)

	req := httptest.NewRequest("GET", "/me", nil)
	w := httptest.NewRecorder()
	authhttp.NewAuthHandler(svc).Me(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "GetUser")
}

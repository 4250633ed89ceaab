package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/echoplay/echoplay-backend/internal/modules/auth/application"
	"github.com/echoplay/echoplay-backend/internal/modules/auth/domain"
	"github.com/echoplay/echoplay-backend/internal/shared/utils"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func newService(repo domain.UserRepository) *application.AuthService {
	return application.NewAuthService(repo, "test-secret", time.Hour)
}

func TestRegister_Success(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := newService(repo).Register(context.Background(), application.RegisterRequest{
		FullName: "Test User",
		Email:    "Test@Example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email, "email should be stored lower-cased")
	assert.Equal(t, "Test User", user.FullName)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	repo.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  application.RegisterRequest
	}{
		{"missing full name", application.RegisterRequest{Email: "a@b.com", Password: "password123"}},
		{"short password", application.RegisterRequest{FullName: "A", Email: "a@b.com", Password: "short"}},
		{"invalid email", application.RegisterRequest{FullName: "A", Email: "not-an-email", Password: "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockUserRepo)
			_, err := newService(repo).Register(context.Background(), tt.req)
			assert.Error(t, err)
			repo.AssertNotCalled(t, "Create")
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrUserAlreadyExists)

	_, err := newService(repo).Register(context.Background(), application.RegisterRequest{
		FullName: "Test User",
		Email:    "dup@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &domain.User{ID: uuid.New(), Email: "a@b.com", PasswordHash: string(hash)}
	repo := new(mockUserRepo)
	repo.On("GetByEmail", mock.Anything, "a@b.com").Return(user, nil)

	token, err := newService(repo).Login(context.Background(), application.LoginRequest{
		Email:    "a@b.com",
		Password: "password123",
	})

	require.NoError(t, err)
	claims, err := utils.ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &domain.User{ID: uuid.New(), Email: "a@b.com", PasswordHash: string(hash)}
	repo := new(mockUserRepo)
	repo.On("GetByEmail", mock.Anything, "a@b.com").Return(user, nil)

	_, err = newService(repo).Login(context.Background(), application.LoginRequest{
		Email:    "a@b.com",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

// An unknown email must produce the same error as a wrong password so the
// endpoint cannot be used to probe which addresses are registered.
func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("GetByEmail", mock.Anything, "nobody@b.com").Return(nil, domain.ErrUserNotFound)

	_, err := newService(repo).Login(context.Background(), application.LoginRequest{
		Email:    "nobody@b.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_MissingFields(t *testing.T) {
	repo := new(mockUserRepo)
	_, err := newService(repo).Login(context.Background(), application.LoginRequest{Email: "a@b.com"})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "GetByEmail")
}

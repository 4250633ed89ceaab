package auth

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/echoplay/echoplay-backend/internal/modules/auth/application"
	"github.com/echoplay/echoplay-backend/internal/modules/auth/infrastructure/persistence/postgres"
	auth_http "github.com/echoplay/echoplay-backend/internal/modules/auth/interfaces/http"
)

// Module represents the Auth module
type Module struct {
	service    *application.AuthService
	repository *postgres.PgUserRepository
	handler    *auth_http.AuthHandler
}

// NewModule creates and initializes the Auth module
func NewModule(db *sqlx.DB, jwtSecret string, jwtExpiry time.Duration) *Module {
	repository := postgres.NewUserRepository(db)
	service := application.NewAuthService(repository, jwtSecret, jwtExpiry)
	handler := auth_http.NewAuthHandler(service)

	return &Module{
		service:    service,
		repository: repository,
		handler:    handler,
	}
}

// Service returns the auth service
func (m *Module) Service() *application.AuthService {
	return m.service
}

// HTTPHandler returns the HTTP handler for the auth module
func (m *Module) HTTPHandler() *auth_http.AuthHandler {
	return m.handler
}

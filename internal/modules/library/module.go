package library

import (
	"github.com/jmoiron/sqlx"

	"github.com/echoplay/echoplay-backend/internal/modules/library/application"
	"github.com/echoplay/echoplay-backend/internal/modules/library/infrastructure/persistence/postgres"
	library_http "github.com/echoplay/echoplay-backend/internal/modules/library/interfaces/http"
)

// Module represents the Library module
type Module struct {
	service    *application.LibraryService
	repository *postgres.PgLibraryRepository
	handler    *library_http.LibraryHandler
}

// NewModule creates and initializes the Library module
func NewModule(db *sqlx.DB) *Module {
	repository := postgres.NewLibraryRepository(db)
	service := application.NewLibraryService(repository)
	handler := library_http.NewLibraryHandler(service)

	return &Module{
		service:    service,
		repository: repository,
		handler:    handler,
	}
}

// Service returns the library service
func (m *Module) Service() *application.LibraryService {
	return m.service
}

// HTTPHandler returns the HTTP handler for the library module
func (m *Module) HTTPHandler() *library_http.LibraryHandler {
	return m.handler
}

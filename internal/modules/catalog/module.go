package catalog

import (
	"github.com/redis/go-redis/v9"

	"github.com/echoplay/echoplay-backend/internal/modules/catalog/application"
	"github.com/echoplay/echoplay-backend/internal/modules/catalog/infrastructure/saavn"
	catalog_http "github.com/echoplay/echoplay-backend/internal/modules/catalog/interfaces/http"
	"github.com/echoplay/echoplay-backend/internal/shared/infrastructure/config"
)

// Module represents the Catalog module
type Module struct {
	service *application.CatalogService
	client  *saavn.Client
	handler *catalog_http.CatalogHandler
}

// NewModule creates and initializes the Catalog module. redisClient may be
// nil to disable response caching.
func NewModule(cfg config.CatalogConfig, redisClient *redis.Client) *Module {
	client := saavn.NewClient(cfg.BaseURL, cfg.RequestTimeout, cfg.RatePerSecond, cfg.RateBurst)
	service := application.NewCatalogService(client)
	handler := catalog_http.NewCatalogHandler(service, redisClient, cfg.CacheTTL)

	return &Module{
		service: service,
		client:  client,
		handler: handler,
	}
}

// Service returns the catalog service
func (m *Module) Service() *application.CatalogService {
	return m.service
}

// HTTPHandler returns the HTTP handler for the catalog module
func (m *Module) HTTPHandler() *catalog_http.CatalogHandler {
	return m.handler
}

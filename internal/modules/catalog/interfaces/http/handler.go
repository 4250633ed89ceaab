package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/echoplay/echoplay-backend/internal/modules/catalog/domain"
	"github.com/echoplay/echoplay-backend/internal/shared/utils"
)

// CatalogService defines the interface for catalog lookups
type CatalogService interface {
	Search(ctx context.Context, query string) ([]domain.Song, error)
	GetSong(ctx context.Context, id string) (*domain.Song, error)
}

type CatalogHandler struct {
	service     CatalogService
	redisClient *redis.Client
	cacheTTL    time.Duration
}

// NewCatalogHandler creates the catalog HTTP handler. redisClient may be nil,
// in which case every request goes straight to the upstream.
func NewCatalogHandler(service CatalogService, redisClient *redis.Client, cacheTTL time.Duration) *CatalogHandler {
	return &CatalogHandler{
		service:     service,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

func (h *CatalogHandler) fromCache(ctx context.Context, key string) ([]byte, bool) {
	if h.redisClient == nil {
		return nil, false
	}
	val, err := h.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (h *CatalogHandler) saveToCache(key string, body []byte) {
	if h.redisClient == nil {
		return
	}
	// Async: a slow or down cache must not delay the response.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		h.redisClient.Set(ctx, key, body, h.cacheTTL)
	}()
}

func writeCached(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "HIT")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func writeFresh(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Search handles GET /music/search?query=
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		utils.WriteFailure(w, http.StatusBadRequest, "Search query is required")
		return
	}

	cacheKey := "catalog:search:" + query
	if body, ok := h.fromCache(r.Context(), cacheKey); ok {
		writeCached(w, body)
		return
	}

	songs, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	body, err := json.Marshal(utils.Envelope{
		Success: true,
		Data:    map[string]any{"results": songs},
	})
	if err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	h.saveToCache(cacheKey, body)
	writeFresh(w, body)
}

// GetSong handles GET /music/songs/{id}
func (h *CatalogHandler) GetSong(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.WriteFailure(w, http.StatusBadRequest, "Song ID is required")
		return
	}

	cacheKey := "catalog:song:" + id
	if body, ok := h.fromCache(r.Context(), cacheKey); ok {
		writeCached(w, body)
		return
	}

	song, err := h.service.GetSong(r.Context(), id)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	body, err := json.Marshal(utils.Envelope{Success: true, Data: song})
	if err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	h.saveToCache(cacheKey, body)
	writeFresh(w, body)
}

func (h *CatalogHandler) writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSongNotFound):
		utils.WriteFailure(w, http.StatusNotFound, "Song not found")
	case errors.Is(err, domain.ErrUpstream):
		log.Printf("catalog upstream error: %v", err)
		utils.WriteFailure(w, http.StatusBadGateway, "Error fetching songs")
	default:
		log.Printf("catalog error: %v", err)
		utils.WriteFailure(w, http.StatusInternalServerError, "Something went wrong")
	}
}

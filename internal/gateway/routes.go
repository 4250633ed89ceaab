package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/echoplay/echoplay-backend/internal/gateway/middleware"
	auth_http "github.com/echoplay/echoplay-backend/internal/modules/auth/interfaces/http"
	catalog_http "github.com/echoplay/echoplay-backend/internal/modules/catalog/interfaces/http"
	library_http "github.com/echoplay/echoplay-backend/internal/modules/library/interfaces/http"
)

// RouterConfig holds all the handlers and middleware needed for routing
type RouterConfig struct {
	AuthHandler    *auth_http.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	LibraryHandler *library_http.LibraryHandler
	CatalogHandler *catalog_http.CatalogHandler
}

// SetupRoutes creates and configures all application routes
func SetupRoutes(config RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	// Health Check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus Metrics Endpoint
	mux.Handle("/metrics", promhttp.Handler())

	requireAuth := config.AuthMiddleware.RequireAuth

	// Auth Routes
	mux.HandleFunc("POST /register", config.AuthHandler.Register)
	mux.HandleFunc("POST /login", config.AuthHandler.Login)
	mux.Handle("GET /me", requireAuth(http.HandlerFunc(config.AuthHandler.Me)))

	// Profile & Settings Routes
	mux.Handle("GET /profile", requireAuth(http.HandlerFunc(config.LibraryHandler.GetProfile)))
	mux.Handle("PUT /profile", requireAuth(http.HandlerFunc(config.LibraryHandler.UpdateProfile)))
	mux.Handle("PUT /settings", requireAuth(http.HandlerFunc(config.LibraryHandler.UpdateSettings)))

	// Favorites Routes
	mux.Handle("GET /favorites", requireAuth(http.HandlerFunc(config.LibraryHandler.ListFavorites)))
	mux.Handle("POST /favorites", requireAuth(http.HandlerFunc(config.LibraryHandler.AddFavorite)))
	mux.Handle("DELETE /favorites/{songId}", requireAuth(http.HandlerFunc(config.LibraryHandler.RemoveFavorite)))

	// Playlist Routes
	mux.Handle("GET /playlists", requireAuth(http.HandlerFunc(config.LibraryHandler.ListPlaylists)))
	mux.Handle("POST /playlists", requireAuth(http.HandlerFunc(config.LibraryHandler.CreatePlaylist)))
	mux.Handle("DELETE /playlists/{id}", requireAuth(http.HandlerFunc(config.LibraryHandler.DeletePlaylist)))
	mux.Handle("POST /playlists/{id}/songs", requireAuth(http.HandlerFunc(config.LibraryHandler.AddSongToPlaylist)))
	mux.Handle("DELETE /playlists/{id}/songs/{songId}", requireAuth(http.HandlerFunc(config.LibraryHandler.RemoveSongFromPlaylist)))

	// Recently Played Routes
	mux.Handle("POST /recently-played", requireAuth(http.HandlerFunc(config.LibraryHandler.RecordRecentlyPlayed)))

	// Music Catalog Routes
	mux.Handle("GET /music/search", requireAuth(http.HandlerFunc(config.CatalogHandler.Search)))
	mux.Handle("GET /music/songs/{id}", requireAuth(http.HandlerFunc(config.CatalogHandler.GetSong)))

	return mux
}

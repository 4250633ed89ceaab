package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/echoplay/echoplay-backend/internal/gateway/middleware"
	"github.com/echoplay/echoplay-backend/internal/modules/library/application"
	"github.com/echoplay/echoplay-backend/internal/modules/library/domain"
	"github.com/echoplay/echoplay-backend/internal/shared/utils"
)

// LibraryService defines the interface for library operations
type LibraryService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req application.UpdateProfileRequest) (*domain.Profile, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, req application.UpdateSettingsRequest) (*domain.Settings, error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]domain.SongRef, error)
	AddFavorite(ctx context.Context, userID uuid.UUID, song domain.SongRef) ([]domain.SongRef, error)
	RemoveFavorite(ctx context.Context, userID uuid.UUID, songID string) ([]domain.SongRef, error)
	ListPlaylists(ctx context.Context, userID uuid.UUID) ([]domain.Playlist, error)
	CreatePlaylist(ctx context.Context, userID uuid.UUID, name string) ([]domain.Playlist, error)
	DeletePlaylist(ctx context.Context, userID, playlistID uuid.UUID) ([]domain.Playlist, error)
	AddSongToPlaylist(ctx context.Context, userID, playlistID uuid.UUID, song domain.SongRef) (*domain.Playlist, error)
	RemoveSongFromPlaylist(ctx context.Context, userID, playlistID uuid.UUID, songID string) (*domain.Playlist, error)
	RecordRecentlyPlayed(ctx context.Context, userID uuid.UUID, song domain.SongRef) ([]domain.PlayEntry, error)
}

type LibraryHandler struct {
	service LibraryService
}

func NewLibraryHandler(service LibraryService) *LibraryHandler {
	return &LibraryHandler{service: service}
}

func (h *LibraryHandler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		utils.WriteFailure(w, http.StatusUnauthorized, "No authentication token, access denied")
		return uuid.Nil, false
	}
	return userID, true
}

// writeServiceError maps domain errors to HTTP responses. Unexpected errors
// are logged and surfaced generically.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		utils.WriteFailure(w, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrPlaylistNotFound):
		utils.WriteFailure(w, http.StatusNotFound, "Playlist not found")
	case errors.Is(err, domain.ErrAlreadyFavorite):
		utils.WriteFailure(w, http.StatusConflict, "Song already in favorites")
	case errors.Is(err, domain.ErrSongInPlaylist):
		utils.WriteFailure(w, http.StatusConflict, "Song already in playlist")
	case errors.Is(err, domain.ErrEmailInUse):
		utils.WriteFailure(w, http.StatusConflict, "Email is already in use")
	case errors.Is(err, domain.ErrValidation):
		utils.WriteFailure(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("library error: %v", err)
		utils.WriteFailure(w, http.StatusInternalServerError, "Something went wrong")
	}
}

// GetProfile handles GET /profile
func (h *LibraryHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", profile)
}

// UpdateProfile handles PUT /profile
func (h *LibraryHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req application.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Profile updated successfully", profile)
}

// UpdateSettings handles PUT /settings
func (h *LibraryHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req application.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Settings updated", settings)
}

// ListFavorites handles GET /favorites
func (h *LibraryHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	favorites, err := h.service.ListFavorites(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", favorites)
}

// AddFavorite handles POST /favorites
func (h *LibraryHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var song domain.SongRef
	if err := json.NewDecoder(r.Body).Decode(&song); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	favorites, err := h.service.AddFavorite(r.Context(), userID, song)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Added to favorites", favorites)
}

// RemoveFavorite handles DELETE /favorites/{songId}
func (h *LibraryHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	favorites, err := h.service.RemoveFavorite(r.Context(), userID, r.PathValue("songId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Removed from favorites", favorites)
}

// ListPlaylists handles GET /playlists
func (h *LibraryHandler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	playlists, err := h.service.ListPlaylists(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", playlists)
}

// CreatePlaylist handles POST /playlists
func (h *LibraryHandler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	playlists, err := h.service.CreatePlaylist(r.Context(), userID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Playlist created", playlists)
}

// DeletePlaylist handles DELETE /playlists/{id}
func (h *LibraryHandler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	playlistID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid playlist id")
		return
	}

	playlists, err := h.service.DeletePlaylist(r.Context(), userID, playlistID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Playlist deleted", playlists)
}

// AddSongToPlaylist handles POST /playlists/{id}/songs
func (h *LibraryHandler) AddSongToPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	playlistID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid playlist id")
		return
	}

	var song domain.SongRef
	if err := json.NewDecoder(r.Body).Decode(&song); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	playlist, err := h.service.AddSongToPlaylist(r.Context(), userID, playlistID, song)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Song added to playlist", playlist)
}

// RemoveSongFromPlaylist handles DELETE /playlists/{id}/songs/{songId}
func (h *LibraryHandler) RemoveSongFromPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	playlistID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid playlist id")
		return
	}

	playlist, err := h.service.RemoveSongFromPlaylist(r.Context(), userID, playlistID, r.PathValue("songId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Song removed from playlist", playlist)
}

// RecordRecentlyPlayed handles POST /recently-played
func (h *LibraryHandler) RecordRecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var song domain.SongRef
	if err := json.NewDecoder(r.Body).Decode(&song); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entries, err := h.service.RecordRecentlyPlayed(r.Context(), userID, song)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Recently played updated", entries)
}

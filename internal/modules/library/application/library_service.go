package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/echoplay/echoplay-backend/internal/modules/library/domain"
	"github.com/echoplay/echoplay-backend/internal/shared/utils"
)

// UpdateProfileRequest carries a partial profile update; nil fields are left
// untouched.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UpdateSettingsRequest carries a partial settings update.
type UpdateSettingsRequest struct {
	Theme    *domain.Theme `json:"theme"`
	Volume   *float64      `json:"volume"`
	Autoplay *bool         `json:"autoplay"`
}

// LibraryService owns all reads and mutations of a user's library: profile,
// settings, favorites, playlists and the recently played log. Every operation
// is scoped to the caller's own user id; there is no cross-user access path.
type LibraryService struct {
	repo domain.Repository
}

// NewLibraryService creates a new library service
func NewLibraryService(repo domain.Repository) *LibraryService {
	return &LibraryService{repo: repo}
}

// GetProfile returns the user's full state minus the credential hash.
func (s *LibraryService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	account, err := s.repo.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	favorites, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}

	playlists, err := s.repo.ListPlaylists(ctx, userID)
	if err != nil {
		return nil, err
	}

	recentlyPlayed, err := s.repo.ListRecentlyPlayed(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.Profile{
		ID:             account.ID,
		FullName:       account.FullName,
		Email:          account.Email,
		Settings:       account.Settings,
		Favorites:      favorites,
		Playlists:      playlists,
		RecentlyPlayed: recentlyPlayed,
		CreatedAt:      account.CreatedAt,
	}, nil
}

// UpdateProfile applies a partial profile update. A new password is hashed
// before it is persisted; a new email is lower-cased, and taking an email
// that belongs to a different user fails with ErrEmailInUse.
func (s *LibraryService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*domain.Profile, error) {
	var email *string
	if req.Email != nil {
		if !utils.IsValidEmail(*req.Email) {
			return nil, fmt.Errorf("%w: invalid email format", domain.ErrValidation)
		}
		lowered := strings.ToLower(*req.Email)
		email = &lowered
	}

	var passwordHash *string
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashedStr := string(hashed)
		passwordHash = &hashedStr
	}

	if err := s.repo.UpdateAccount(ctx, userID, req.FullName, email, passwordHash); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}

// UpdateSettings applies a partial settings update. The theme enum and the
// volume range are enforced here even though the storage layer also carries
// check constraints.
func (s *LibraryService) UpdateSettings(ctx context.Context, userID uuid.UUID, req UpdateSettingsRequest) (*domain.Settings, error) {
	if req.Theme != nil && *req.Theme != domain.ThemeLight && *req.Theme != domain.ThemeDark {
		return nil, fmt.Errorf("%w: theme must be light or dark", domain.ErrValidation)
	}
	if req.Volume != nil && (*req.Volume < 0 || *req.Volume > 1) {
		return nil, fmt.Errorf("%w: volume must be between 0 and 1", domain.ErrValidation)
	}

	if err := s.repo.UpdateSettings(ctx, userID, req.Theme, req.Volume, req.Autoplay); err != nil {
		return nil, err
	}

	account, err := s.repo.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &account.Settings, nil
}

// ListFavorites returns the user's favorites in insertion order.
func (s *LibraryService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]domain.SongRef, error) {
	return s.repo.ListFavorites(ctx, userID)
}

// AddFavorite appends a song to the favorites and returns the updated list.
// Adding a song that is already a favorite fails with ErrAlreadyFavorite.
func (s *LibraryService) AddFavorite(ctx context.Context, userID uuid.UUID, song domain.SongRef) ([]domain.SongRef, error) {
	if song.SongID == "" {
		return nil, fmt.Errorf("%w: songId is required", domain.ErrValidation)
	}
	song.AddedAt = time.Now()

	if err := s.repo.AddFavorite(ctx, userID, song); err != nil {
		return nil, err
	}
	return s.repo.ListFavorites(ctx, userID)
}

// RemoveFavorite removes a song from the favorites and returns the updated
// list. Removing an absent song id succeeds.
func (s *LibraryService) RemoveFavorite(ctx context.Context, userID uuid.UUID, songID string) ([]domain.SongRef, error) {
	if err := s.repo.RemoveFavorite(ctx, userID, songID); err != nil {
		return nil, err
	}
	return s.repo.ListFavorites(ctx, userID)
}

// ListPlaylists returns all of the user's playlists with their songs.
func (s *LibraryService) ListPlaylists(ctx context.Context, userID uuid.UUID) ([]domain.Playlist, error) {
	return s.repo.ListPlaylists(ctx, userID)
}

// CreatePlaylist creates an empty playlist and returns the full updated list.
func (s *LibraryService) CreatePlaylist(ctx context.Context, userID uuid.UUID, name string) ([]domain.Playlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: playlist name is required", domain.ErrValidation)
	}

	playlist := &domain.Playlist{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.CreatePlaylist(ctx, playlist); err != nil {
		return nil, err
	}
	return s.repo.ListPlaylists(ctx, userID)
}

// DeletePlaylist removes a playlist and returns the remaining list. Deleting
// an absent playlist id succeeds.
func (s *LibraryService) DeletePlaylist(ctx context.Context, userID, playlistID uuid.UUID) ([]domain.Playlist, error) {
	if err := s.repo.DeletePlaylist(ctx, userID, playlistID); err != nil {
		return nil, err
	}
	return s.repo.ListPlaylists(ctx, userID)
}

// AddSongToPlaylist appends a song to one of the user's playlists and returns
// the updated playlist. Duplicate song ids within the playlist fail with
// ErrSongInPlaylist; the same song may live in any number of other playlists.
func (s *LibraryService) AddSongToPlaylist(ctx context.Context, userID, playlistID uuid.UUID, song domain.SongRef) (*domain.Playlist, error) {
	if song.SongID == "" {
		return nil, fmt.Errorf("%w: songId is required", domain.ErrValidation)
	}

	// Ownership check; also surfaces ErrPlaylistNotFound.
	if _, err := s.repo.GetPlaylist(ctx, userID, playlistID); err != nil {
		return nil, err
	}

	song.AddedAt = time.Now()
	if err := s.repo.AddPlaylistSong(ctx, playlistID, song); err != nil {
		return nil, err
	}
	return s.repo.GetPlaylist(ctx, userID, playlistID)
}

// RemoveSongFromPlaylist removes a song from one of the user's playlists and
// returns the updated playlist. Removing an absent song id succeeds.
func (s *LibraryService) RemoveSongFromPlaylist(ctx context.Context, userID, playlistID uuid.UUID, songID string) (*domain.Playlist, error) {
	if _, err := s.repo.GetPlaylist(ctx, userID, playlistID); err != nil {
		return nil, err
	}

	if err := s.repo.RemovePlaylistSong(ctx, playlistID, songID); err != nil {
		return nil, err
	}
	return s.repo.GetPlaylist(ctx, userID, playlistID)
}

// RecordRecentlyPlayed records a play: any existing entry for the song moves
// to the front with a fresh timestamp, and the log is trimmed to the newest
// twenty entries. Returns the updated log, newest first.
func (s *LibraryService) RecordRecentlyPlayed(ctx context.Context, userID uuid.UUID, song domain.SongRef) ([]domain.PlayEntry, error) {
	if song.SongID == "" {
		return nil, fmt.Errorf("%w: songId is required", domain.ErrValidation)
	}

	entry := domain.PlayEntry{
		SongID:    song.SongID,
		Name:      song.Name,
		Artist:    song.Artist,
		ImageURL:  song.ImageURL,
		StreamURL: song.StreamURL,
		PlayedAt:  time.Now(),
	}
	if err := s.repo.RecordPlay(ctx, userID, entry); err != nil {
		return nil, err
	}
	return s.repo.ListRecentlyPlayed(ctx, userID)
}

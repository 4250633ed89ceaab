package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecentlyPlayedLimit bounds the recently played log per user.
const RecentlyPlayedLimit = 20

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings is the per-user player configuration.
type Settings struct {
	Theme    Theme   `json:"theme" db:"theme"`
	Volume   float64 `json:"volume" db:"volume"`
	Autoplay bool    `json:"autoplay" db:"autoplay"`
}

// SongRef is a denormalized snapshot of a track taken at the moment it was
// added to a collection. It deliberately does not reference a canonical song
// record; later catalog changes never touch stored references.
type SongRef struct {
	SongID    string    `json:"songId" db:"song_id"`
	Name      string    `json:"name" db:"name"`
	Artist    string    `json:"artist" db:"artist"`
	ImageURL  string    `json:"imageUrl" db:"image_url"`
	StreamURL string    `json:"downloadUrl" db:"stream_url"`
	AddedAt   time.Time `json:"addedAt" db:"added_at"`
}

// PlayEntry is a recently-played log entry.
type PlayEntry struct {
	SongID    string    `json:"songId" db:"song_id"`
	Name      string    `json:"name" db:"name"`
	Artist    string    `json:"artist" db:"artist"`
	ImageURL  string    `json:"imageUrl" db:"image_url"`
	StreamURL string    `json:"downloadUrl" db:"stream_url"`
	PlayedAt  time.Time `json:"playedAt" db:"played_at"`
}

// Playlist is an ordered, user-owned collection of song references.
type Playlist struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"-" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Songs     []SongRef `json:"songs"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// Account is the user row as the library module sees it: identity plus the
// settings columns, never the credential hash.
type Account struct {
	ID        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	FullName  string    `db:"full_name"`
	Settings
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Profile is the full per-user state returned by GET /profile.
type Profile struct {
	ID             uuid.UUID   `json:"id"`
	FullName       string      `json:"fullName"`
	Email          string      `json:"email"`
	Settings       Settings    `json:"settings"`
	Favorites      []SongRef   `json:"favorites"`
	Playlists      []Playlist  `json:"playlists"`
	RecentlyPlayed []PlayEntry `json:"recentlyPlayed"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// Repository persists a user's library. Every mutation is a field-scoped
// atomic statement (or a short transaction), so concurrent writers to the
// same user cannot lose each other's updates.
type Repository interface {
	GetAccount(ctx context.Context, userID uuid.UUID) (*Account, error)
	UpdateAccount(ctx context.Context, userID uuid.UUID, fullName, email, passwordHash *string) error
	UpdateSettings(ctx context.Context, userID uuid.UUID, theme *Theme, volume *float64, autoplay *bool) error

	ListFavorites(ctx context.Context, userID uuid.UUID) ([]SongRef, error)
	AddFavorite(ctx context.Context, userID uuid.UUID, song SongRef) error
	RemoveFavorite(ctx context.Context, userID uuid.UUID, songID string) error

	ListPlaylists(ctx context.Context, userID uuid.UUID) ([]Playlist, error)
	GetPlaylist(ctx context.Context, userID, playlistID uuid.UUID) (*Playlist, error)
	CreatePlaylist(ctx context.Context, playlist *Playlist) error
	DeletePlaylist(ctx context.Context, userID, playlistID uuid.UUID) error
	AddPlaylistSong(ctx context.Context, playlistID uuid.UUID, song SongRef) error
	RemovePlaylistSong(ctx context.Context, playlistID uuid.UUID, songID string) error

	RecordPlay(ctx context.Context, userID uuid.UUID, entry PlayEntry) error
	ListRecentlyPlayed(ctx context.Context, userID uuid.UUID) ([]PlayEntry, error)
}

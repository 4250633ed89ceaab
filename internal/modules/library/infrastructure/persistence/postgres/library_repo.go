package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/echoplay/echoplay-backend/internal/modules/library/domain"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type PgLibraryRepository struct {
	db *sqlx.DB
}

// NewLibraryRepository creates and returns a new PostgreSQL-based library
// repository. All mutations it issues are single statements (or short
// transactions) scoped to the fields they change, so two devices mutating the
// same user's collections concurrently cannot overwrite each other.
func NewLibraryRepository(db *sqlx.DB) *PgLibraryRepository {
	return &PgLibraryRepository{db: db}
}

func pqErrCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// GetAccount loads the user row, settings columns included.
func (r *PgLibraryRepository) GetAccount(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	account := &domain.Account{}
	query := `SELECT id, email, full_name, theme, volume, autoplay, created_at, updated_at
		FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, account, query, userID)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// UpdateAccount updates only the provided profile fields. A unique violation
// on the email index is mapped to domain.ErrEmailInUse.
func (r *PgLibraryRepository) UpdateAccount(ctx context.Context, userID uuid.UUID, fullName, email, passwordHash *string) error {
	setClauses := []string{}
	args := []interface{}{}
	argIndex := 1

	if fullName != nil {
		setClauses = append(setClauses, fmt.Sprintf("full_name = $%d", argIndex))
		args = append(args, fullName)
		argIndex++
	}
	if email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argIndex))
		args = append(args, email)
		argIndex++
	}
	if passwordHash != nil {
		setClauses = append(setClauses, fmt.Sprintf("password_hash = $%d", argIndex))
		args = append(args, passwordHash)
		argIndex++
	}

	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	args = append(args, userID)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argIndex)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErrCode(err) == pqUniqueViolation {
			return domain.ErrEmailInUse
		}
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateSettings writes exactly the provided settings fields.
func (r *PgLibraryRepository) UpdateSettings(ctx context.Context, userID uuid.UUID, theme *domain.Theme, volume *float64, autoplay *bool) error {
	setClauses := []string{}
	args := []interface{}{}
	argIndex := 1

	if theme != nil {
		setClauses = append(setClauses, fmt.Sprintf("theme = $%d", argIndex))
		args = append(args, theme)
		argIndex++
	}
	if volume != nil {
		setClauses = append(setClauses, fmt.Sprintf("volume = $%d", argIndex))
		args = append(args, volume)
		argIndex++
	}
	if autoplay != nil {
		setClauses = append(setClauses, fmt.Sprintf("autoplay = $%d", argIndex))
		args = append(args, autoplay)
		argIndex++
	}

	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	args = append(args, userID)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argIndex)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListFavorites returns the user's favorites in insertion order.
func (r *PgLibraryRepository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]domain.SongRef, error) {
	songs := []domain.SongRef{}
	query := `SELECT song_id, name, artist, image_url, stream_url, added_at
		FROM favorites WHERE user_id = $1 ORDER BY position`

	if err := r.db.SelectContext(ctx, &songs, query, userID); err != nil {
		return nil, err
	}
	return songs, nil
}

// AddFavorite appends a favorite. The (user_id, song_id) primary key makes
// the dedup check and the insert a single atomic statement.
func (r *PgLibraryRepository) AddFavorite(ctx context.Context, userID uuid.UUID, song domain.SongRef) error {
	query := `INSERT INTO favorites (user_id, song_id, name, artist, image_url, stream_url, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		userID, song.SongID, song.Name, song.Artist, song.ImageURL, song.StreamURL, song.AddedAt)
	switch pqErrCode(err) {
	case pqUniqueViolation:
		return domain.ErrAlreadyFavorite
	case pqForeignKeyViolation:
		return domain.ErrUserNotFound
	}
	return err
}

// RemoveFavorite deletes a favorite. Removing an absent song id is a no-op.
func (r *PgLibraryRepository) RemoveFavorite(ctx context.Context, userID uuid.UUID, songID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND song_id = $2`
	_, err := r.db.ExecContext(ctx, query, userID, songID)
	return err
}

// ListPlaylists returns the user's playlists with their songs, playlists in
// creation order and songs in insertion order.
func (r *PgLibraryRepository) ListPlaylists(ctx context.Context, userID uuid.UUID) ([]domain.Playlist, error) {
	playlists := []domain.Playlist{}
	query := `SELECT id, user_id, name, created_at, updated_at
		FROM playlists WHERE user_id = $1 ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &playlists, query, userID); err != nil {
		return nil, err
	}

	type playlistSong struct {
		PlaylistID uuid.UUID `db:"playlist_id"`
		domain.SongRef
	}
	rows := []playlistSong{}
	songsQuery := `SELECT ps.playlist_id, ps.song_id, ps.name, ps.artist, ps.image_url, ps.stream_url, ps.added_at
		FROM playlist_songs ps
		JOIN playlists p ON p.id = ps.playlist_id
		WHERE p.user_id = $1
		ORDER BY ps.position`

	if err := r.db.SelectContext(ctx, &rows, songsQuery, userID); err != nil {
		return nil, err
	}

	byPlaylist := make(map[uuid.UUID][]domain.SongRef, len(playlists))
	for _, row := range rows {
		byPlaylist[row.PlaylistID] = append(byPlaylist[row.PlaylistID], row.SongRef)
	}
	for i := range playlists {
		songs := byPlaylist[playlists[i].ID]
		if songs == nil {
			songs = []domain.SongRef{}
		}
		playlists[i].Songs = songs
	}
	return playlists, nil
}

// GetPlaylist loads one playlist with its songs. The user id is part of the
// lookup so callers can never reach another user's playlist.
func (r *PgLibraryRepository) GetPlaylist(ctx context.Context, userID, playlistID uuid.UUID) (*domain.Playlist, error) {
	playlist := &domain.Playlist{}
	query := `SELECT id, user_id, name, created_at, updated_at
		FROM playlists WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, playlist, query, playlistID, userID)
	if err == sql.ErrNoRows {
		return nil, domain.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}

	songs := []domain.SongRef{}
	songsQuery := `SELECT song_id, name, artist, image_url, stream_url, added_at
		FROM playlist_songs WHERE playlist_id = $1 ORDER BY position`
	if err := r.db.SelectContext(ctx, &songs, songsQuery, playlistID); err != nil {
		return nil, err
	}
	playlist.Songs = songs
	return playlist, nil
}

// CreatePlaylist inserts a new empty playlist.
func (r *PgLibraryRepository) CreatePlaylist(ctx context.Context, playlist *domain.Playlist) error {
	query := `INSERT INTO playlists (id, user_id, name, created_at, updated_at)
		VALUES (:id, :user_id, :name, :created_at, :updated_at)`

	if playlist.CreatedAt.IsZero() {
		playlist.CreatedAt = time.Now()
	}
	if playlist.UpdatedAt.IsZero() {
		playlist.UpdatedAt = time.Now()
	}

	_, err := r.db.NamedExecContext(ctx, query, playlist)
	if pqErrCode(err) == pqForeignKeyViolation {
		return domain.ErrUserNotFound
	}
	return err
}

// DeletePlaylist removes a playlist and, via cascade, its songs. Deleting an
// absent playlist id is a no-op.
func (r *PgLibraryRepository) DeletePlaylist(ctx context.Context, userID, playlistID uuid.UUID) error {
	query := `DELETE FROM playlists WHERE id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, query, playlistID, userID)
	return err
}

// AddPlaylistSong appends a song to a playlist; the composite primary key
// enforces per-playlist dedup atomically.
func (r *PgLibraryRepository) AddPlaylistSong(ctx context.Context, playlistID uuid.UUID, song domain.SongRef) error {
	query := `INSERT INTO playlist_songs (playlist_id, song_id, name, artist, image_url, stream_url, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		playlistID, song.SongID, song.Name, song.Artist, song.ImageURL, song.StreamURL, song.AddedAt)
	switch pqErrCode(err) {
	case pqUniqueViolation:
		return domain.ErrSongInPlaylist
	case pqForeignKeyViolation:
		return domain.ErrPlaylistNotFound
	}
	return err
}

// RemovePlaylistSong deletes a song from a playlist; absent song ids are a
// no-op.
func (r *PgLibraryRepository) RemovePlaylistSong(ctx context.Context, playlistID uuid.UUID, songID string) error {
	query := `DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2`
	_, err := r.db.ExecContext(ctx, query, playlistID, songID)
	return err
}

// RecordPlay upserts the song into the recently played log (the conflict
// update is the "move to front") and trims the log to the newest
// RecentlyPlayedLimit entries, both inside one transaction.
func (r *PgLibraryRepository) RecordPlay(ctx context.Context, userID uuid.UUID, entry domain.PlayEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsert := `INSERT INTO recently_played (user_id, song_id, name, artist, image_url, stream_url, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, song_id) DO UPDATE
		SET name = EXCLUDED.name,
			artist = EXCLUDED.artist,
			image_url = EXCLUDED.image_url,
			stream_url = EXCLUDED.stream_url,
			played_at = EXCLUDED.played_at`

	if _, err := tx.ExecContext(ctx, upsert,
		userID, entry.SongID, entry.Name, entry.Artist, entry.ImageURL, entry.StreamURL, entry.PlayedAt); err != nil {
		if pqErrCode(err) == pqForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return err
	}

	trim := `DELETE FROM recently_played
		WHERE user_id = $1 AND song_id NOT IN (
			SELECT song_id FROM recently_played
			WHERE user_id = $1
			ORDER BY played_at DESC
			LIMIT $2
		)`

	if _, err := tx.ExecContext(ctx, trim, userID, domain.RecentlyPlayedLimit); err != nil {
		return err
	}

	return tx.Commit()
}

// ListRecentlyPlayed returns the log newest first.
func (r *PgLibraryRepository) ListRecentlyPlayed(ctx context.Context, userID uuid.UUID) ([]domain.PlayEntry, error) {
	entries := []domain.PlayEntry{}
	query := `SELECT song_id, name, artist, image_url, stream_url, played_at
		FROM recently_played WHERE user_id = $1 ORDER BY played_at DESC`

	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, err
	}
	return entries, nil
}

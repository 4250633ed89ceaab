package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrAlreadyFavorite  = errors.New("song already in favorites")
	ErrSongInPlaylist   = errors.New("song already in playlist")
	ErrEmailInUse       = errors.New("email is already in use")
	ErrValidation       = errors.New("validation failed")
)

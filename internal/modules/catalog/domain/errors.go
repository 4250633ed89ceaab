package domain

import "errors"

var (
	ErrSongNotFound = errors.New("song not found")
	ErrUpstream     = errors.New("upstream catalog unavailable")
)

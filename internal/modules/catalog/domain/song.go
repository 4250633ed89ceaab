package domain

import (
	"context"
	"encoding/json"
)

// Rendition is one quality variant of a media or image asset as the upstream
// catalog returns it. Audio renditions carry labels like "320kbps"; image
// renditions are ordered smallest to largest by upstream convention.
type Rendition struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// Song carries the subset of upstream song fields the player consumes.
// Artists and Album are passed through untouched; their upstream shape is of
// no concern here.
type Song struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     json.RawMessage `json:"artists,omitempty"`
	Album       json.RawMessage `json:"album,omitempty"`
	Year        string          `json:"year,omitempty"`
	Duration    int             `json:"duration"`
	Language    string          `json:"language,omitempty"`
	Image       []Rendition     `json:"image"`
	DownloadURL []Rendition     `json:"downloadUrl"`
}

// Client fetches songs from the upstream catalog.
type Client interface {
	SearchSongs(ctx context.Context, query string) ([]Song, error)
	GetSongs(ctx context.Context, id string) ([]Song, error)
}

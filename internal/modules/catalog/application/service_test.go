package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoplay/echoplay-backend/internal/modules/catalog/application"
	"github.com/echoplay/echoplay-backend/internal/modules/catalog/domain"
)

type stubClient struct {
	searchResults []domain.Song
	songResults   []domain.Song
	err           error
}

func (c *stubClient) SearchSongs(ctx context.Context, query string) ([]domain.Song, error) {
	return c.searchResults, c.err
}

func (c *stubClient) GetSongs(ctx context.Context, id string) ([]domain.Song, error) {
	return c.songResults, c.err
}

func renditions(qualities ...string) []domain.Rendition {
	out := make([]domain.Rendition, 0, len(qualities))
	for _, q := range qualities {
		out = append(out, domain.Rendition{Quality: q, URL: "https://cdn.example/" + q})
	}
	return out
}

func TestBestAudio(t *testing.T) {
	tests := []struct {
		name      string
		qualities []string
		want      string
		wantOK    bool
	}{
		{"ascending order", []string{"12kbps", "48kbps", "96kbps", "160kbps", "320kbps"}, "320kbps", true},
		{"shuffled order", []string{"160kbps", "320kbps", "48kbps"}, "320kbps", true},
		{"single element", []string{"96kbps"}, "96kbps", true},
		{"tie keeps first", []string{"320kbps", "320kbps"}, "320kbps", true},
		{"unparsable ranks below valid", []string{"lossless", "48kbps"}, "48kbps", true},
		{"all unparsable keeps first", []string{"high", "low"}, "high", true},
		{"empty", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, ok := application.BestAudio(renditions(tt.qualities...))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, best.Quality)
			}
		})
	}
}

func TestBestAudio_TiePrefersFirstMaximal(t *testing.T) {
	rs := []domain.Rendition{
		{Quality: "320kbps", URL: "first"},
		{Quality: "320kbps", URL: "second"},
	}
	best, ok := application.BestAudio(rs)
	require.True(t, ok)
	assert.Equal(t, "first", best.URL)
}

func TestCoverImage(t *testing.T) {
	rs := renditions("50x50", "150x150", "500x500")
	cover, ok := application.CoverImage(rs)
	require.True(t, ok)
	assert.Equal(t, "500x500", cover.Quality, "upstream orders images smallest to largest")

	_, ok = application.CoverImage(nil)
	assert.False(t, ok)
}

func TestSearch_NormalizesRenditions(t *testing.T) {
	client := &stubClient{searchResults: []domain.Song{
		{
			ID:          "s1",
			Name:        "Song One",
			DownloadURL: renditions("48kbps", "320kbps", "160kbps"),
			Image:       renditions("50x50", "500x500"),
		},
	}}
	svc := application.NewCatalogService(client)

	songs, err := svc.Search(context.Background(), "song")
	require.NoError(t, err)
	require.Len(t, songs, 1)
	require.Len(t, songs[0].DownloadURL, 1)
	assert.Equal(t, "320kbps", songs[0].DownloadURL[0].Quality)
	require.Len(t, songs[0].Image, 1)
	assert.Equal(t, "500x500", songs[0].Image[0].Quality)
}

func TestSearch_SongWithoutRenditions(t *testing.T) {
	client := &stubClient{searchResults: []domain.Song{{ID: "s1", Name: "No Media"}}}
	svc := application.NewCatalogService(client)

	songs, err := svc.Search(context.Background(), "song")
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Empty(t, songs[0].DownloadURL)
	assert.Empty(t, songs[0].Image)
}

func TestSearch_UpstreamError(t *testing.T) {
	client := &stubClient{err: domain.ErrUpstream}
	svc := application.NewCatalogService(client)

	_, err := svc.Search(context.Background(), "song")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestGetSong_NotFoundOnEmptyResult(t *testing.T) {
	client := &stubClient{songResults: []domain.Song{}}
	svc := application.NewCatalogService(client)

	_, err := svc.GetSong(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSongNotFound)
}

func TestGetSong_ReturnsFirstNormalized(t *testing.T) {
	client := &stubClient{songResults: []domain.Song{
		{ID: "s1", DownloadURL: renditions("160kbps", "320kbps")},
		{ID: "s2"},
	}}
	svc := application.NewCatalogService(client)

	song, err := svc.GetSong(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", song.ID)
	require.Len(t, song.DownloadURL, 1)
	assert.Equal(t, "320kbps", song.DownloadURL[0].Quality)
}

package application

import (
	"context"
	"strconv"
	"strings"

	"github.com/echoplay/echoplay-backend/internal/modules/catalog/domain"
)

// CatalogService proxies search and song lookups to the upstream catalog and
// normalizes every result down to its highest-quality renditions.
type CatalogService struct {
	client domain.Client
}

// NewCatalogService creates a new catalog service
func NewCatalogService(client domain.Client) *CatalogService {
	return &CatalogService{client: client}
}

// bitrate parses a numeric-with-suffix quality label such as "320kbps".
// Labels that do not parse rank below every valid label.
func bitrate(quality string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(quality, "kbps"))
	if err != nil {
		return -1
	}
	return n
}

// BestAudio selects the rendition with the numerically largest quality label.
// Ties break toward the first maximal element encountered. The second return
// is false when the slice is empty.
func BestAudio(renditions []domain.Rendition) (domain.Rendition, bool) {
	if len(renditions) == 0 {
		return domain.Rendition{}, false
	}
	best := renditions[0]
	for _, r := range renditions[1:] {
		if bitrate(r.Quality) > bitrate(best.Quality) {
			best = r
		}
	}
	return best, true
}

// CoverImage selects the largest image rendition, which the upstream catalog
// orders last. The second return is false when the slice is empty.
func CoverImage(renditions []domain.Rendition) (domain.Rendition, bool) {
	if len(renditions) == 0 {
		return domain.Rendition{}, false
	}
	return renditions[len(renditions)-1], true
}

// normalize collapses a song's rendition lists to single highest-quality
// entries. Songs without any rendition keep their original (possibly empty)
// lists.
func normalize(song *domain.Song) {
	if best, ok := BestAudio(song.DownloadURL); ok {
		song.DownloadURL = []domain.Rendition{best}
	}
	if cover, ok := CoverImage(song.Image); ok {
		song.Image = []domain.Rendition{cover}
	}
}

// Search forwards the query to the upstream catalog and returns the results
// with normalized renditions.
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.Song, error) {
	songs, err := s.client.SearchSongs(ctx, query)
	if err != nil {
		return nil, err
	}
	for i := range songs {
		normalize(&songs[i])
	}
	return songs, nil
}

// GetSong fetches one song by its upstream identifier with normalized
// renditions. An empty upstream result set maps to ErrSongNotFound.
func (s *CatalogService) GetSong(ctx context.Context, id string) (*domain.Song, error) {
	songs, err := s.client.GetSongs(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return nil, domain.ErrSongNotFound
	}
	song := songs[0]
	normalize(&song)
	return &song, nil
}

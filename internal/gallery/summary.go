package gallery

import "github.com/maruel/portfolio/internal/models"

// Number of items featured on the home page.
const (
	FeaturedArtworks = 3
	FeaturedVideos   = 2
)

// Summary is what the home page shows.
type Summary struct {
	ArtworkCount int              `json:"artworkCount"`
	VideoCount   int              `json:"videoCount"`
	Artworks     []models.Artwork `json:"artworks"`
	Videos       []models.Video   `json:"videos"`
}

// Summarize counts the collections and picks the first items in insertion order.
func Summarize(artworks []models.Artwork, videos []models.Video) *Summary {
	s := &Summary{
		ArtworkCount: len(artworks),
		VideoCount:   len(videos),
		Artworks:     make([]models.Artwork, 0, FeaturedArtworks),
		Videos:       make([]models.Video, 0, FeaturedVideos),
	}
	for i := range artworks[:min(len(artworks), FeaturedArtworks)] {
		s.Artworks = append(s.Artworks, artworks[i].Clone())
	}
	for i := range videos[:min(len(videos), FeaturedVideos)] {
		s.Videos = append(s.Videos, videos[i].Clone())
	}
	return s
}

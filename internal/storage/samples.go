package storage

import (
	_ "embed"
	"fmt"

	"github.com/maruel/portfolio/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var samplesYAML []byte

// sampleSet is the built-in content used when nothing valid was persisted.
type sampleSet struct {
	Config   models.SiteConfig `yaml:"config"`
	Artworks []models.Artwork  `yaml:"artworks"`
	Videos   []models.Video    `yaml:"videos"`
}

// parseSamples decodes a sample document.
func parseSamples(data []byte) (*sampleSet, error) {
	var s sampleSet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse samples: %w", err)
	}
	if err := validateArtworks(s.Artworks); err != nil {
		return nil, fmt.Errorf("invalid sample artworks: %w", err)
	}
	if err := validateVideos(s.Videos); err != nil {
		return nil, fmt.Errorf("invalid sample videos: %w", err)
	}
	return &s, nil
}

var builtinSamples = func() *sampleSet {
	s, err := parseSamples(samplesYAML)
	if err != nil {
		panic(err)
	}
	return s
}()

// DefaultSiteConfig returns the hardcoded site configuration.
func DefaultSiteConfig() models.SiteConfig {
	return builtinSamples.Config
}

// SampleArtworks returns a fresh copy of the placeholder artworks.
func SampleArtworks() []models.Artwork {
	out := make([]models.Artwork, len(builtinSamples.Artworks))
	for i := range builtinSamples.Artworks {
		out[i] = builtinSamples.Artworks[i].Clone()
	}
	return out
}

// SampleVideos returns a fresh copy of the placeholder videos.
func SampleVideos() []models.Video {
	out := make([]models.Video, len(builtinSamples.Videos))
	for i := range builtinSamples.Videos {
		out[i] = builtinSamples.Videos[i].Clone()
	}
	return out
}

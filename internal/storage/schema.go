// Validating decode of persisted collections.

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/invopop/jsonschema"
	"github.com/maruel/portfolio/internal/models"
)

// Schema kinds served by the API.
const (
	SchemaArtwork = "artwork"
	SchemaVideo   = "video"
	SchemaConfig  = "config"
)

var schemaTypes = map[string]reflect.Type{
	SchemaArtwork: reflect.TypeFor[models.Artwork](),
	SchemaVideo:   reflect.TypeFor[models.Video](),
	SchemaConfig:  reflect.TypeFor[models.SiteConfig](),
}

// Schema returns the JSON schema describing one persisted element of kind.
func Schema(kind string) (*jsonschema.Schema, error) {
	t, ok := schemaTypes[kind]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", kind)
	}
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	s := r.ReflectFromType(t)
	// Items written before tags existed omit the property.
	s.Required = slices.DeleteFunc(s.Required, func(name string) bool { return name == "tags" })
	return s, nil
}

var (
	artworkRequired = mustRequired(SchemaArtwork)
	videoRequired   = mustRequired(SchemaVideo)

	errNotArray = errors.New("value is not an array of objects")
)

func mustRequired(kind string) []string {
	s, err := Schema(kind)
	if err != nil {
		panic(err)
	}
	return s.Required
}

// row is implemented by pointers to stored content items.
type row[T any] interface {
	*T
	GetID() models.ID
	Validate() error
}

// decodeCollection decodes a JSON array of items, checking that every element
// carries the required properties, passes its own validation and has a unique ID.
func decodeCollection[T any, P row[T]](raw string, required []string) ([]T, error) {
	var elems []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, fmt.Errorf("%w: %w", errNotArray, err)
	}
	if elems == nil {
		return nil, errNotArray
	}
	for i, e := range elems {
		if e == nil {
			return nil, fmt.Errorf("element %d: %w", i, errNotArray)
		}
		for _, name := range required {
			if _, ok := e[name]; !ok {
				return nil, fmt.Errorf("element %d: missing property %q", i, name)
			}
		}
	}
	items := make([]T, 0, len(elems))
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	if err := validateRows[T, P](items); err != nil {
		return nil, err
	}
	return items, nil
}

func validateRows[T any, P row[T]](items []T) error {
	seen := make(map[models.ID]struct{}, len(items))
	for i := range items {
		p := P(&items[i])
		if err := p.Validate(); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		id := p.GetID()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("element %d: duplicate id %s", i, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateArtworks(items []models.Artwork) error {
	return validateRows(items)
}

func validateVideos(items []models.Video) error {
	return validateRows(items)
}

func decodeArtworks(raw string) ([]models.Artwork, error) {
	return decodeCollection[models.Artwork](raw, artworkRequired)
}

func decodeVideos(raw string) ([]models.Video, error) {
	return decodeCollection[models.Video](raw, videoRequired)
}

// configOverlay is a persisted, possibly partial, site config.
type configOverlay struct {
	Title       *string `json:"title"`
	Subtitle    *string `json:"subtitle"`
	Description *string `json:"description"`
	HeroImage   *string `json:"heroImage"`
	SocialLinks *struct {
		Email     *string `json:"email"`
		Instagram *string `json:"instagram"`
		Twitter   *string `json:"twitter"`
		YouTube   *string `json:"youtube"`
	} `json:"socialLinks"`
	Theme *struct {
		PrimaryColor *string `json:"primaryColor"`
		AccentColor  *string `json:"accentColor"`
	} `json:"theme"`
}

// mergeConfig overlays a persisted config onto base. Top-level fields present
// in o win; the nested records are merged key by key.
func mergeConfig(base models.SiteConfig, o *configOverlay) models.SiteConfig {
	p := models.SiteConfigPatch{
		Title:       o.Title,
		Subtitle:    o.Subtitle,
		Description: o.Description,
		HeroImage:   o.HeroImage,
	}
	if s := o.SocialLinks; s != nil {
		links := base.SocialLinks
		setIf(&links.Email, s.Email)
		setIf(&links.Instagram, s.Instagram)
		setIf(&links.Twitter, s.Twitter)
		setIf(&links.YouTube, s.YouTube)
		p.SocialLinks = &links
	}
	if t := o.Theme; t != nil {
		theme := base.Theme
		setIf(&theme.PrimaryColor, t.PrimaryColor)
		setIf(&theme.AccentColor, t.AccentColor)
		p.Theme = &theme
	}
	p.Apply(&base)
	return base
}

func setIf(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}

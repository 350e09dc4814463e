package handlers

import (
	"context"
	"net/http"

	"github.com/invopop/jsonschema"
	"github.com/maruel/portfolio/internal/errors"
	"github.com/maruel/portfolio/internal/gallery"
	"github.com/maruel/portfolio/internal/storage"
)

// SiteHandler serves the home page summary, display preferences and schemas.
type SiteHandler struct {
	store *storage.ContentStore
	prefs *storage.Preferences
}

// NewSiteHandler creates a new site handler.
func NewSiteHandler(store *storage.ContentStore, prefs *storage.Preferences) *SiteHandler {
	return &SiteHandler{store: store, prefs: prefs}
}

// HomeRequest is the request type for the home page (empty).
type HomeRequest struct{}

// ThemeRequest is the request type for reading the theme (empty).
type ThemeRequest struct{}

// SetThemeRequest sets the theme.
type SetThemeRequest struct {
	Theme string `json:"theme"`
}

// ThemeResponse carries the theme. Set is false when the visitor never chose
// one.
type ThemeResponse struct {
	Theme string `json:"theme"`
	Set   bool   `json:"set"`
}

// SchemaRequest names a schema.
type SchemaRequest struct {
	Kind string `json:"-" path:"kind"`
}

// Home returns the counts and featured items.
func (h *SiteHandler) Home(ctx context.Context, req HomeRequest) (*gallery.Summary, error) {
	return gallery.Summarize(h.store.Artworks(), h.store.Videos()), nil
}

// GetTheme returns the stored theme.
func (h *SiteHandler) GetTheme(ctx context.Context, req ThemeRequest) (*ThemeResponse, error) {
	theme, set := h.prefs.Theme()
	return &ThemeResponse{Theme: theme, Set: set}, nil
}

// SetTheme stores the theme.
func (h *SiteHandler) SetTheme(ctx context.Context, req SetThemeRequest) (*ThemeResponse, error) {
	if req.Theme != storage.ThemeDark && req.Theme != storage.ThemeLight {
		return nil, errors.InvalidFormat("theme", "theme must be light or dark")
	}
	if err := h.prefs.SetTheme(req.Theme); err != nil {
		return nil, errors.NewAPIError(http.StatusInternalServerError, errors.ErrStorageError, "Failed to save theme").Wrap(err)
	}
	return &ThemeResponse{Theme: req.Theme, Set: true}, nil
}

// Schema returns the JSON schema of a persisted record.
func (h *SiteHandler) Schema(ctx context.Context, req SchemaRequest) (*jsonschema.Schema, error) {
	s, err := storage.Schema(req.Kind)
	if err != nil {
		return nil, errors.NotFound("schema")
	}
	return s, nil
}

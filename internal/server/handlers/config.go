package handlers

import (
	"context"

	"github.com/maruel/portfolio/internal/models"
	"github.com/maruel/portfolio/internal/storage"
)

// ConfigHandler handles site configuration requests.
type ConfigHandler struct {
	store *storage.ContentStore
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(store *storage.ContentStore) *ConfigHandler {
	return &ConfigHandler{store: store}
}

// GetConfigRequest is the request type for reading the config (empty).
type GetConfigRequest struct{}

// UpdateConfigRequest overwrites the top-level fields that are present.
type UpdateConfigRequest struct {
	models.SiteConfigPatch
}

// GetConfig returns the site configuration.
func (h *ConfigHandler) GetConfig(ctx context.Context, req GetConfigRequest) (*models.SiteConfig, error) {
	c := h.store.Config()
	return &c, nil
}

// UpdateConfig applies a shallow patch and returns the new configuration.
func (h *ConfigHandler) UpdateConfig(ctx context.Context, req UpdateConfigRequest) (*models.SiteConfig, error) {
	c := h.store.UpdateConfig(&req.SiteConfigPatch)
	return &c, nil
}

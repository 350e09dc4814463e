package handlers

import (
	"context"
	"log/slog"

	"github.com/maruel/portfolio/internal/errors"
	"github.com/maruel/portfolio/internal/gallery"
	"github.com/maruel/portfolio/internal/models"
	"github.com/maruel/portfolio/internal/storage"
)

// ArtworkHandler handles artwork requests.
type ArtworkHandler struct {
	store *storage.ContentStore
}

// NewArtworkHandler creates a new artwork handler.
func NewArtworkHandler(store *storage.ContentStore) *ArtworkHandler {
	return &ArtworkHandler{store: store}
}

// ListArtworksRequest filters and orders the gallery.
type ListArtworksRequest struct {
	Q        string `query:"q"`
	Category string `query:"category"`
	Tag      string `query:"tag"`
	Sort     string `query:"sort"`
}

// ListArtworksResponse is the filtered gallery.
type ListArtworksResponse struct {
	Artworks []models.Artwork `json:"artworks"`
	Total    int              `json:"total"`
}

// ArtworkRequest names one artwork.
type ArtworkRequest struct {
	ID models.ID `json:"-" path:"id"`
}

// ArtworkFacetsRequest is the request type for the filter options (empty).
type ArtworkFacetsRequest struct{}

// ArtworkFacetsResponse lists the filter options.
type ArtworkFacetsResponse struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// CreateArtworkRequest is the admin upload form. The ID and date are assigned
// by the store.
type CreateArtworkRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
}

// UpdateArtworkRequest overwrites the fields that are present.
type UpdateArtworkRequest struct {
	ID models.ID `json:"-" path:"id"`
	models.ArtworkPatch
}

// UpdateArtworkResponse carries the updated artwork when it was found.
type UpdateArtworkResponse struct {
	Found   bool            `json:"found"`
	Artwork *models.Artwork `json:"artwork,omitempty"`
}

// ListArtworks returns the artworks matching the query.
func (h *ArtworkHandler) ListArtworks(ctx context.Context, req ListArtworksRequest) (*ListArtworksResponse, error) {
	if err := checkSort(req.Sort, false); err != nil {
		return nil, err
	}
	items := gallery.FilterArtworks(h.store.Artworks(), &gallery.Query{
		Search:   req.Q,
		Category: req.Category,
		Tag:      req.Tag,
		Sort:     req.Sort,
	})
	return &ListArtworksResponse{Artworks: items, Total: len(items)}, nil
}

// GetArtwork returns one artwork.
func (h *ArtworkHandler) GetArtwork(ctx context.Context, req ArtworkRequest) (*models.Artwork, error) {
	a, ok := h.store.Artwork(req.ID)
	if !ok {
		return nil, errors.NotFound("artwork")
	}
	return &a, nil
}

// Facets returns the distinct categories and tags.
func (h *ArtworkHandler) Facets(ctx context.Context, req ArtworkFacetsRequest) (*ArtworkFacetsResponse, error) {
	items := h.store.Artworks()
	return &ArtworkFacetsResponse{
		Categories: gallery.ArtworkCategories(items),
		Tags:       gallery.ArtworkTags(items),
	}, nil
}

// CreateArtwork adds an artwork.
func (h *ArtworkHandler) CreateArtwork(ctx context.Context, req CreateArtworkRequest) (*models.Artwork, error) {
	if err := required(
		[2]string{"title", req.Title},
		[2]string{"description", req.Description},
		[2]string{"image", req.Image},
	); err != nil {
		return nil, err
	}
	a := h.store.AddArtwork(models.Artwork{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		Tags:        cleanTags(req.Tags),
	})
	slog.InfoContext(ctx, "Artwork created", "id", a.ID)
	return &a, nil
}

// UpdateArtwork patches an artwork. Unknown IDs are reported with found=false.
func (h *ArtworkHandler) UpdateArtwork(ctx context.Context, req UpdateArtworkRequest) (*UpdateArtworkResponse, error) {
	p := req.ArtworkPatch
	for _, err := range []error{
		notBlank("title", p.Title),
		notBlank("description", p.Description),
		notBlank("image", p.Image),
		checkDate(p.Date),
	} {
		if err != nil {
			return nil, err
		}
	}
	p.Tags = cleanTagsPtr(p.Tags)
	a, ok := h.store.UpdateArtwork(req.ID, &p)
	if !ok {
		return &UpdateArtworkResponse{}, nil
	}
	return &UpdateArtworkResponse{Found: true, Artwork: &a}, nil
}

// DeleteArtwork removes an artwork. Unknown IDs are reported with found=false.
func (h *ArtworkHandler) DeleteArtwork(ctx context.Context, req ArtworkRequest) (*FoundResponse, error) {
	return &FoundResponse{Found: h.store.DeleteArtwork(req.ID)}, nil
}

package handlers

import (
	"context"
	"log/slog"

	"github.com/maruel/portfolio/internal/errors"
	"github.com/maruel/portfolio/internal/gallery"
	"github.com/maruel/portfolio/internal/models"
	"github.com/maruel/portfolio/internal/storage"
)

// VideoHandler handles video requests.
type VideoHandler struct {
	store *storage.ContentStore
}

// NewVideoHandler creates a new video handler.
func NewVideoHandler(store *storage.ContentStore) *VideoHandler {
	return &VideoHandler{store: store}
}

// ListVideosRequest filters and orders the video gallery.
type ListVideosRequest struct {
	Q    string `query:"q"`
	Tag  string `query:"tag"`
	Sort string `query:"sort"`
}

// ListVideosResponse is the filtered video gallery.
type ListVideosResponse struct {
	Videos []models.Video `json:"videos"`
	Total  int            `json:"total"`
}

// VideoRequest names one video.
type VideoRequest struct {
	ID models.ID `json:"-" path:"id"`
}

// VideoFacetsRequest is the request type for the filter options (empty).
type VideoFacetsRequest struct{}

// VideoFacetsResponse lists the filter options.
type VideoFacetsResponse struct {
	Tags []string `json:"tags"`
}

// CreateVideoRequest is the admin upload form. The ID and date are assigned
// by the store.
type CreateVideoRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Duration    string   `json:"duration"`
	Thumbnail   string   `json:"thumbnail"`
	Tags        []string `json:"tags"`
}

// UpdateVideoRequest overwrites the fields that are present.
type UpdateVideoRequest struct {
	ID models.ID `json:"-" path:"id"`
	models.VideoPatch
}

// UpdateVideoResponse carries the updated video when it was found.
type UpdateVideoResponse struct {
	Found bool          `json:"found"`
	Video *models.Video `json:"video,omitempty"`
}

// ListVideos returns the videos matching the query.
func (h *VideoHandler) ListVideos(ctx context.Context, req ListVideosRequest) (*ListVideosResponse, error) {
	if err := checkSort(req.Sort, true); err != nil {
		return nil, err
	}
	items := gallery.FilterVideos(h.store.Videos(), &gallery.Query{Search: req.Q, Tag: req.Tag, Sort: req.Sort})
	return &ListVideosResponse{Videos: items, Total: len(items)}, nil
}

// GetVideo returns one video.
func (h *VideoHandler) GetVideo(ctx context.Context, req VideoRequest) (*models.Video, error) {
	v, ok := h.store.Video(req.ID)
	if !ok {
		return nil, errors.NotFound("video")
	}
	return &v, nil
}

// Facets returns the distinct video tags.
func (h *VideoHandler) Facets(ctx context.Context, req VideoFacetsRequest) (*VideoFacetsResponse, error) {
	return &VideoFacetsResponse{Tags: gallery.VideoTags(h.store.Videos())}, nil
}

// CreateVideo adds a video.
func (h *VideoHandler) CreateVideo(ctx context.Context, req CreateVideoRequest) (*models.Video, error) {
	if err := required(
		[2]string{"title", req.Title},
		[2]string{"description", req.Description},
		[2]string{"url", req.URL},
	); err != nil {
		return nil, err
	}
	v := h.store.AddVideo(models.Video{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Duration:    req.Duration,
		Thumbnail:   req.Thumbnail,
		Tags:        cleanTags(req.Tags),
	})
	slog.InfoContext(ctx, "Video created", "id", v.ID)
	return &v, nil
}

// UpdateVideo patches a video. Unknown IDs are reported with found=false.
func (h *VideoHandler) UpdateVideo(ctx context.Context, req UpdateVideoRequest) (*UpdateVideoResponse, error) {
	p := req.VideoPatch
	for _, err := range []error{
		notBlank("title", p.Title),
		notBlank("description", p.Description),
		notBlank("url", p.URL),
		checkDate(p.Date),
	} {
		if err != nil {
			return nil, err
		}
	}
	p.Tags = cleanTagsPtr(p.Tags)
	v, ok := h.store.UpdateVideo(req.ID, &p)
	if !ok {
		return &UpdateVideoResponse{}, nil
	}
	return &UpdateVideoResponse{Found: true, Video: &v}, nil
}

// DeleteVideo removes a video. Unknown IDs are reported with found=false.
func (h *VideoHandler) DeleteVideo(ctx context.Context, req VideoRequest) (*FoundResponse, error) {
	return &FoundResponse{Found: h.store.DeleteVideo(req.ID)}, nil
}

package handlers

import (
	"context"

	"github.com/maruel/portfolio/internal/errors"
	"github.com/maruel/portfolio/internal/history"
)

// HistoryHandler lists the commits of the data directory.
type HistoryHandler struct {
	repo *history.Repo
}

// NewHistoryHandler creates a new history handler. repo may be nil when
// history is disabled.
func NewHistoryHandler(repo *history.Repo) *HistoryHandler {
	return &HistoryHandler{repo: repo}
}

// HistoryRequest limits the number of commits returned.
type HistoryRequest struct {
	Limit int `query:"limit"`
}

// HistoryResponse lists commits, newest first.
type HistoryResponse struct {
	Commits []history.Commit `json:"commits"`
}

// ListHistory returns the most recent commits.
func (h *HistoryHandler) ListHistory(ctx context.Context, req HistoryRequest) (*HistoryResponse, error) {
	if h.repo == nil {
		return nil, errors.NotFound("history")
	}
	commits, err := h.repo.Log(req.Limit)
	if err != nil {
		return nil, errors.InternalWithError("Failed to read history", err)
	}
	return &HistoryResponse{Commits: commits}, nil
}

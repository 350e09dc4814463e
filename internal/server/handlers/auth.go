package handlers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/maruel/portfolio/internal/auth"
	"github.com/maruel/portfolio/internal/errors"
)

// AuthHandler handles admin login and logout.
type AuthHandler struct {
	gate *auth.Gate
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(gate *auth.Gate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

// LoginRequest is a request to log in.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse is a response from logging in.
type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// LogoutRequest is a request to end the current session (empty).
type LogoutRequest struct{}

// LogoutResponse is a response from logging out.
type LogoutResponse struct {
	OK bool `json:"ok"`
}

// MeRequest is a request to get the current session.
type MeRequest struct{}

// Login checks the password and returns a session token.
func (h *AuthHandler) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Password == "" {
		return nil, errors.MissingField("password")
	}
	token, s, err := h.gate.Login(req.Password)
	if err != nil {
		if stderrors.Is(err, auth.ErrInvalidCredentials) {
			slog.WarnContext(ctx, "Admin login failed")
			return nil, errors.InvalidCredentials()
		}
		return nil, errors.InternalWithError("Failed to open session", err)
	}
	slog.InfoContext(ctx, "Admin logged in", "session", s.ID)
	resp := &LoginResponse{Token: token}
	if !s.ExpiresAt.IsZero() {
		resp.ExpiresAt = &s.ExpiresAt
	}
	return resp, nil
}

// Logout ends the session the request was authenticated with.
func (h *AuthHandler) Logout(ctx context.Context, req LogoutRequest) (*LogoutResponse, error) {
	token, _, ok := auth.FromContext(ctx)
	if !ok {
		return nil, errors.Unauthorized()
	}
	return &LogoutResponse{OK: h.gate.Logout(token)}, nil
}

// Me returns the current session.
func (h *AuthHandler) Me(ctx context.Context, req MeRequest) (*auth.Session, error) {
	_, s, ok := auth.FromContext(ctx)
	if !ok {
		return nil, errors.Unauthorized()
	}
	return s, nil
}

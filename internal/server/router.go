package server

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
	"github.com/maruel/portfolio/internal/auth"
	apierrors "github.com/maruel/portfolio/internal/errors"
	"github.com/maruel/portfolio/internal/history"
	"github.com/maruel/portfolio/internal/server/handlers"
	"github.com/maruel/portfolio/internal/server/ratelimit"
	"github.com/maruel/portfolio/internal/storage"
)

// Services are the dependencies of the router.
type Services struct {
	Store     *storage.ContentStore
	Prefs     *storage.Preferences
	Gate      *auth.Gate
	Hub       *Hub
	History   *history.Repo
	Config    *ServerConfig
	Limits    *ratelimit.Config
	StaticDir string
	Version   string
}

// NewRouter creates and configures the HTTP router.
func NewRouter(s *Services) http.Handler {
	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(s.Version)
	configHandler := handlers.NewConfigHandler(s.Store)
	artworkHandler := handlers.NewArtworkHandler(s.Store)
	videoHandler := handlers.NewVideoHandler(s.Store)
	siteHandler := handlers.NewSiteHandler(s.Store, s.Prefs)
	authHandler := handlers.NewAuthHandler(s.Gate)
	historyHandler := handlers.NewHistoryHandler(s.History)

	// Public
	mux.Handle("GET /api/health", Wrap(healthHandler.Health))
	mux.Handle("GET /api/config", Wrap(configHandler.GetConfig))
	mux.Handle("GET /api/artworks", Wrap(artworkHandler.ListArtworks))
	mux.Handle("GET /api/artworks/facets", Wrap(artworkHandler.Facets))
	mux.Handle("GET /api/artworks/{id}", Wrap(artworkHandler.GetArtwork))
	mux.Handle("GET /api/videos", Wrap(videoHandler.ListVideos))
	mux.Handle("GET /api/videos/facets", Wrap(videoHandler.Facets))
	mux.Handle("GET /api/videos/{id}", Wrap(videoHandler.GetVideo))
	mux.Handle("GET /api/home", Wrap(siteHandler.Home))
	mux.Handle("GET /api/preferences/theme", Wrap(siteHandler.GetTheme))
	mux.Handle("PUT /api/preferences/theme", Wrap(siteHandler.SetTheme))
	mux.Handle("GET /api/schema/{kind}", Wrap(siteHandler.Schema))
	mux.Handle("POST /api/admin/login", Wrap(authHandler.Login))
	if s.Hub != nil {
		mux.Handle("GET /api/events", s.Hub)
	}

	// Admin
	admin := RequireAdmin(s.Gate)
	mux.Handle("POST /api/admin/logout", admin(Wrap(authHandler.Logout)))
	mux.Handle("GET /api/admin/me", admin(Wrap(authHandler.Me)))
	mux.Handle("POST /api/admin/artworks", admin(Wrap(artworkHandler.CreateArtwork)))
	mux.Handle("PUT /api/admin/artworks/{id}", admin(Wrap(artworkHandler.UpdateArtwork)))
	mux.Handle("DELETE /api/admin/artworks/{id}", admin(Wrap(artworkHandler.DeleteArtwork)))
	mux.Handle("POST /api/admin/videos", admin(Wrap(videoHandler.CreateVideo)))
	mux.Handle("PUT /api/admin/videos/{id}", admin(Wrap(videoHandler.UpdateVideo)))
	mux.Handle("DELETE /api/admin/videos/{id}", admin(Wrap(videoHandler.DeleteVideo)))
	mux.Handle("PUT /api/admin/config", admin(Wrap(configHandler.UpdateConfig)))
	mux.Handle("GET /api/admin/history", admin(Wrap(historyHandler.ListHistory)))

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		writeError(r.Context(), w, apierrors.NotFound("endpoint"))
	})
	if s.StaticDir != "" {
		mux.Handle("/", NewStaticHandler(s.StaticDir))
	}

	var h http.Handler = mux
	if s.Config != nil {
		h = MaxBodySize(s.Config.MaxRequestBodyBytes)(h)
	}
	if s.Limits != nil {
		h = RateLimit(s.Limits)(h)
	}
	if s.Config != nil && len(s.Config.AllowedOrigins) > 0 {
		h = cors.Handler(cors.Options{
			AllowedOrigins: s.Config.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			ExposedHeaders: []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			MaxAge:         300,
		})(h)
	}
	return Recover(h)
}

// OriginChecker returns the websocket origin check for the allowed origins,
// or nil to keep the same-origin default.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}

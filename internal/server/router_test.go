package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/maruel/portfolio/internal/auth"
	"github.com/maruel/portfolio/internal/history"
	"github.com/maruel/portfolio/internal/kv"
	"github.com/maruel/portfolio/internal/models"
	"github.com/maruel/portfolio/internal/server/ratelimit"
	"github.com/maruel/portfolio/internal/storage"
)

type testServer struct {
	h     http.Handler
	store *storage.ContentStore
	mem   *kv.MemStore
	hub   *Hub
}

func newTestServer(t *testing.T, mutate func(*Services)) *testServer {
	t.Helper()
	mem := kv.NewMemStore(nil)
	next := models.ID(1000)
	store := storage.NewContentStore(context.Background(), mem, &storage.Options{
		Now: func() time.Time { return time.Date(2026, 3, 7, 12, 0, 0, 0, time.Local) },
		NewID: func() models.ID {
			next++
			return next
		},
	})
	t.Cleanup(func() { _ = store.Close() })
	gate, err := auth.NewGate("", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultServerConfig()
	s := &Services{
		Store:   store,
		Prefs:   storage.NewPreferences(mem),
		Gate:    gate,
		Config:  &cfg,
		Version: "test",
	}
	if mutate != nil {
		mutate(s)
	}
	return &testServer{h: NewRouter(s), store: store, mem: mem, hub: s.Hub}
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.h.ServeHTTP(w, req)
	return w
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	w := ts.do(t, "POST", "/api/admin/login", "", `{"password":"admin123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body)
	}
	var resp struct{ Token string }
	decode(t, w, &resp)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct{ Code string }
	}
	decode(t, w, &resp)
	return resp.Error.Code
}

func TestRouter_Public(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"health", "/api/health", http.StatusOK, ""},
		{"config", "/api/config", http.StatusOK, ""},
		{"artworks", "/api/artworks?sort=title", http.StatusOK, ""},
		{"artwork", "/api/artworks/2", http.StatusOK, ""},
		{"unknown artwork", "/api/artworks/999", http.StatusNotFound, "NOT_FOUND"},
		{"bad id", "/api/artworks/abc", http.StatusBadRequest, "INVALID_FORMAT"},
		{"zero id", "/api/videos/0", http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad sort", "/api/artworks?sort=duration", http.StatusBadRequest, "INVALID_FORMAT"},
		{"video sort", "/api/videos?sort=duration", http.StatusOK, ""},
		{"video", "/api/videos/1", http.StatusOK, ""},
		{"home", "/api/home", http.StatusOK, ""},
		{"schema", "/api/schema/artwork", http.StatusOK, ""},
		{"unknown schema", "/api/schema/page", http.StatusNotFound, "NOT_FOUND"},
		{"admin needs token", "/api/admin/me", http.StatusUnauthorized, "UNAUTHORIZED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, "GET", tt.path, "", "")
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body)
			}
			if tt.code != "" {
				if got := errorCode(t, w); got != tt.code {
					t.Errorf("code = %q, want %q", got, tt.code)
				}
			}
		})
	}
}

func TestRouter_Listing(t *testing.T) {
	ts := newTestServer(t, nil)

	var list struct {
		Artworks []models.Artwork
		Total    int
	}
	decode(t, ts.do(t, "GET", "/api/artworks?q="+url.QueryEscape("城市"), "", ""), &list)
	if list.Total != 1 || list.Artworks[0].ID != 2 {
		t.Errorf("search = %+v", list)
	}

	var facets struct{ Categories, Tags []string }
	decode(t, ts.do(t, "GET", "/api/artworks/facets", "", ""), &facets)
	if diff := cmp.Diff([]string{"绘画"}, facets.Categories); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}
	if len(facets.Tags) != 9 {
		t.Errorf("tags = %v", facets.Tags)
	}

	var videos struct{ Videos []models.Video }
	decode(t, ts.do(t, "GET", "/api/videos?tag="+url.QueryEscape("教程"), "", ""), &videos)
	if len(videos.Videos) != 1 || videos.Videos[0].ID != 2 {
		t.Errorf("videos = %+v", videos)
	}

	var home struct {
		ArtworkCount int
		VideoCount   int
	}
	decode(t, ts.do(t, "GET", "/api/home", "", ""), &home)
	if home.ArtworkCount != 3 || home.VideoCount != 2 {
		t.Errorf("home = %+v", home)
	}

	var health struct{ Status, Version string }
	decode(t, ts.do(t, "GET", "/api/health", "", ""), &health)
	if health.Status != "ok" || health.Version != "test" {
		t.Errorf("health = %+v", health)
	}
}

func TestRouter_AdminArtworks(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, "POST", "/api/admin/login", "", `{"password":"nope"}`)
	if w.Code != http.StatusUnauthorized || errorCode(t, w) != "INVALID_CREDENTIALS" {
		t.Fatalf("wrong password: %d %s", w.Code, w.Body)
	}
	token := ts.login(t)

	w = ts.do(t, "POST", "/api/admin/artworks", "", `{"title":"x"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("create without token: %d", w.Code)
	}
	w = ts.do(t, "POST", "/api/admin/artworks", "bogus", `{"title":"x"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("create with bad token: %d", w.Code)
	}

	w = ts.do(t, "POST", "/api/admin/artworks", token, `{"title":"t","description":"d"}`)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "MISSING_FIELD" {
		t.Fatalf("missing image: %d %s", w.Code, w.Body)
	}
	w = ts.do(t, "POST", "/api/admin/artworks", token, `{"title":"t","description":"d","image":"i","id":5}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown field: %d %s", w.Code, w.Body)
	}

	w = ts.do(t, "POST", "/api/admin/artworks", token,
		`{"title":"夜","description":"d","category":"摄影","image":"data:image/png;base64,AA==","tags":[" 夜景 ",""," 城市"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create: %d %s", w.Code, w.Body)
	}
	var created models.Artwork
	decode(t, w, &created)
	want := models.Artwork{
		ID:          1001,
		Title:       "夜",
		Description: "d",
		Category:    "摄影",
		Date:        "2026-03-07",
		Image:       "data:image/png;base64,AA==",
		Tags:        []string{"夜景", "城市"},
	}
	if diff := cmp.Diff(want, created); diff != "" {
		t.Errorf("created (-want +got):\n%s", diff)
	}
	if _, ok := ts.mem.Get(storage.KeyArtworks); !ok {
		t.Error("artworks not persisted")
	}

	w = ts.do(t, "PUT", "/api/admin/artworks/1001", token, `{"title":"夜色","tags":[]}`)
	var upd struct {
		Found   bool
		Artwork models.Artwork
	}
	decode(t, w, &upd)
	if !upd.Found || upd.Artwork.Title != "夜色" || len(upd.Artwork.Tags) != 0 || upd.Artwork.Category != "摄影" {
		t.Errorf("update = %+v", upd)
	}
	w = ts.do(t, "PUT", "/api/admin/artworks/1001", token, `{"title":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank title: %d", w.Code)
	}
	w = ts.do(t, "PUT", "/api/admin/artworks/1001", token, `{"date":"07/03/2026"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date: %d", w.Code)
	}

	w = ts.do(t, "PUT", "/api/admin/artworks/4242", token, `{"title":"x"}`)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"found":false}` {
		t.Errorf("update unknown: %d %s", w.Code, w.Body)
	}
	saves := ts.mem.Saves()
	w = ts.do(t, "DELETE", "/api/admin/artworks/4242", token, "")
	if strings.TrimSpace(w.Body.String()) != `{"found":false}` {
		t.Errorf("delete unknown: %s", w.Body)
	}
	if ts.mem.Saves() != saves {
		t.Error("no-op delete was persisted")
	}
	w = ts.do(t, "DELETE", "/api/admin/artworks/1001", token, "")
	if strings.TrimSpace(w.Body.String()) != `{"found":true}` {
		t.Errorf("delete: %s", w.Body)
	}
	if w := ts.do(t, "GET", "/api/artworks/1001", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("deleted artwork still served: %d", w.Code)
	}
}

func TestRouter_AdminVideosAndConfig(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t)

	w := ts.do(t, "POST", "/api/admin/videos", token, `{"title":"t","description":"d"}`)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "MISSING_FIELD" {
		t.Errorf("missing url: %d %s", w.Code, w.Body)
	}
	w = ts.do(t, "POST", "/api/admin/videos", token, `{"title":"t","description":"d","url":"https://v","duration":"12:00"}`)
	var v models.Video
	decode(t, w, &v)
	if v.ID != 1001 || v.Date != "2026-03-07" || v.Duration != "12:00" {
		t.Errorf("created = %+v", v)
	}
	var list struct{ Videos []models.Video }
	decode(t, ts.do(t, "GET", "/api/videos?sort=duration", "", ""), &list)
	if len(list.Videos) != 3 || list.Videos[2].ID != 1001 {
		t.Errorf("duration order = %+v", list.Videos)
	}
	w = ts.do(t, "PUT", "/api/admin/videos/2", token, `{"duration":"1:00"}`)
	var upd struct {
		Found bool
		Video models.Video
	}
	decode(t, w, &upd)
	if !upd.Found || upd.Video.Duration != "1:00" || upd.Video.Title == "" {
		t.Errorf("update = %+v", upd)
	}
	if w := ts.do(t, "DELETE", "/api/admin/videos/1", token, ""); strings.TrimSpace(w.Body.String()) != `{"found":true}` {
		t.Errorf("delete: %s", w.Body)
	}

	w = ts.do(t, "PUT", "/api/admin/config", token, `{"title":"新标题","theme":{"primaryColor":"#000000"}}`)
	var cfg models.SiteConfig
	decode(t, w, &cfg)
	if cfg.Title != "新标题" || cfg.Theme.PrimaryColor != "#000000" || cfg.Theme.AccentColor != "" {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.SocialLinks.Email != "your.email@example.com" {
		t.Errorf("untouched socialLinks changed: %+v", cfg.SocialLinks)
	}
	var got models.SiteConfig
	decode(t, ts.do(t, "GET", "/api/config", "", ""), &got)
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("GET config (-want +got):\n%s", diff)
	}
}

func TestRouter_Session(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t)

	if w := ts.do(t, "GET", "/api/admin/me", token, ""); w.Code != http.StatusOK {
		t.Fatalf("me: %d", w.Code)
	}
	w := ts.do(t, "POST", "/api/admin/logout", token, "")
	if strings.TrimSpace(w.Body.String()) != `{"ok":true}` {
		t.Errorf("logout: %s", w.Body)
	}
	if w := ts.do(t, "GET", "/api/admin/me", token, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("me after logout: %d", w.Code)
	}
	if w := ts.do(t, "POST", "/api/admin/login", "", `{}`); errorCode(t, w) != "MISSING_FIELD" {
		t.Errorf("empty login: %s", w.Body)
	}
}

func TestRouter_Theme(t *testing.T) {
	ts := newTestServer(t, nil)

	var theme struct {
		Theme string
		Set   bool
	}
	decode(t, ts.do(t, "GET", "/api/preferences/theme", "", ""), &theme)
	if theme.Theme != "light" || theme.Set {
		t.Errorf("default theme = %+v", theme)
	}
	if w := ts.do(t, "PUT", "/api/preferences/theme", "", `{"theme":"blue"}`); w.Code != http.StatusBadRequest {
		t.Errorf("invalid theme: %d", w.Code)
	}
	if w := ts.do(t, "PUT", "/api/preferences/theme", "", `{"theme":"dark"}`); w.Code != http.StatusOK {
		t.Errorf("set theme: %d", w.Code)
	}
	if v, _ := ts.mem.Get(storage.KeyTheme); v != "dark" {
		t.Errorf("stored theme = %q", v)
	}
	decode(t, ts.do(t, "GET", "/api/preferences/theme", "", ""), &theme)
	if theme.Theme != "dark" || !theme.Set {
		t.Errorf("stored theme = %+v", theme)
	}
}

func TestRouter_Limits(t *testing.T) {
	ts := newTestServer(t, func(s *Services) {
		s.Config.MaxRequestBodyBytes = 64
		s.Limits = ratelimit.NewConfig(ratelimit.Limits{LoginPerMin: 6})
		t.Cleanup(s.Limits.Close)
	})

	if w := ts.do(t, "PUT", "/api/preferences/theme", "", `{"theme":"`+strings.Repeat("d", 100)+`"}`); w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("large body: %d %s", w.Code, w.Body)
	}
	ts.login(t)
	w := ts.do(t, "POST", "/api/admin/login", "", `{"password":"admin123"}`)
	if w.Code != http.StatusTooManyRequests || errorCode(t, w) != "RATE_LIMITED" {
		t.Errorf("second login: %d %s", w.Code, w.Body)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing")
	}
}

func TestRouter_CORS(t *testing.T) {
	ts := newTestServer(t, func(s *Services) {
		s.Config.AllowedOrigins = []string{"http://localhost:5173"}
	})
	req := httptest.NewRequest("OPTIONS", "/api/admin/artworks", http.NoBody)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	ts.h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouter_Static(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600); err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, func(s *Services) { s.StaticDir = dir })

	for path, want := range map[string]string{
		"/app.js":   "console.log(1)",
		"/gallery":  "<html>app</html>",
		"/videos/3": "<html>app</html>",
	} {
		w := ts.do(t, "GET", path, "", "")
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Errorf("GET %s = %d %q", path, w.Code, w.Body)
		}
	}
	if w := ts.do(t, "GET", "/missing.png", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing asset: %d", w.Code)
	}
	for _, path := range []string{"/api/nope", "/api/artworks/1/extra", "/api/"} {
		w := ts.do(t, "GET", path, "", "")
		if w.Code != http.StatusNotFound || errorCode(t, w) != "NOT_FOUND" {
			t.Errorf("GET %s = %d %q, want a JSON 404", path, w.Code, w.Body)
		}
	}
}

func TestRouter_Events(t *testing.T) {
	ts := newTestServer(t, func(s *Services) {
		s.Hub = NewHub(nil)
		unsubscribe := s.Store.Subscribe(s.Hub.Publish)
		t.Cleanup(func() {
			unsubscribe()
			s.Hub.Close()
		})
	})
	srv := httptest.NewServer(ts.h)
	defer srv.Close()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	defer conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for ts.hub.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ts.store.DeleteVideo(2)
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var e storage.Event
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatal(err)
	}
	want := storage.Event{Collection: storage.CollectionVideos, Op: storage.OpDelete, ID: 2}
	if diff := cmp.Diff(want, e); diff != "" {
		t.Errorf("event (-want +got):\n%s", diff)
	}
}

func TestRouter_History(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t)
	if w := ts.do(t, "GET", "/api/admin/history", token, ""); w.Code != http.StatusNotFound {
		t.Errorf("disabled history: %d", w.Code)
	}

	dir := t.TempDir()
	repo, err := history.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	files, err := kv.NewDirStore(dir, repo)
	if err != nil {
		t.Fatal(err)
	}
	ts = newTestServer(t, func(s *Services) {
		s.Store = storage.NewContentStore(context.Background(), files, nil)
		t.Cleanup(func() { _ = s.Store.Close() })
		s.History = repo
	})
	token = ts.login(t)
	ts.do(t, "DELETE", "/api/admin/videos/1", token, "")
	ts.do(t, "PUT", "/api/admin/config", token, `{"title":"x"}`)

	var resp struct{ Commits []history.Commit }
	decode(t, ts.do(t, "GET", "/api/admin/history?limit=10", token, ""), &resp)
	if len(resp.Commits) != 2 || resp.Commits[0].Message != "update "+storage.KeyConfig {
		t.Errorf("commits = %+v", resp.Commits)
	}
}

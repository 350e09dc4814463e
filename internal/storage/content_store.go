package storage

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/maruel/ksid"
	"github.com/maruel/portfolio/internal/kv"
	"github.com/maruel/portfolio/internal/models"
)

// Persistence keys, one per collection.
const (
	KeyArtworks = "portfolio_artworks"
	KeyVideos   = "portfolio_videos"
	KeyConfig   = "portfolio_config"
)

// Collection names used in events.
const (
	CollectionArtworks = "artworks"
	CollectionVideos   = "videos"
	CollectionConfig   = "config"
)

// Op is the kind of mutation reported by an Event.
type Op string

// Mutation kinds.
const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event describes a mutation that was applied and persisted.
type Event struct {
	Collection string    `json:"collection"`
	Op         Op        `json:"op"`
	ID         models.ID `json:"id,omitempty"`
}

// Options configures a ContentStore. The zero value is valid.
type Options struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// NewID returns a new unique identifier. Defaults to a monotonic ksid.
	NewID func() models.ID
}

// ContentStore holds the artworks, videos and site config, mirroring every
// mutation to a kv.Adapter.
//
// Persistence failures never surface to callers: they are logged and the
// in-memory state stays authoritative for the life of the process. Mutations
// referencing an unknown ID are no-ops.
type ContentStore struct {
	kv    kv.Adapter
	now   func() time.Time
	newID func() models.ID

	mu       sync.RWMutex
	artworks []models.Artwork
	videos   []models.Video
	config   models.SiteConfig

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// NewContentStore loads the persisted state from a and returns the store.
//
// Collections that are absent or fail validation start from the built-in
// sample set; the samples are not written back until the next mutation.
func NewContentStore(ctx context.Context, a kv.Adapter, opts *Options) *ContentStore {
	s := &ContentStore{
		kv:    a,
		now:   time.Now,
		newID: newKSID,
		subs:  map[int]func(Event){},
	}
	if opts != nil {
		if opts.Now != nil {
			s.now = opts.Now
		}
		if opts.NewID != nil {
			s.newID = opts.NewID
		}
	}
	s.artworks = loadCollection(ctx, a, KeyArtworks, decodeArtworks, SampleArtworks)
	s.videos = loadCollection(ctx, a, KeyVideos, decodeVideos, SampleVideos)
	s.config = loadConfig(ctx, a)
	return s
}

func newKSID() models.ID {
	return models.ID(ksid.NewID())
}

func loadCollection[T any](ctx context.Context, a kv.Adapter, key string, decode func(string) ([]T, error), samples func() []T) []T {
	raw, ok, err := a.Load(key)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load collection, using samples", "key", key, "err", err)
		return samples()
	}
	if !ok {
		return samples()
	}
	items, err := decode(raw)
	if err != nil {
		slog.ErrorContext(ctx, "Invalid persisted collection, using samples", "key", key, "err", err)
		return samples()
	}
	return items
}

func loadConfig(ctx context.Context, a kv.Adapter) models.SiteConfig {
	def := DefaultSiteConfig()
	var o configOverlay
	ok, err := kv.LoadJSON(a, KeyConfig, &o)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load config, using defaults", "key", KeyConfig, "err", err)
		return def
	}
	if !ok {
		return def
	}
	return mergeConfig(def, &o)
}

// Close detaches all subscribers. The store must not be used afterward.
func (s *ContentStore) Close() error {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	clear(s.subs)
	return nil
}

// Subscribe registers fn to be called after each applied mutation. fn is
// called synchronously from the mutating goroutine and must not call back
// into mutating methods.
func (s *ContentStore) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *ContentStore) notify(e Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// persist writes v under key. It must be called with mu held.
func (s *ContentStore) persist(key string, v any) {
	if err := kv.SaveJSON(s.kv, key, v); err != nil {
		slog.Error("Failed to persist, keeping in-memory state", "key", key, "err", err)
	}
}

// Artworks returns a copy of all artworks in insertion order.
func (s *ContentStore) Artworks() []models.Artwork {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Artwork, len(s.artworks))
	for i := range s.artworks {
		out[i] = s.artworks[i].Clone()
	}
	return out
}

// Artwork returns the artwork with the given ID.
func (s *ContentStore) Artwork(id models.ID) (models.Artwork, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.artworks {
		if s.artworks[i].ID == id {
			return s.artworks[i].Clone(), true
		}
	}
	return models.Artwork{}, false
}

// AddArtwork appends a new artwork. The ID and the date are always assigned
// by the store; values set by the caller are overwritten.
func (s *ContentStore) AddArtwork(a models.Artwork) models.Artwork {
	s.mu.Lock()
	a = a.Clone()
	if a.Tags == nil {
		a.Tags = []string{}
	}
	a.ID = s.uniqueID(func(id models.ID) bool { return slices.ContainsFunc(s.artworks, func(x models.Artwork) bool { return x.ID == id }) })
	a.Date = models.FormatDate(s.now())
	s.artworks = append(s.artworks, a)
	s.persist(KeyArtworks, s.artworks)
	s.mu.Unlock()
	s.notify(Event{Collection: CollectionArtworks, Op: OpCreate, ID: a.ID})
	return a.Clone()
}

// UpdateArtwork applies p to the artwork with the given ID. It returns false
// and changes nothing if no artwork matches. An empty patch is not persisted
// and emits no event.
func (s *ContentStore) UpdateArtwork(id models.ID, p *models.ArtworkPatch) (models.Artwork, bool) {
	s.mu.Lock()
	i := slices.IndexFunc(s.artworks, func(x models.Artwork) bool { return x.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return models.Artwork{}, false
	}
	if p.IsEmpty() {
		out := s.artworks[i].Clone()
		s.mu.Unlock()
		return out, true
	}
	p.Apply(&s.artworks[i])
	out := s.artworks[i].Clone()
	s.persist(KeyArtworks, s.artworks)
	s.mu.Unlock()
	s.notify(Event{Collection: CollectionArtworks, Op: OpUpdate, ID: id})
	return out, true
}

// DeleteArtwork removes the artwork with the given ID. It returns false if no
// artwork matched.
func (s *ContentStore) DeleteArtwork(id models.ID) bool {
	s.mu.Lock()
	n := len(s.artworks)
	s.artworks = slices.DeleteFunc(s.artworks, func(x models.Artwork) bool { return x.ID == id })
	if len(s.artworks) == n {
		s.mu.Unlock()
		return false
	}
	s.persist(KeyArtworks, s.artworks)
	s.mu.Unlock()
	s.notify(Event{Collection: CollectionArtworks, Op: OpDelete, ID: id})
	return true
}

// Videos returns a copy of all videos in insertion order.
func (s *ContentStore) Videos() []models.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Video, len(s.videos))
	for i := range s.videos {
		out[i] = s.videos[i].Clone()
	}
	return out
}

// Video returns the video with the given ID.
func (s *ContentStore) Video(id models.ID) (models.Video, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.videos {
		if s.videos[i].ID == id {
			return s.videos[i].Clone(), true
		}
	}
	return models.Video{}, false
}

// AddVideo appends a new video. The ID and the date are always assigned by
// the store.
func (s *ContentStore) AddVideo(v models.Video) models.Video {
	s.mu.Lock()
	v = v.Clone()
	if v.Tags == nil {
		v.Tags = []string{}
	}
	v.ID = s.uniqueID(func(id models.ID) bool { return slices.ContainsFunc(s.videos, func(x models.Video) bool { return x.ID == id }) })
	v.Date = models.FormatDate(s.now())
	s.videos = append(s.videos, v)
	s.persist(KeyVideos, s.videos)
	s.mu.Unlock()
	s.notify(Event{Collection: CollectionVideos, Op: OpCreate, ID: v.ID})
	return v.Clone()
}

// UpdateVideo applies p to the video with the given ID. It returns false and
// changes nothing if no video matches. An empty patch is not persisted and
// emits no event.
func (s *ContentStore) UpdateVideo(id models.ID, p *models.VideoPatch) (models.Video, bool) {
	s.mu.Lock()
	i := slices.IndexFunc(s.videos, func(x models.Video) bool { return x.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return models.Video{}, false
	}
	if p.IsEmpty() {
		out := s.videos[i].Clone()
		s.mu.Unlock()
		return out, true
	}
	p.Apply(&s.videos[i])
	out := s.videos[i].Clone()
	s.persist(KeyVideos, s.videos)
	s.mu.Unlock()
	s.notify(Event{Collection: CollectionVideos, Op: OpUpdate, ID: id})
	return out, true
}

// DeleteVideo removes the video with the given ID. It returns false if no
// video matched.
func (s *ContentStore) DeleteVideo(id models.ID) bool {
	s.mu.Lock()
	n := len(s.videos)
	s.videos = slices.DeleteFunc(s.videos, func(x models.Video) bool { return x.ID == id })
	if len(s.videos) == n {
		s.mu.Unlock()
		return false
	}
	s.persist(KeyVideos, s.videos)
	s.mu.Unlock()
	s.notify(Event{Collection: CollectionVideos, Op: OpDelete, ID: id})
	return true
}

// Config returns the current site config.
func (s *ContentStore) Config() models.SiteConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Clone()
}

// UpdateConfig applies a one-level shallow patch to the site config.
func (s *ContentStore) UpdateConfig(p *models.SiteConfigPatch) models.SiteConfig {
	s.mu.Lock()
	p.Apply(&s.config)
	out := s.config.Clone()
	s.persist(KeyConfig, s.config)
	s.mu.Unlock()
	s.notify(Event{Collection: CollectionConfig, Op: OpUpdate})
	return out
}

// uniqueID draws IDs until one is positive and unused. Sample and legacy data
// use small integers, so a collision is only possible with injected generators.
func (s *ContentStore) uniqueID(used func(models.ID) bool) models.ID {
	for {
		if id := s.newID(); id > 0 && !used(id) {
			return id
		}
	}
}

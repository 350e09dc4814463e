package storage

import (
	"fmt"
	"log/slog"

	"github.com/maruel/portfolio/internal/kv"
)

// KeyTheme stores the visitor's color scheme, read only by the front-end.
const KeyTheme = "theme"

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences stores front-end display flags that are not site content.
type Preferences struct {
	kv kv.Adapter
}

// NewPreferences returns a Preferences backed by a.
func NewPreferences(a kv.Adapter) *Preferences {
	return &Preferences{kv: a}
}

// Theme returns the stored theme. set is false when no valid theme was stored,
// in which case ThemeLight is returned and the front-end may follow the
// system color scheme instead.
func (p *Preferences) Theme() (theme string, set bool) {
	v, ok, err := p.kv.Load(KeyTheme)
	if err != nil {
		slog.Error("Failed to load theme", "err", err)
		return ThemeLight, false
	}
	if !ok || (v != ThemeDark && v != ThemeLight) {
		return ThemeLight, false
	}
	return v, true
}

// SetTheme stores the theme. The value is stored as a bare string, not JSON.
func (p *Preferences) SetTheme(theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("invalid theme %q", theme)
	}
	return p.kv.Save(KeyTheme, theme)
}

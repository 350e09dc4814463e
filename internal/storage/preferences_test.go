package storage

import (
	"errors"
	"testing"

	"github.com/maruel/portfolio/internal/kv"
)

func TestPreferences(t *testing.T) {
	mem := kv.NewMemStore(nil)
	p := NewPreferences(mem)
	if got, set := p.Theme(); got != ThemeLight || set {
		t.Errorf("default theme = %q, set %v", got, set)
	}
	if err := p.SetTheme(ThemeDark); err != nil {
		t.Fatal(err)
	}
	if got, set := p.Theme(); got != ThemeDark || !set {
		t.Errorf("theme = %q, set %v", got, set)
	}
	if raw, _ := mem.Get(KeyTheme); raw != "dark" {
		t.Errorf("raw theme = %q, want bare string", raw)
	}
	if err := p.SetTheme("sepia"); err == nil {
		t.Error("SetTheme accepted an unknown theme")
	}

	_ = mem.Save(KeyTheme, `"dark"`)
	if got, set := p.Theme(); got != ThemeLight || set {
		t.Errorf("unknown stored value read as %q, set %v", got, set)
	}

	mem.LoadErr = errors.New("unavailable")
	if got, set := p.Theme(); got != ThemeLight || set {
		t.Errorf("theme on load failure = %q, set %v", got, set)
	}
}

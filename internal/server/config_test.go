package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadServerConfig(t *testing.T) {
	t.Run("creates defaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := LoadServerConfig(dir)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(DefaultServerConfig(), *cfg); diff != "" {
			t.Errorf("config (-want +got):\n%s", diff)
		}
		if _, err := os.Stat(filepath.Join(dir, ConfigFile)); err != nil {
			t.Errorf("config file not written: %v", err)
		}
		if cfg.TTL() != 24*time.Hour {
			t.Errorf("TTL() = %v", cfg.TTL())
		}
		again, err := LoadServerConfig(dir)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(cfg, again); diff != "" {
			t.Errorf("reload (-want +got):\n%s", diff)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, `{"admin_password":"pw","rate_limits":{"login_per_min":0}}`)
		cfg, err := LoadServerConfig(dir)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.AdminPassword != "pw" || cfg.SessionTTL != "24h" {
			t.Errorf("got %+v", cfg)
		}
		if cfg.RateLimits.LoginPerMin != 0 || cfg.RateLimits.ReadPerMin != 6000 {
			t.Errorf("rate limits = %+v", cfg.RateLimits)
		}
	})

	for name, content := range map[string]string{
		"bad json":      `{`,
		"empty pass":    `{"admin_password":""}`,
		"bad ttl":       `{"session_ttl":"soon"}`,
		"negative ttl":  `{"session_ttl":"-1h"}`,
		"negative body": `{"max_request_body_bytes":-1}`,
		"negative rate": `{"rate_limits":{"read_per_min":-5}}`,
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, content)
			if _, err := LoadServerConfig(dir); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestServerConfig_TTL(t *testing.T) {
	c := ServerConfig{}
	if c.TTL() != 0 {
		t.Errorf("empty TTL() = %v", c.TTL())
	}
	c.SessionTTL = "90m"
	if c.TTL() != 90*time.Minute {
		t.Errorf("TTL() = %v", c.TTL())
	}
}

func writeFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

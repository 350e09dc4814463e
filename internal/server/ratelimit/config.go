// Defines rate limit tiers and routing rules.

package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"time"
)

// Limits are requests per minute per client IP. 0 means unlimited.
type Limits struct {
	ReadPerMin  int `json:"read_per_min"`
	WritePerMin int `json:"write_per_min"`
	LoginPerMin int `json:"login_per_min"`
}

// DefaultLimits returns the limits used when the server config has none.
func DefaultLimits() Limits {
	return Limits{
		ReadPerMin:  6000,
		WritePerMin: 120,
		LoginPerMin: 30,
	}
}

// Tier is a named limiter. A nil Limiter means the tier is unlimited.
type Tier struct {
	Name    string
	Limiter *Limiter
}

// Config holds the limiter of each tier.
type Config struct {
	Login Tier
	Write Tier
	Read  Tier
}

// NewConfig creates one limiter per non-zero limit.
func NewConfig(l Limits) *Config {
	return &Config{
		Login: newTier("login", l.LoginPerMin),
		Write: newTier("write", l.WritePerMin),
		Read:  newTier("read", l.ReadPerMin),
	}
}

func newTier(name string, perMin int) Tier {
	t := Tier{Name: name}
	if perMin > 0 {
		t.Limiter = NewLimiter(perMin, time.Minute, max(perMin/6, 1))
	}
	return t
}

// Match returns the tier for a request, or nil when it is not rate limited.
func (c *Config) Match(method, path string) *Tier {
	if !strings.HasPrefix(path, "/api/") || path == "/api/health" || path == "/api/events" {
		return nil
	}
	var t *Tier
	switch {
	case method == http.MethodPost && path == "/api/admin/login":
		t = &c.Login
	case method == http.MethodGet || method == http.MethodHead:
		t = &c.Read
	case method == http.MethodOptions:
		return nil
	default:
		t = &c.Write
	}
	if t.Limiter == nil {
		return nil
	}
	return t
}

// Close stops all limiter cleanup goroutines.
func (c *Config) Close() {
	for _, t := range []*Tier{&c.Login, &c.Write, &c.Read} {
		if t.Limiter != nil {
			t.Limiter.Close()
		}
	}
}

// ClientIP returns the remote address of r without the port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

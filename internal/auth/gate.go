// Package auth implements the single-user admin gate.
//
// The gate is not a security boundary: the password lives in local config and
// sessions only last as long as the process.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maruel/ksid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is used when the server config does not set one.
const DefaultPassword = "admin123"

var (
	// ErrInvalidCredentials is returned by Login on a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession is returned by Verify for unknown, expired or malformed tokens.
	ErrInvalidSession = errors.New("invalid session")
)

// Session describes an active admin session.
type Session struct {
	ID        string    `json:"id"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Gate checks the admin password and tracks sessions in memory.
type Gate struct {
	hash   []byte
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

// NewGate hashes password and generates a fresh signing secret.
//
// An empty password falls back to DefaultPassword. A ttl of 0 means sessions
// never expire on their own.
func NewGate(password string, ttl time.Duration) (*Gate, error) {
	if password == "" {
		password = DefaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	return &Gate{
		hash:     hash,
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]Session),
	}, nil
}

// Login compares password with the configured one and opens a session.
func (g *Gate) Login(password string) (string, *Session, error) {
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	now := g.now()
	s := Session{ID: ksid.NewID().String(), IssuedAt: now}
	claims := jwt.RegisteredClaims{
		ID:       s.ID,
		Subject:  "admin",
		IssuedAt: jwt.NewNumericDate(now),
	}
	if g.ttl > 0 {
		s.ExpiresAt = now.Add(g.ttl)
		claims.ExpiresAt = jwt.NewNumericDate(s.ExpiresAt)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	g.mu.Lock()
	g.sweepLocked(now)
	g.sessions[s.ID] = s
	g.mu.Unlock()
	return token, &s, nil
}

// Verify returns the session for token if it is still open.
func (g *Gate) Verify(token string) (*Session, error) {
	id, err := g.parse(token)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[id]
	if !ok {
		return nil, ErrInvalidSession
	}
	if s.expired(g.now()) {
		delete(g.sessions, id)
		return nil, ErrInvalidSession
	}
	return &s, nil
}

// Logout closes the session identified by token. It reports whether a session
// was open.
func (g *Gate) Logout(token string) bool {
	id, err := g.parse(token)
	if err != nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[id]
	if !ok {
		return false
	}
	delete(g.sessions, id)
	return !s.expired(g.now())
}

// Active returns the number of open sessions.
func (g *Gate) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}

func (s *Session) expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// sweepLocked drops expired sessions. It must be called with mu held.
func (g *Gate) sweepLocked(now time.Time) {
	for id, s := range g.sessions {
		if s.expired(now) {
			delete(g.sessions, id)
		}
	}
}

// parse checks the signature and returns the session ID. Expiry is decided by
// the session map so expired sessions can be reaped.
func (g *Gate) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !t.Valid || claims.ID == "" {
		return "", ErrInvalidSession
	}
	return claims.ID, nil
}

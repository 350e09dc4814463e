// Package history records every persisted write of the data directory as a
// git commit, using go-git so no git binary is needed.
package history

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Default identity used for commits.
const (
	DefaultName  = "portfolio"
	DefaultEmail = "portfolio@localhost"
)

// Commit is one entry of the history.
type Commit struct {
	Hash    string    `json:"hash"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

// Repo is a git repository rooted at the data directory. It implements
// kv.SaveObserver.
type Repo struct {
	dir  string
	repo *gogit.Repository
	now  func() time.Time

	mu sync.Mutex
}

// Open opens the repository in dir, initializing it when needed.
func Open(dir string) (*Repo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create repo directory: %w", err)
	}
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		repo, err = gogit.PlainInit(dir, false)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize git repo: %w", err)
		}
		cfg, err := repo.Config()
		if err != nil {
			return nil, fmt.Errorf("failed to read git config: %w", err)
		}
		cfg.User.Name = DefaultName
		cfg.User.Email = DefaultEmail
		if err := repo.SetConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to write git config: %w", err)
		}
	}
	return &Repo{dir: dir, repo: repo, now: time.Now}, nil
}

// OnSave commits path. Failures are logged and otherwise ignored.
func (r *Repo) OnSave(key, path string) {
	if err := r.Commit("update "+key, path); err != nil {
		slog.Error("Failed to record history", "key", key, "err", err)
	}
}

// Commit stages files and commits them with msg. Nothing is committed when
// the files are unchanged.
func (r *Repo) Commit(msg string, files ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	for _, f := range files {
		rel, err := filepath.Rel(r.dir, f)
		if err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("%s is outside of %s", f, r.dir)
		}
		if _, err := w.Add(filepath.ToSlash(rel)); err != nil {
			return fmt.Errorf("failed to stage %s: %w", rel, err)
		}
	}
	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("failed to get worktree status: %w", err)
	}
	staged := false
	for _, s := range status {
		if s.Staging != gogit.Unmodified && s.Staging != gogit.Untracked {
			staged = true
			break
		}
	}
	if !staged {
		return nil
	}
	sig := &object.Signature{Name: DefaultName, Email: DefaultEmail, When: r.now()}
	if _, err := w.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Log returns up to n commits, newest first. n is capped at 1000.
func (r *Repo) Log(n int) ([]Commit, error) {
	if n <= 0 || n > 1000 {
		n = 1000
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Commit{}
	iter, err := r.repo.Log(&gogit.LogOptions{})
	if err != nil {
		// No commits yet.
		return out, nil //nolint:nilerr // an empty repository has no HEAD
	}
	defer iter.Close()
	for range n {
		c, err := iter.Next()
		if err != nil {
			break
		}
		subject, _, _ := strings.Cut(c.Message, "\n")
		out = append(out, Commit{
			Hash:    c.Hash.String(),
			Message: subject,
			Author:  c.Author.Name,
			Date:    c.Author.When,
		})
	}
	return out, nil
}

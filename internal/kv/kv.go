// Package kv provides the key/value persistence used to mirror the portfolio
// content to durable storage.
//
// Values are opaque text blobs, usually JSON documents. Each key is stored
// independently and writes are atomic per key.
package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Adapter loads and saves named text blobs.
type Adapter interface {
	// Load returns the value stored under key. ok is false if the key has
	// never been saved.
	Load(key string) (value string, ok bool, err error)
	// Save stores value under key, replacing any previous value.
	Save(key, value string) error
}

// SaveObserver is notified after a value was durably written.
type SaveObserver interface {
	OnSave(key, path string)
}

// ErrInvalidKey is returned for keys that cannot be mapped to storage.
var ErrInvalidKey = errors.New("invalid key")

var keyRE = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidateKey checks that key only contains lowercase letters, digits and underscores.
func ValidateKey(key string) error {
	if !keyRE.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// LoadJSON loads the value under key and decodes it into v.
//
// ok is false if the key is absent, in which case v is untouched.
func LoadJSON(a Adapter, key string, v any) (ok bool, err error) {
	s, ok, err := a.Load(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and saves it under key.
func SaveJSON(a Adapter, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return a.Save(key, string(data))
}

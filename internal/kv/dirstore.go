package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DirStore stores each key as <dir>/<key>.json.
type DirStore struct {
	dir string
	obs SaveObserver
	mu  sync.Mutex
}

// NewDirStore creates the directory if needed and returns a store rooted there.
//
// obs may be nil.
func NewDirStore(dir string, obs SaveObserver) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &DirStore{dir: dir, obs: obs}, nil
}

// Dir returns the root directory.
func (d *DirStore) Dir() string {
	return d.dir
}

// Path returns the file backing key.
func (d *DirStore) Path(key string) string {
	return filepath.Join(d.dir, key+".json")
}

// Load implements Adapter.
func (d *DirStore) Load(key string) (string, bool, error) {
	if err := ValidateKey(key); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(d.Path(key)) //nolint:gosec // G304: key is validated against a strict pattern
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Save implements Adapter.
//
// The value is written to a temporary file in the same directory, synced and
// renamed over the previous value so readers never see a partial write.
func (d *DirStore) Save(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.Path(key)
	f, err := os.CreateTemp(d.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmp := f.Name()
	if _, err := f.WriteString(value); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to sync %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	if d.obs != nil {
		d.obs.OnSave(key, path)
	}
	return nil
}

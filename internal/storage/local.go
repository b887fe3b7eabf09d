// Package storage keeps small string values on disk under well-known keys.
// It plays the role a browser's local storage plays for a web client: the
// wizard, the preview and the receipt screens hand data to each other
// through it, and it survives restarts.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known keys.
const (
	KeyProfileData     = "profileData"
	KeyDownloadContent = "downloadContent"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// fileName is the name of the file holding all keys.
const fileName = "localstorage.json"

// Local is a file-backed key/value store. Every write replaces the whole
// file; concurrent processes race last-writer-wins.
type Local struct {
	path string
	mu   sync.Mutex
}

// DefaultDir returns ~/.readmegen, creating it if needed.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".readmegen")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", dir, err)
	}
	return dir, nil
}

// Open returns the store rooted in dir. An empty dir means DefaultDir.
func Open(dir string) (*Local, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	} else if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("could not create storage directory %s: %w", dir, err)
	}
	return &Local{path: filepath.Join(dir, fileName)}, nil
}

// Path reports the backing file.
func (l *Local) Path() string { return l.path }

// Get returns the value stored under key.
func (l *Local) Get(key string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	values, err := l.read()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores value under key, overwriting any previous value.
func (l *Local) Set(key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	values, err := l.read()
	if err != nil {
		// A corrupt file is replaced rather than blocking every write.
		values = map[string]string{}
	}
	values[key] = value
	return l.write(values)
}

// Remove deletes key. Removing a missing key is not an error.
func (l *Local) Remove(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	values, err := l.read()
	if err != nil {
		values = map[string]string{}
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return l.write(values)
}

// Clear drops every key.
func (l *Local) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}

func (l *Local) read() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("error reading storage file %s: %w", l.path, err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("error unmarshalling storage file %s: %w", l.path, err)
	}
	return values, nil
}

func (l *Local) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(l.path), fileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp storage file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to set storage permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

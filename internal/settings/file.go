package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appDirName   = "audioinsight"
	fileName     = "settings.yaml"
	filePerm     = 0o600
	dirPerm      = 0o700
	tempFileGlob = ".settings-*.yaml"
)

// DefaultPath returns the settings file location inside the user config
// directory, e.g. ~/.config/audioinsight/settings.yaml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, fileName), nil
}

// FileStore is a Store backed by a YAML file.
//
// Every write re-reads the file, applies the change and replaces the file
// atomically, so concurrent processes lose at most their own racing update.
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// OpenFileStore loads the settings file at path. A missing file is an empty store.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	values, err := s.read()
	if err != nil {
		return nil, err
	}
	s.values = values
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and writes the file.
func (s *FileStore) Set(key, value string) error {
	if err := checkKeys(key); err != nil {
		return err
	}
	return s.update(func(values map[string]string) {
		if value == "" {
			delete(values, key)
			return
		}
		values[key] = value
	})
}

// Clear removes the given keys and writes the file.
func (s *FileStore) Clear(keys ...string) error {
	if err := checkKeys(keys...); err != nil {
		return err
	}
	return s.update(func(values map[string]string) {
		for _, k := range keys {
			delete(values, k)
		}
	})
}

func (s *FileStore) update(apply func(map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	apply(values)

	if err := s.write(values); err != nil {
		return err
	}
	s.values = values
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", s.path, err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

func (s *FileStore) write(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempFileGlob)
	if err != nil {
		return fmt.Errorf("failed to create temporary settings file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set settings file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}

package settings

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Setting keys.
const (
	KeyGeminiAPIKey       = "gemini_api_key"
	KeyGoogleClientID     = "google_client_id"
	KeyGoogleClientSecret = "google_client_secret"
	KeyDriveAccessToken   = "drive_access_token"
	KeyAIProvider         = "ai_provider"
)

var knownKeys = []string{
	KeyGeminiAPIKey,
	KeyGoogleClientID,
	KeyGoogleClientSecret,
	KeyDriveAccessToken,
	KeyAIProvider,
}

// ErrUnknownKey is returned when a key outside the fixed set is written.
var ErrUnknownKey = errors.New("unknown setting key")

// ErrAPIKeyRequired is returned by SaveCredentials when no API key is given.
var ErrAPIKeyRequired = errors.New("API key is required")

// Store is a small key/value repository for settings.
// Setting a key to the empty string removes it.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Clear(keys ...string) error
}

// Keys returns the known setting keys in display order.
func Keys() []string {
	return slices.Clone(knownKeys)
}

// ValidKey reports whether key is one of the known setting keys.
func ValidKey(key string) bool {
	return slices.Contains(knownKeys, key)
}

func checkKeys(keys ...string) error {
	for _, k := range keys {
		if !ValidKey(k) {
			return fmt.Errorf("%w: %q", ErrUnknownKey, k)
		}
	}
	return nil
}

// SaveCredentials stores the AI API key and, when non-empty, the OAuth client ID.
func SaveCredentials(s Store, apiKey, clientID string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return ErrAPIKeyRequired
	}
	if err := s.Set(KeyGeminiAPIKey, apiKey); err != nil {
		return err
	}
	if clientID = strings.TrimSpace(clientID); clientID != "" {
		return s.Set(KeyGoogleClientID, clientID)
	}
	return nil
}

// ResetCredentials removes the AI API key and the OAuth client.
func ResetCredentials(s Store) error {
	return s.Clear(KeyGeminiAPIKey, KeyGoogleClientID, KeyGoogleClientSecret)
}

// Logout removes the stored Drive access token.
func Logout(s Store) error {
	return s.Clear(KeyDriveAccessToken)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key.
func (m *MemoryStore) Set(key, value string) error {
	if err := checkKeys(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" {
		delete(m.values, key)
		return nil
	}
	m.values[key] = value
	return nil
}

// Clear removes the given keys.
func (m *MemoryStore) Clear(keys ...string) error {
	if err := checkKeys(keys...); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

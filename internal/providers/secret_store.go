package providers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"edsync/pkg/logging"
)

// SecretStore is a string key-value store for credentials and provider
// records. Get returns "" for a missing key.
type SecretStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// FileSecretStore keeps secrets in memory and, in file mode, one file per key.
//
// SECURITY: values are never logged. The directory is created 0700 and each
// file 0600.
type FileSecretStore struct {
	mu         sync.RWMutex
	storageDir string
	values     map[string]string
	fileMode   bool
}

// SecretStoreConfig configures a FileSecretStore.
type SecretStoreConfig struct {
	// StorageDir holds the secret files. Defaults to ~/.config/edsync/secrets.
	StorageDir string
	// FileMode enables persistence. If false, secrets live in memory only.
	FileMode bool
}

type storedSecret struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFileSecretStore creates a secret store.
func NewFileSecretStore(cfg SecretStoreConfig) (*FileSecretStore, error) {
	dir := cfg.StorageDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config", "edsync", "secrets")
	}

	if cfg.FileMode {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create secret storage directory: %w", err)
		}
	}

	return &FileSecretStore{
		storageDir: dir,
		values:     make(map[string]string),
		fileMode:   cfg.FileMode,
	}, nil
}

// Get returns the stored value, or "" if the key is not set.
func (s *FileSecretStore) Get(key string) (string, error) {
	s.mu.RLock()
	if v, ok := s.values[key]; ok {
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	if !s.fileMode {
		return "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.values[key]; ok {
		return v, nil
	}
	secret, err := s.readFile(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	s.values[key] = secret.Value
	return secret.Value, nil
}

// Set stores value under key.
func (s *FileSecretStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fileMode {
		if err := s.writeFile(key, value); err != nil {
			logging.Warn("SecretStore", "Failed to persist secret %q: %v", key, err)
			return fmt.Errorf("failed to persist secret: %w", err)
		}
	}
	s.values[key] = value
	logging.Debug("SecretStore", "Stored secret %q", key)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileSecretStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	if s.fileMode {
		err := os.Remove(s.filePath(key))
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	logging.Debug("SecretStore", "Deleted secret %q", key)
	return nil
}

// filePath hashes the key so arbitrary keys map to safe file names.
func (s *FileSecretStore) filePath(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(s.storageDir, hex.EncodeToString(hash[:16])+".json")
}

func (s *FileSecretStore) writeFile(key, value string) error {
	data, err := json.MarshalIndent(storedSecret{Key: key, Value: value, UpdatedAt: time.Now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal secret: %w", err)
	}
	return os.WriteFile(s.filePath(key), data, 0600)
}

func (s *FileSecretStore) readFile(key string) (*storedSecret, error) {
	// #nosec G304 -- path is derived from a hash of the key
	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		return nil, err
	}
	var secret storedSecret
	if err := json.Unmarshal(data, &secret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal secret: %w", err)
	}
	return &secret, nil
}

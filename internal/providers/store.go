// Package providers keeps the list of configured storage backends and their
// credentials on top of a SecretStore.
package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"edsync/internal/storage"
	"edsync/pkg/logging"
)

// Secret keys.
const (
	KeyProviders      = "providers"
	KeyLegacyProvider = "provider"
	KeyGitHubToken    = "github_token"

	gistIDPrefix = "gist_id."
	legacyID     = "legacy_1"
)

// ErrProviderNotFound is returned when removing an unknown provider.
var ErrProviderNotFound = errors.New("provider not found")

// SavedProvider is one registered storage backend.
type SavedProvider struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Name      string            `json:"name"`
	Config    map[string]string `json:"config,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Store lists, adds and removes SavedProviders. Providers keep their
// registration order, which is the order pulls try them in.
type Store struct {
	secrets SecretStore
	now     func() time.Time
}

// NewStore creates a Store over secrets.
func NewStore(secrets SecretStore) *Store {
	return &Store{secrets: secrets, now: time.Now}
}

// Secrets exposes the underlying secret store.
func (s *Store) Secrets() SecretStore { return s.secrets }

// List returns the registered providers in registration order. A record
// written by older versions under the single "provider" key is migrated.
func (s *Store) List() ([]SavedProvider, error) {
	raw, err := s.secrets.Get(KeyProviders)
	if err != nil {
		return nil, err
	}

	var list []SavedProvider
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			logging.Error("ProviderStore", err, "Ignoring unreadable provider list")
			list = nil
		}
	}
	if len(list) > 0 {
		return list, nil
	}

	return s.migrateLegacy()
}

func (s *Store) migrateLegacy() ([]SavedProvider, error) {
	legacyType, err := s.secrets.Get(KeyLegacyProvider)
	if err != nil || legacyType == "" {
		return nil, err
	}
	t := storage.NormalizeType(legacyType)
	if t == "" {
		logging.Warn("ProviderStore", "Ignoring legacy provider of unknown type %q", legacyType)
		return nil, nil
	}

	list := []SavedProvider{{
		ID:        legacyID,
		Type:      t,
		Name:      storage.DisplayName(t),
		CreatedAt: s.now(),
	}}
	if err := s.save(list); err != nil {
		return nil, err
	}
	if err := s.secrets.Delete(KeyLegacyProvider); err != nil {
		logging.Warn("ProviderStore", "Failed to remove legacy provider key: %v", err)
	}
	logging.Info("ProviderStore", "Migrated legacy %s provider", t)
	return list, nil
}

// Add registers a provider and returns the stored record. ID, Name and
// CreatedAt are filled in when empty.
func (s *Store) Add(p SavedProvider) (SavedProvider, error) {
	t := storage.NormalizeType(p.Type)
	if t == "" {
		return SavedProvider{}, fmt.Errorf("unknown provider type %q", p.Type)
	}
	p.Type = t
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Name == "" {
		p.Name = storage.DisplayName(t)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}

	list, err := s.List()
	if err != nil {
		return SavedProvider{}, err
	}
	for _, existing := range list {
		if existing.ID == p.ID {
			return SavedProvider{}, fmt.Errorf("provider %q already exists", p.ID)
		}
	}

	if err := s.save(append(list, p)); err != nil {
		return SavedProvider{}, err
	}
	return p, nil
}

// Remove unregisters a provider and forgets its remote resource id.
func (s *Store) Remove(id string) error {
	list, err := s.List()
	if err != nil {
		return err
	}

	kept := make([]SavedProvider, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(list) {
		return fmt.Errorf("%w: %s", ErrProviderNotFound, id)
	}

	if err := s.save(kept); err != nil {
		return err
	}
	return s.secrets.Delete(GistIDKey(id))
}

// Token returns the stored GitHub token.
func (s *Store) Token() (string, error) { return s.secrets.Get(KeyGitHubToken) }

// SetToken stores the GitHub token.
func (s *Store) SetToken(token string) error { return s.secrets.Set(KeyGitHubToken, token) }

// GistID returns the remembered gist id for a provider.
func (s *Store) GistID(providerID string) (string, error) {
	return s.secrets.Get(GistIDKey(providerID))
}

// SetGistID remembers the gist id for a provider.
func (s *Store) SetGistID(providerID, gistID string) error {
	return s.secrets.Set(GistIDKey(providerID), gistID)
}

// ClearGistID forgets the gist id for a provider.
func (s *Store) ClearGistID(providerID string) error {
	return s.secrets.Delete(GistIDKey(providerID))
}

// GistIDKey is the secret key holding a provider's gist id.
func GistIDKey(providerID string) string { return gistIDPrefix + providerID }

func (s *Store) save(list []SavedProvider) error {
	if list == nil {
		list = []SavedProvider{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.secrets.Set(KeyProviders, string(data))
}

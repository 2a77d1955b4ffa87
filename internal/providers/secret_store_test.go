package providers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSecretStore_InMemory(t *testing.T) {
	store, err := NewFileSecretStore(SecretStoreConfig{StorageDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create secret store: %v", err)
	}

	if v, err := store.Get("missing"); err != nil || v != "" {
		t.Errorf("Expected empty value for missing key, got %q (err %v)", v, err)
	}

	if err := store.Set("github_token", "ghp_test"); err != nil {
		t.Fatalf("Failed to set secret: %v", err)
	}
	if v, _ := store.Get("github_token"); v != "ghp_test" {
		t.Errorf("Expected %q, got %q", "ghp_test", v)
	}

	if err := store.Delete("github_token"); err != nil {
		t.Fatalf("Failed to delete secret: %v", err)
	}
	if v, _ := store.Get("github_token"); v != "" {
		t.Errorf("Expected secret to be deleted, got %q", v)
	}
}

func TestFileSecretStore_Persistence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "secrets")

	store, err := NewFileSecretStore(SecretStoreConfig{StorageDir: dir, FileMode: true})
	if err != nil {
		t.Fatalf("Failed to create secret store: %v", err)
	}
	if err := store.Set("gist_id.abc", "1234"); err != nil {
		t.Fatalf("Failed to set secret: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Storage dir missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		t.Errorf("Expected dir mode 0700, got %o", perm)
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("Expected one secret file, got %d (err %v)", len(entries), err)
	}
	if strings.Contains(entries[0].Name(), "gist_id") {
		t.Errorf("Secret file name should not contain the key: %s", entries[0].Name())
	}
	fileInfo, err := entries[0].Info()
	if err != nil {
		t.Fatal(err)
	}
	if perm := fileInfo.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected file mode 0600, got %o", perm)
	}

	reopened, err := NewFileSecretStore(SecretStoreConfig{StorageDir: dir, FileMode: true})
	if err != nil {
		t.Fatalf("Failed to reopen secret store: %v", err)
	}
	if v, _ := reopened.Get("gist_id.abc"); v != "1234" {
		t.Errorf("Expected persisted value %q, got %q", "1234", v)
	}

	if err := reopened.Delete("gist_id.abc"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if err := reopened.Delete("gist_id.abc"); err != nil {
		t.Errorf("Deleting a missing key should succeed, got %v", err)
	}
	entries, _ = os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected secret file to be removed, found %d files", len(entries))
	}
}

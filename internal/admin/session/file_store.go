package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps the credential in a JSON file readable only by the owner.
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Save(_ context.Context, cred Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create session dir failed: %w", err)
	}
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session failed: %w", err)
	}
	return nil
}

func (f *FileStore) Load(_ context.Context) (Credential, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var cred Credential
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cred, false, nil
		}
		return cred, false, fmt.Errorf("read session failed: %w", err)
	}
	if len(data) == 0 {
		return cred, false, nil
	}
	if err := json.Unmarshal(data, &cred); err != nil {
		return Credential{}, false, fmt.Errorf("parse session failed: %w", err)
	}
	if cred.Token == "" {
		return Credential{}, false, nil
	}
	if cred.Expired(f.now()) {
		if err := f.remove(); err != nil {
			return Credential{}, false, err
		}
		return Credential{}, false, nil
	}
	return cred, true, nil
}

func (f *FileStore) Delete(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remove()
}

func (f *FileStore) remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session failed: %w", err)
	}
	return nil
}

package session

import (
	"context"
	"sync"
	"time"
)

// Store persists the credential. Expiration is the store's job: Load never
// returns a credential past its expiry.
type Store interface {
	Save(ctx context.Context, cred Credential) error
	Load(ctx context.Context) (Credential, bool, error)
	Delete(ctx context.Context) error
}

// MemoryStore keeps the credential in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	cred *Credential
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, cred Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := cred
	m.cred = &c
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (Credential, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cred == nil {
		return Credential{}, false, nil
	}
	if m.cred.Expired(m.now()) {
		m.cred = nil
		return Credential{}, false, nil
	}
	return *m.cred, true, nil
}

func (m *MemoryStore) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = nil
	return nil
}

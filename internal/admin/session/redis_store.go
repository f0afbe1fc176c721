package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ojadmin/internal/common/cache"
)

const DefaultRedisKey = "ojadmin:session:admin"

// RedisStore keeps the credential under one key whose TTL is the expiry.
type RedisStore struct {
	kv  cache.KV
	key string
	now func() time.Time
}

func NewRedisStore(kv cache.KV, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{kv: kv, key: key, now: time.Now}
}

func (r *RedisStore) Save(ctx context.Context, cred Credential) error {
	ttl := cred.ExpiresAt.Sub(r.now()).Round(time.Second)
	if ttl <= 0 {
		return r.Delete(ctx)
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, string(data), ttl); err != nil {
		return fmt.Errorf("store session failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context) (Credential, bool, error) {
	raw, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return Credential{}, false, fmt.Errorf("load session failed: %w", err)
	}
	if raw == "" {
		return Credential{}, false, nil
	}
	var cred Credential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		return Credential{}, false, fmt.Errorf("parse session failed: %w", err)
	}
	if cred.Token == "" {
		return Credential{}, false, nil
	}
	return cred, true, nil
}

func (r *RedisStore) Delete(ctx context.Context) error {
	if err := r.kv.Del(ctx, r.key); err != nil {
		return fmt.Errorf("delete session failed: %w", err)
	}
	return nil
}

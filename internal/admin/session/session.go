package session

import (
	"context"
	"sync"
	"time"

	pkgerrors "ojadmin/pkg/errors"
	"ojadmin/pkg/utils/logger"

	"go.uber.org/zap"
)

// Reason names why a session ended.
type Reason string

const (
	ReasonLogout       Reason = "logout"
	ReasonUnauthorized Reason = "unauthorized"
)

// Invalidated is published after the credential has been cleared.
type Invalidated struct {
	Reason Reason
	Status int
	At     time.Time
}

// Listener observes session invalidation. Listeners run synchronously in
// subscription order, after the store was cleared.
type Listener func(ctx context.Context, ev Invalidated)

// Session is the one credential shared by every outgoing call. It is
// injected into the transport instead of living in a package global.
type Session struct {
	store  Store
	secure bool
	now    func() time.Time

	mu        sync.Mutex
	nextID    int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

// Option configures a Session.
type Option func(*Session)

// WithSecure marks credentials as secure-only (production).
func WithSecure(secure bool) Option {
	return func(s *Session) {
		s.secure = secure
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func New(store Store, opts ...Option) *Session {
	s := &Session{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCredential persists token, replacing any existing one. A zero ttl uses
// DefaultTTL.
func (s *Session) SetCredential(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" {
		return pkgerrors.New(pkgerrors.TokenInvalid).WithMessage("empty token")
	}
	cred := newCredential(token, s.now(), ttl, s.secure)
	if err := s.store.Save(ctx, cred); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.SessionStoreError)
	}
	return nil
}

// Credential returns the current credential if one is held.
func (s *Session) Credential(ctx context.Context) (Credential, bool, error) {
	cred, ok, err := s.store.Load(ctx)
	if err != nil {
		return Credential{}, false, pkgerrors.Wrap(err, pkgerrors.SessionStoreError)
	}
	return cred, ok, nil
}

// Token returns the current token, or "" when logged out. Store failures
// are logged and read as logged out.
func (s *Session) Token(ctx context.Context) string {
	cred, ok, err := s.Credential(ctx)
	if err != nil {
		logger.Warn(ctx, "read session failed", zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return cred.Token
}

// IsAuthenticated is true iff a credential is held.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// ClearCredential removes the credential without notifying listeners.
// It is idempotent.
func (s *Session) ClearCredential(ctx context.Context) error {
	if err := s.store.Delete(ctx); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.SessionStoreError)
	}
	return nil
}

// Invalidate clears the credential and then publishes Invalidated to every
// listener. The clear happens even when a listener later fails.
func (s *Session) Invalidate(ctx context.Context, reason Reason, status int) {
	if err := s.ClearCredential(ctx); err != nil {
		logger.Error(ctx, "clear session failed", zap.Error(err), zap.String("reason", string(reason)))
	}
	ev := Invalidated{Reason: reason, Status: status, At: s.now()}

	s.mu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, sub := range s.listeners {
		listeners = append(listeners, sub.fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, ev)
	}
}

// Subscribe registers fn for invalidation events and returns a func that
// removes it.
func (s *Session) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

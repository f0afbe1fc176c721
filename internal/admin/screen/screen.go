// Package screen holds the page-scoped state of each console screen and
// applies the reconciliation rule for every action.
package screen

import (
	"context"
	"fmt"
	"sync"

	"ojadmin/pkg/utils/contextkey"
	"ojadmin/pkg/utils/logger"

	"go.uber.org/zap"
)

// state is the list plus the last error message of one screen. Actions
// hold the lock for their whole call set so readers only see settled lists.
type state[T any] struct {
	mu    sync.Mutex
	items []T
	err   string
}

// Items returns a copy of the current list.
func (s *state[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}

// Err returns the message of the last failed action, "" when it succeeded.
func (s *state[T]) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *state[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// fail records msg and returns err annotated with it. Callers hold mu.
func (s *state[T]) fail(ctx context.Context, screen, msg string, err error) error {
	s.err = msg
	logger.Error(withScreen(ctx, screen), msg, zap.Error(err))
	return wrapMsg(msg, err)
}

func wrapMsg(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

func withScreen(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, contextkey.Screen, name)
}

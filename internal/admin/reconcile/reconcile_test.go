package reconcile

import (
	"context"
	"errors"
	"testing"

	"ojadmin/internal/admin/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func events(names ...string) []model.Event {
	out := make([]model.Event, 0, len(names))
	for i, n := range names {
		out = append(out, model.Event{ID: model.IDFromInt64(int64(i + 1)), Name: n})
	}
	return out
}

func TestAppend(t *testing.T) {
	list := events("A")
	list = Append(list, model.Event{ID: "9", Name: "B"})
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[1].Name)
}

func TestReplaceByID(t *testing.T) {
	list := events("A", "B", "C")

	got := ReplaceByID(list, model.Event{ID: "2", Name: "B", IsActive: true})
	require.Len(t, got, 3)
	assert.True(t, got[1].IsActive)
	assert.Equal(t, []string{"A", "B", "C"}, names(got), "order is preserved")
	assert.False(t, list[1].IsActive, "input is not mutated")

	same := ReplaceByID(list, model.Event{ID: "404", Name: "X"})
	assert.Equal(t, list, same)
}

func TestRemoveByID(t *testing.T) {
	list := events("A", "B", "C")
	got := RemoveByID(list, "2")
	assert.Equal(t, []string{"A", "C"}, names(got))
	assert.Len(t, RemoveByID(got, "404"), 2)
	_, found := Find(got, "2")
	assert.False(t, found)
}

func TestRefetch(t *testing.T) {
	ctx := context.Background()
	list := events("A")

	got, err := Refetch(ctx, list, func(context.Context) ([]model.Event, error) {
		return events("A", "B"), nil
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = Refetch(ctx, list, func(context.Context) ([]model.Event, error) {
		return nil, errors.New("down")
	})
	require.Error(t, err)
	assert.Equal(t, list, got)

	got, err = Refetch(ctx, list, func(context.Context) ([]model.Event, error) { return nil, nil })
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFind(t *testing.T) {
	list := events("A", "B")
	ev, ok := Find(list, "2")
	require.True(t, ok)
	assert.Equal(t, "B", ev.Name)
	_, ok = Find(list, "3")
	assert.False(t, ok)
}

func names(list []model.Event) []string {
	out := make([]string, 0, len(list))
	for _, ev := range list {
		out = append(out, ev.Name)
	}
	return out
}

// Package reconcile keeps a screen's in-memory list consistent with the
// backend after a mutation.
package reconcile

import (
	"context"

	"ojadmin/internal/admin/model"
)

// Append adds item at the end of list.
func Append[T model.Identifiable](list []T, item T) []T {
	return append(list, item)
}

// ReplaceByID swaps the element with item's id for item in place. The list
// is returned unchanged when no element matches.
func ReplaceByID[T model.Identifiable](list []T, item T) []T {
	id := item.Key()
	for i := range list {
		if list[i].Key() == id {
			out := make([]T, len(list))
			copy(out, list)
			out[i] = item
			return out
		}
	}
	return list
}

// RemoveByID drops every element with id.
func RemoveByID[T model.Identifiable](list []T, id model.ID) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if item.Key() != id {
			out = append(out, item)
		}
	}
	return out
}

// Refetch replaces the list with the server's current view. On error the
// previous list is kept.
func Refetch[T model.Identifiable](ctx context.Context, list []T, fetch func(context.Context) ([]T, error)) ([]T, error) {
	fresh, err := fetch(ctx)
	if err != nil {
		return list, err
	}
	if fresh == nil {
		fresh = []T{}
	}
	return fresh, nil
}

// Find returns the element with id.
func Find[T model.Identifiable](list []T, id model.ID) (T, bool) {
	for _, item := range list {
		if item.Key() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

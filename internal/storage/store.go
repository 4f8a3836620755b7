// Package storage is the key-value store that replaces the browser's local
// storage.  Values are opaque bytes; the typed helpers in records.go encode
// them as JSON under fixed key names.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is a flat key-value store.  Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	// Update replaces the value at key with fn(old) atomically: no other
	// write to key lands between the read and the write.  found is false
	// when key has no value.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// UpdateFunc computes the new value of a key from the old one.  An error
// aborts the update and is returned unchanged.
type UpdateFunc func(old []byte, found bool) ([]byte, error)

// scoped namespaces every key of one visitor.
type scoped struct {
	inner  Store
	prefix string
}

// Scope returns a Store whose keys live under visitor:<visitorID>:.  Two
// visitors never see each other's values.
func Scope(s Store, visitorID string) Store {
	return &scoped{inner: s, prefix: "visitor:" + visitorID + ":"}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return s.inner.Update(ctx, s.prefix+key, fn)
}

func (s *scoped) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.inner.Delete(ctx, full...)
}

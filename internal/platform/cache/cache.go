// Package cache is the durable key to bytes store behind the cache-aside orchestrator
// Backends: memory, file, sqlite, postgres. None of them interpret the bytes
package cache

import "context"

// DefaultNamespace prefixes every key written by lectern
const DefaultNamespace = "lectern:cache:"

// Store is a persistent key to bytes map
// Get reports ok=false for an absent key; Delete of an absent key is not an error
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte) error
	Delete(ctx context.Context, key string) error
}

// Namespaced returns a Store that prefixes every key with prefix
// an empty prefix returns s unchanged
func Namespaced(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	if n, ok := s.(*namespaced); ok {
		return &namespaced{inner: n.inner, prefix: n.prefix + prefix}
	}
	return &namespaced{inner: s, prefix: prefix}
}

type namespaced struct {
	inner  Store
	prefix string
}

func (n *namespaced) key(k string) string { return n.prefix + k }

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Get(ctx, n.key(key))
}

func (n *namespaced) Set(ctx context.Context, key string, val []byte) error {
	return n.inner.Set(ctx, n.key(key), val)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.key(key))
}

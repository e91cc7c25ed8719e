/*
Package store defines the persistence contract for job bundles.

PURPOSE:
  The engine and the profile service treat persistence as an injected
  key-value store with a get/set contract: values are opaque JSON
  strings, keys are flat strings. A missing or corrupted value is
  treated as absent by callers, never as a fatal error - every load
  path falls back to documented defaults.

KEY LAYOUT (owned by the profile package):
  jobs          JSON list of {id, name} references
  active_job    id of the currently active job
  job:<id>      the job's full persisted bundle

IMPLEMENTATIONS:
  - Memory (this package): in-process map, for tests and dev
  - sqlite subpackage:     durable single-file store

Writes are serialized by the caller (single logical writer); the
implementations still lock internally so a background exporter can
read concurrently.
*/
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// KV is the injected persistence contract.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores the value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys with the given prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ KV = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

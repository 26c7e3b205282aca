// Package store persists job and session snapshots as JSON documents.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	Save(ctx context.Context, key string, v any) error
	// Load decodes the document under key into out, or returns ErrNotFound.
	Load(ctx context.Context, key string, out any) error
	Delete(ctx context.Context, key string) error
	// List returns the keys starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

func JobKey(id string) string     { return "job:" + id }
func SessionKey(id string) string { return "session:" + id }

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{docs: map[string][]byte{}}
}

func (m *Memory) Save(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = data
	return nil
}

func (m *Memory) Load(_ context.Context, key string, out any) error {
	m.mu.RLock()
	data, ok := m.docs[key]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

func (m *Memory) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := []string{}
	for k := range m.docs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) Close() error { return nil }

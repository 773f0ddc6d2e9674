package flow

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/ddbase3/MissionBay-sub002/component"
	"github.com/ddbase3/MissionBay-sub002/errors"
)

// SessionStore is the explicit backing store injected into Memory.
// Implementations must be safe for concurrent use. Get returns
// errors.ErrKeyNotFound for absent keys.
type SessionStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MapStore is an in-process SessionStore.
type MapStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMapStore creates an empty in-process session store.
func NewMapStore() *MapStore {
	return &MapStore{data: make(map[string][]byte)}
}

// Get returns the value stored under key.
func (s *MapStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, errors.ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Put stores a value under key.
func (s *MapStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// Delete removes a key; deleting an absent key is not an error.
func (s *MapStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// historyLimit bounds the per-node history kept by Memory.
const historyLimit = 100

// Memory implements the run memory backend over a SessionStore: per-node
// history entries plus a generic key/value store. Entries are JSON
// encoded, so any store capable of holding bytes works, including the
// JetStream KV store.
type Memory struct {
	store SessionStore
	mu    sync.Mutex
}

var _ component.Memory = (*Memory)(nil)

// NewMemory creates a Memory over the given session store.
func NewMemory(store SessionStore) *Memory {
	return &Memory{store: store}
}

func historyKey(nodeID string) string { return "history." + nodeID }
func kvKey(key string) string         { return "kv." + key }

// Append adds an entry to the node's history, trimming to the history
// limit. The append is serialized so concurrent node executions within a
// pass cannot lose entries.
func (m *Memory) Append(ctx context.Context, nodeID string, entry map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	history, err := m.loadHistory(ctx, nodeID)
	if err != nil {
		return err
	}

	history = append(history, entry)
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return errors.WrapInvalid(err, "Memory", "Append", "history marshal")
	}
	if err := m.store.Put(ctx, historyKey(nodeID), data); err != nil {
		return errors.WrapTransient(err, "Memory", "Append", "history write")
	}
	return nil
}

// History returns up to limit most recent entries for a node, oldest
// first. A limit of zero or less returns the full stored history.
func (m *Memory) History(ctx context.Context, nodeID string, limit int) ([]map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history, err := m.loadHistory(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history, nil
}

// Put stores a generic key/value entry.
func (m *Memory) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.WrapInvalid(err, "Memory", "Put", "value marshal")
	}
	if err := m.store.Put(ctx, kvKey(key), data); err != nil {
		return errors.WrapTransient(err, "Memory", "Put", "store write")
	}
	return nil
}

// Get loads a generic key/value entry. Absent keys return
// errors.ErrKeyNotFound.
func (m *Memory) Get(ctx context.Context, key string) (any, error) {
	data, err := m.store.Get(ctx, kvKey(key))
	if err != nil {
		if stderrors.Is(err, errors.ErrKeyNotFound) {
			return nil, err
		}
		return nil, errors.WrapTransient(err, "Memory", "Get", "store read")
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, errors.WrapInvalid(err, "Memory", "Get", "value unmarshal")
	}
	return value, nil
}

func (m *Memory) loadHistory(ctx context.Context, nodeID string) ([]map[string]any, error) {
	data, err := m.store.Get(ctx, historyKey(nodeID))
	if err != nil {
		if stderrors.Is(err, errors.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, errors.WrapTransient(err, "Memory", "loadHistory",
			fmt.Sprintf("read history for node '%s'", nodeID))
	}

	var history []map[string]any
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.WrapInvalid(err, "Memory", "loadHistory", "history unmarshal")
	}
	return history, nil
}

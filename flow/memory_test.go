package flow

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddbase3/MissionBay-sub002/errors"
)

func TestMapStore(t *testing.T) {
	store := NewMapStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.True(t, stderrors.Is(err, errors.ErrKeyNotFound))

	require.NoError(t, store.Put(ctx, "k", []byte("v")))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	// Stored bytes are isolated from caller mutation.
	got[0] = 'x'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), again)

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.True(t, stderrors.Is(err, errors.ErrKeyNotFound))

	require.NoError(t, store.Delete(ctx, "k"), "deleting an absent key is not an error")
}

func TestMemoryHistory(t *testing.T) {
	mem := NewMemory(NewMapStore())
	ctx := context.Background()

	require.NoError(t, mem.Append(ctx, "node1", map[string]any{"n": 1}))
	require.NoError(t, mem.Append(ctx, "node1", map[string]any{"n": 2}))
	require.NoError(t, mem.Append(ctx, "node2", map[string]any{"other": true}))

	history, err := mem.History(ctx, "node1", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// JSON round-trip turns numbers into float64.
	assert.Equal(t, float64(1), history[0]["n"])
	assert.Equal(t, float64(2), history[1]["n"])

	limited, err := mem.History(ctx, "node1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, float64(2), limited[0]["n"])

	empty, err := mem.History(ctx, "node3", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryHistoryTrimsToLimit(t *testing.T) {
	mem := NewMemory(NewMapStore())
	ctx := context.Background()

	for i := 0; i < historyLimit+10; i++ {
		require.NoError(t, mem.Append(ctx, "busy", map[string]any{"i": i}))
	}

	history, err := mem.History(ctx, "busy", 0)
	require.NoError(t, err)
	require.Len(t, history, historyLimit)
	assert.Equal(t, float64(10), history[0]["i"], "oldest entries are dropped")
}

func TestMemoryKeyValue(t *testing.T) {
	mem := NewMemory(NewMapStore())
	ctx := context.Background()

	require.NoError(t, mem.Put(ctx, "session", map[string]any{"user": "alice"}))

	value, err := mem.Get(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": "alice"}, value)

	_, err = mem.Get(ctx, "absent")
	assert.True(t, stderrors.Is(err, errors.ErrKeyNotFound))
}

// failStore simulates a backend outage.
type failStore struct{}

func (failStore) Get(context.Context, string) ([]byte, error) {
	return nil, fmt.Errorf("connection refused")
}
func (failStore) Put(context.Context, string, []byte) error {
	return fmt.Errorf("connection refused")
}
func (failStore) Delete(context.Context, string) error {
	return fmt.Errorf("connection refused")
}

func TestMemoryStoreFailureIsTransient(t *testing.T) {
	mem := NewMemory(failStore{})
	ctx := context.Background()

	err := mem.Put(ctx, "k", "v")
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))

	_, err = mem.Get(ctx, "k")
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
}

package flow

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/ddbase3/MissionBay-sub002/errors"
)

// KVStore is a SessionStore backed by a NATS JetStream KeyValue bucket,
// giving Memory continuity across processes. Keys are sanitized to the
// KV key alphabet.
type KVStore struct {
	bucket jetstream.KeyValue
}

var _ SessionStore = (*KVStore)(nil)

// NewKVStore creates or opens the named KV bucket.
func NewKVStore(ctx context.Context, js jetstream.JetStream, bucket string) (*KVStore, error) {
	if js == nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("jetstream context cannot be nil"),
			"KVStore", "NewKVStore", "jetstream validation")
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "Flow memory session state",
		History:     1,
	})
	if err != nil {
		return nil, errors.WrapTransient(err, "KVStore", "NewKVStore", "create KV bucket")
	}

	return &KVStore{bucket: kv}, nil
}

// Get returns the value stored under key.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.bucket.Get(ctx, sanitizeKey(key))
	if err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, errors.ErrKeyNotFound
		}
		return nil, errors.WrapTransient(err, "KVStore", "Get", "kv read")
	}
	return entry.Value(), nil
}

// Put stores a value under key.
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.bucket.Put(ctx, sanitizeKey(key), value); err != nil {
		return errors.WrapTransient(err, "KVStore", "Put", "kv write")
	}
	return nil
}

// Delete removes a key; deleting an absent key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, sanitizeKey(key))
	if err != nil && !stderrors.Is(err, jetstream.ErrKeyNotFound) {
		return errors.WrapTransient(err, "KVStore", "Delete", "kv delete")
	}
	return nil
}

// sanitizeKey maps arbitrary memory keys onto the JetStream KV key
// alphabet (alphanumerics plus - _ . =).
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.', r == '=':
			return r
		default:
			return '_'
		}
	}, key)
}

package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// KV is the persistent key-value store backing user profiles and the booking
// ledger. Values are whole serialized documents: every mutation reads the
// current document, applies the change and writes the full document back, so
// a write never drops unrelated fields.
type KV struct {
	client *redis.Client
}

func New(client *redis.Client) *KV {
	return &KV{client: client}
}

func (s *KV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *KV) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// GetJSON decodes the document stored at key into out. A missing key and a
// document that fails to decode are both reported as absent: corrupt state is
// recovered by falling back to defaults, never by failing the caller.
func (s *KV) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *KV) SetJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(raw))
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix = "idempotency:checkout:"
	idempotencyTTL       = 24 * time.Hour

	stateProcessing = "processing"
	stateSuccess    = "success"
)

// ErrInProgress is returned while another request holds the same key.
var ErrInProgress = errors.New("idempotency key is already being processed")

type idempotencyState struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
}

// RedisIdempotencyStore keeps checkout keys in redis for 24h.
type RedisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func (s *RedisIdempotencyStore) key(k string) string {
	return idempotencyKeyPrefix + k
}

// Reserve claims key. It returns the stored result when the key already
// succeeded, nil when the caller now owns the key, and ErrInProgress when
// another request owns it.
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string) ([]byte, error) {
	k := s.key(key)
	processing, _ := json.Marshal(idempotencyState{Status: stateProcessing})

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := s.client.SetNX(ctx, k, processing, idempotencyTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis setnx: %w", err)
		}
		if ok {
			return nil, nil
		}

		data, err := s.client.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis get: %w", err)
		}

		var state idempotencyState
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("redis unmarshal: %w", err)
		}

		switch state.Status {
		case stateSuccess:
			return state.Result, nil
		case stateProcessing:
			return nil, ErrInProgress
		default:
			if err := s.client.Del(ctx, k).Err(); err != nil {
				return nil, fmt.Errorf("redis del: %w", err)
			}
		}
	}
}

func (s *RedisIdempotencyStore) MarkSuccess(ctx context.Context, key string, result []byte) error {
	raw, err := json.Marshal(idempotencyState{Status: stateSuccess, Result: result})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), raw, idempotencyTTL).Err()
}

func (s *RedisIdempotencyStore) MarkFailure(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// MemoryIdempotencyStore is the single-process fallback when redis is absent.
type MemoryIdempotencyStore struct {
	mu    sync.Mutex
	now   func() time.Time
	items map[string]memoryEntry
}

type memoryEntry struct {
	state     idempotencyState
	expiresAt time.Time
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		now:   time.Now,
		items: make(map[string]memoryEntry),
	}
}

func (s *MemoryIdempotencyStore) Reserve(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.items[key]; ok && s.now().Before(entry.expiresAt) {
		switch entry.state.Status {
		case stateSuccess:
			return entry.state.Result, nil
		case stateProcessing:
			return nil, ErrInProgress
		}
	}

	s.items[key] = memoryEntry{
		state:     idempotencyState{Status: stateProcessing},
		expiresAt: s.now().Add(idempotencyTTL),
	}
	return nil, nil
}

func (s *MemoryIdempotencyStore) MarkSuccess(_ context.Context, key string, result []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = memoryEntry{
		state:     idempotencyState{Status: stateSuccess, Result: result},
		expiresAt: s.now().Add(idempotencyTTL),
	}
	return nil
}

func (s *MemoryIdempotencyStore) MarkFailure(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// README: Overlay state stores: in-memory for tests and single instances,
// Redis for restoring cards across API replicas.
package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "fleetcard:overlay:%s"

// State is what survives a process restart: the props and UI state of one
// mounted card plus the user that owns it.
type State struct {
	ID    string  `json:"id"`
	Owner string  `json:"owner"`
	Props Props   `json:"props"`
	UI    UIState `json:"ui"`
}

type StateStore interface {
	Save(ctx context.Context, s State) error
	Load(ctx context.Context, id string) (State, error)
	Delete(ctx context.Context, id string) error
}

type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]State
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]State)}
}

func (m *MemoryStateStore) Save(_ context.Context, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[s.ID] = s
	return nil
}

func (m *MemoryStateStore) Load(_ context.Context, id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[id]
	if !ok {
		return State{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStateStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

// RedisStateStore keeps each card as a JSON value that expires after ttl
// without activity.
type RedisStateStore struct {
	redis redis.Cmdable
	ttl   time.Duration
}

func NewRedisStateStore(rdb redis.Cmdable, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{redis: rdb, ttl: ttl}
}

func (s *RedisStateStore) Save(ctx context.Context, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode overlay state: %w", err)
	}
	return s.redis.Set(ctx, stateKey(st.ID), raw, s.ttl).Err()
}

func (s *RedisStateStore) Load(ctx context.Context, id string) (State, error) {
	raw, err := s.redis.Get(ctx, stateKey(id)).Bytes()
	if err == redis.Nil {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, err
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("decode overlay state %s: %w", id, err)
	}
	return st, nil
}

func (s *RedisStateStore) Delete(ctx context.Context, id string) error {
	return s.redis.Del(ctx, stateKey(id)).Err()
}

func stateKey(id string) string {
	return fmt.Sprintf(stateKeyPrefix, id)
}

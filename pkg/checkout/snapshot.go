package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// ErrSnapshotNotFound is returned by a SnapshotStore for unknown checkout ids.
var ErrSnapshotNotFound = errors.New("checkout snapshot not found")

// SnapshotStore keeps the final view of finished checkouts.
type SnapshotStore interface {
	Save(ctx context.Context, view View) error
	Load(ctx context.Context, id string) (View, error)
}

// MemorySnapshots is a process local SnapshotStore.
type MemorySnapshots struct {
	mu    sync.RWMutex
	views map[string]View
}

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{views: make(map[string]View)}
}

func (m *MemorySnapshots) Save(_ context.Context, view View) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[view.ID] = view
	return nil
}

func (m *MemorySnapshots) Load(_ context.Context, id string) (View, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	view, ok := m.views[id]
	if !ok {
		return View{}, ErrSnapshotNotFound
	}
	return view, nil
}

// RedisClient is the subset of the go-redis client used by RedisSnapshots.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

const snapshotKeyPrefix = "samplepay:checkout:"

// RedisSnapshots stores snapshots as JSON strings expiring after ttl.
type RedisSnapshots struct {
	client RedisClient
	ttl    time.Duration
}

func NewRedisSnapshots(client RedisClient, ttl time.Duration) *RedisSnapshots {
	return &RedisSnapshots{client: client, ttl: ttl}
}

func (r *RedisSnapshots) Save(ctx context.Context, view View) error {
	data, err := sonic.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to encode checkout snapshot: %w", err)
	}
	if err := r.client.Set(ctx, snapshotKeyPrefix+view.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store checkout snapshot: %w", err)
	}
	return nil
}

func (r *RedisSnapshots) Load(ctx context.Context, id string) (View, error) {
	data, err := r.client.Get(ctx, snapshotKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return View{}, ErrSnapshotNotFound
	}
	if err != nil {
		return View{}, fmt.Errorf("failed to load checkout snapshot: %w", err)
	}

	var view View
	if err := sonic.Unmarshal(data, &view); err != nil {
		return View{}, fmt.Errorf("failed to decode checkout snapshot: %w", err)
	}
	return view, nil
}

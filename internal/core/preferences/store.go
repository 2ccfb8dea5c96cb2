package preferences

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cookmate/internal/infrastructure/config"
)

// ErrNotFound 尚未儲存偏好
var ErrNotFound = errors.New("preferences not found")

// Store 偏好文件儲存，整份覆寫，最後寫入者為準
type Store interface {
	Load(ctx context.Context, userID string) (*UserPreferences, error)
	Save(ctx context.Context, userID string, prefs UserPreferences) error
	Delete(ctx context.Context, userID string) error
	Close() error
}

// NewStore 依設定建立對應的儲存實作
func NewStore(ctx context.Context, cfg config.PreferencesConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, cfg)
	case "sqlite", "postgres":
		return NewGormStore(cfg)
	default:
		return nil, fmt.Errorf("unsupported preferences driver %q", cfg.Driver)
	}
}

// Compile-time interface checks.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*GormStore)(nil)
)

// MemoryStore 記憶體儲存，適合開發與測試
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]UserPreferences
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]UserPreferences)}
}

func (s *MemoryStore) Load(_ context.Context, userID string) (*UserPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefs, ok := s.docs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := prefs.Clone()
	return &out, nil
}

func (s *MemoryStore) Save(_ context.Context, userID string, prefs UserPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[userID] = prefs.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, userID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

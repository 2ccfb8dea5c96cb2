package cooking

import (
	"context"
	"errors"
	"sync"
	"time"

	"cookmate/internal/core/recipe"
	"cookmate/internal/infrastructure/config"
	"cookmate/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound 會話不存在或已過期
	ErrSessionNotFound = errors.New("cooking session not found")
	// ErrTooManySessions 會話數已達上限
	ErrTooManySessions = errors.New("too many active cooking sessions")
)

// Manager 管理進行中的烹飪會話，閒置過久的會話會被移除
type Manager struct {
	cfg       config.SessionConfig
	assistant Assistant

	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time

	done chan struct{}
	once sync.Once
}

// NewManager 創建會話管理員並啟動背景清理
func NewManager(cfg config.SessionConfig, assistant Assistant) *Manager {
	m := &Manager{
		cfg:       cfg,
		assistant: assistant,
		sessions:  make(map[string]*Session),
		now:       time.Now,
		done:      make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 && cfg.IdleTTL > 0 {
		go m.startCleanup()
	}

	common.LogInfo("烹飪會話管理員已初始化",
		zap.Duration("閒置上限", cfg.IdleTTL),
		zap.Int("最大會話數", cfg.MaxSessions),
	)
	return m
}

// Create 為食譜建立新會話
func (m *Manager) Create(ctx context.Context, detail recipe.RecipeDetail) (*Session, error) {
	if m.full() {
		m.evictIdle()
		if m.full() {
			return nil, ErrTooManySessions
		}
	}

	// 問候語可能需要呼叫外部服務，不持有鎖
	s := NewSession(ctx, uuid.New().String(), detail, m.assistant)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}
	m.sessions[s.ID] = s

	common.LogInfo("建立烹飪會話",
		zap.String("session_id", s.ID),
		zap.String("recipe_id", detail.ID),
		zap.Int("steps", len(detail.Steps)),
	)
	return s, nil
}

// Get 取得會話
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete 結束會話
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Count 目前會話數
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) full() bool {
	if m.cfg.MaxSessions <= 0 {
		return false
	}
	return m.Count() >= m.cfg.MaxSessions
}

func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.evictIdle(); n > 0 {
				common.LogDebug("清理閒置烹飪會話", zap.Int("清理數量", n))
			}
		case <-m.done:
			return
		}
	}
}

// evictIdle 移除超過閒置時間的會話
func (m *Manager) evictIdle() int {
	if m.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			count++
		}
	}
	return count
}

// Close 停止背景清理
func (m *Manager) Close() {
	m.once.Do(func() {
		close(m.done)
	})
}

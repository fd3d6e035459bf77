package menustore

import (
	"context"
	"sync"
	"time"

	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Memory 記憶體暫存，具 TTL 與容量上限（滿時先清過期項目，再淘汰最少使用者）
type Memory struct {
	mu      sync.RWMutex
	store   map[string]entry
	maxSize int
	ttl     time.Duration
	stats   stats
	stop    chan struct{}
	once    sync.Once
	now     func() time.Time
}

type entry struct {
	session     Session
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

type stats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewMemory 創建記憶體暫存；cleanupInterval > 0 時啟動背景清理
func NewMemory(maxSize int, ttl, cleanupInterval time.Duration) *Memory {
	m := &Memory{
		store:   make(map[string]entry),
		maxSize: maxSize,
		ttl:     ttl,
		stop:    make(chan struct{}),
		now:     time.Now,
	}

	if cleanupInterval > 0 {
		go m.startCleanup(cleanupInterval)
	}

	common.LogInfo("菜單暫存已初始化",
		zap.Int("max_size", maxSize),
		zap.Duration("ttl", ttl),
		zap.Duration("cleanup_interval", cleanupInterval),
	)
	return m
}

// Save 儲存或覆寫菜單
func (m *Memory) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.store[s.ID]; !exists && m.maxSize > 0 && len(m.store) >= m.maxSize {
		if evicted := m.cleanup(); evicted > 0 {
			common.LogInfo("菜單暫存清理執行", zap.Int("evicted", evicted))
		}
		if len(m.store) >= m.maxSize {
			m.evictLRU()
		}
		if len(m.store) >= m.maxSize {
			common.LogWarn("菜單暫存已滿", zap.Int("size", len(m.store)))
			return common.ErrMenuStoreFull
		}
	}

	now := m.now()
	m.store[s.ID] = entry{
		session:    *s,
		expiresAt:  now.Add(m.ttl),
		lastAccess: now,
	}
	return nil
}

// Get 取回菜單並延長存活時間
func (m *Memory) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.store[id]
	now := m.now()
	if !ok || now.After(e.expiresAt) {
		if ok {
			delete(m.store, id)
			m.stats.evictions++
		}
		m.stats.misses++
		common.LogCacheMiss("menu", id)
		return nil, common.ErrMenuNotFound
	}

	e.lastAccess = now
	e.accessCount++
	e.expiresAt = now.Add(m.ttl)
	m.store[id] = e
	m.stats.hits++
	common.LogCacheHit("menu", id)

	s := e.session
	return &s, nil
}

// Delete 移除菜單
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

// Ping 永遠可用
func (m *Memory) Ping(context.Context) error { return nil }

// Len 目前筆數
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

// GetStats 暫存統計
func (m *Memory) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ratio := 0.0
	if total := m.stats.hits + m.stats.misses; total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.maxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"hit_ratio": ratio,
	}
}

// Close 停止背景清理並清空
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]entry)
	common.LogInfo("菜單暫存已關閉",
		zap.Int64("hits", m.stats.hits),
		zap.Int64("misses", m.stats.misses),
		zap.Int64("evictions", m.stats.evictions),
	)
	return nil
}

func (m *Memory) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			count := m.cleanup()
			m.mu.Unlock()
			if count > 0 {
				common.LogDebug("已清理過期菜單", zap.Int("count", count))
			}
		case <-m.stop:
			return
		}
	}
}

// cleanup 清除過期項目，呼叫端須持有寫鎖
func (m *Memory) cleanup() int {
	now := m.now()
	count := 0
	for id, e := range m.store {
		if now.After(e.expiresAt) {
			delete(m.store, id)
			count++
			m.stats.evictions++
		}
	}
	return count
}

// evictLRU 淘汰存取次數最少、其次最久未使用的項目，呼叫端須持有寫鎖
func (m *Memory) evictLRU() {
	var (
		oldestID     string
		oldestAccess time.Time
		lowestCount  int
	)
	for id, e := range m.store {
		if oldestID == "" ||
			e.accessCount < lowestCount ||
			(e.accessCount == lowestCount && e.lastAccess.Before(oldestAccess)) {
			oldestID = id
			oldestAccess = e.lastAccess
			lowestCount = e.accessCount
		}
	}
	if oldestID != "" {
		delete(m.store, oldestID)
		m.stats.evictions++
		common.LogDebug("菜單已淘汰(LRU)", zap.String("id", oldestID))
	}
}

// Package menustore 暫存已產生的週菜單，讓換菜與購物清單可以用 id 取回
package menustore

import (
	"context"
	"fmt"
	"time"

	"menu-planner/internal/core/planner"
	"menu-planner/internal/infrastructure/config"
)

// Session 一份已產生的週菜單
type Session struct {
	ID          string              `json:"id"`
	Menu        planner.Menu        `json:"menu"`
	Diagnostics planner.Diagnostics `json:"diagnostics"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Store 菜單暫存；找不到或已過期時 Get 回傳 common.ErrMenuNotFound
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// New 依設定建立暫存
func New(cfg config.MenuStoreConfig) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(cfg.MaxSize, cfg.TTL, cfg.CleanupInterval), nil
	case "redis":
		return NewRedis(cfg)
	default:
		return nil, fmt.Errorf("unknown menu store backend %q", cfg.Backend)
	}
}

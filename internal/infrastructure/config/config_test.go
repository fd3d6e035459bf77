package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/recipes.db", cfg.Database.Path)
	assert.Equal(t, 4, cfg.Planner.TargetServings)
	assert.Equal(t, "nl", cfg.Planner.Locale)
	assert.Equal(t, 0.75, cfg.Planner.SimilarTitleThreshold)
	assert.Equal(t, 10, cfg.Planner.TitleCandidates)
	assert.Equal(t, 5, cfg.Planner.ReplaceTopN)
	assert.Equal(t, "memory", cfg.MenuStore.Backend)
	assert.Equal(t, 168*time.Hour, cfg.MenuStore.TTL)
	assert.Equal(t, time.Second, cfg.DedupWindow)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TARGET_SERVINGS", "2")
	t.Setenv("APP_PLANNER_LOCALE", "en")
	t.Setenv("MENU_STORE_BACKEND", "redis")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Planner.TargetServings)
	assert.Equal(t, "en", cfg.Planner.Locale)
	assert.Equal(t, "redis", cfg.MenuStore.Backend)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("TARGET_SERVINGS", "0")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("TARGET_SERVINGS", "4")
	t.Setenv("MENU_STORE_BACKEND", "etcd")
	_, err = LoadConfig()
	assert.Error(t, err)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Pantry      PantryConfig    `mapstructure:"pantry"`
	Planner     PlannerConfig   `mapstructure:"planner"`
	MenuStore   MenuStoreConfig `mapstructure:"menu_store"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// DatabaseConfig 食譜資料庫
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// PantryConfig 常備食材檔
type PantryConfig struct {
	Path string `mapstructure:"path"`
}

// PlannerConfig 菜單規劃參數
type PlannerConfig struct {
	TargetServings        int     `mapstructure:"target_servings"`
	Locale                string  `mapstructure:"locale"`
	TablesFile            string  `mapstructure:"tables_file"`
	SimilarTitleThreshold float64 `mapstructure:"similar_title_threshold"`
	TitleCandidates       int     `mapstructure:"title_candidates"`
	ReplaceTopN           int     `mapstructure:"replace_top_n"`
	VegetableTarget       int     `mapstructure:"vegetable_target"`
	Seed                  uint64  `mapstructure:"seed"` // 0 表示以時間為種子
}

// MenuStoreConfig 已產生菜單的暫存
type MenuStoreConfig struct {
	Backend         string        `mapstructure:"backend"` // memory | redis
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	TTL             time.Duration `mapstructure:"ttl"`
	MaxSize         int           `mapstructure:"max_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定；.env 不存在時只使用預設值與環境變數
func LoadConfig() (*Config, error) {
	// 加載 .env 文件
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("database.path", "DATABASE_PATH")
	_ = v.BindEnv("pantry.path", "PANTRY_PATH")
	_ = v.BindEnv("planner.target_servings", "TARGET_SERVINGS")
	_ = v.BindEnv("planner.locale", "PLANNER_LOCALE")
	_ = v.BindEnv("menu_store.backend", "MENU_STORE_BACKEND")
	_ = v.BindEnv("menu_store.redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("menu_store.redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "menu-planner")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 5*1024*1024) // 5MB

	// 資料設定
	v.SetDefault("database.path", "data/recipes.db")
	v.SetDefault("pantry.path", "data/pantry.json")

	// 規劃設定
	v.SetDefault("planner.target_servings", 4)
	v.SetDefault("planner.locale", "nl")
	v.SetDefault("planner.tables_file", "")
	v.SetDefault("planner.similar_title_threshold", 0.75)
	v.SetDefault("planner.title_candidates", 10)
	v.SetDefault("planner.replace_top_n", 5)
	v.SetDefault("planner.vegetable_target", 15)
	v.SetDefault("planner.seed", 0)

	// 菜單暫存設定
	v.SetDefault("menu_store.backend", "memory")
	v.SetDefault("menu_store.redis_addr", "localhost:6379")
	v.SetDefault("menu_store.redis_password", "")
	v.SetDefault("menu_store.redis_db", 0)
	v.SetDefault("menu_store.ttl", "168h")
	v.SetDefault("menu_store.max_size", 1000)
	v.SetDefault("menu_store.cleanup_interval", "10m")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if config.Pantry.Path == "" {
		return fmt.Errorf("pantry path is required")
	}

	// 驗證規劃設定
	p := config.Planner
	if p.TargetServings < 1 {
		return fmt.Errorf("invalid target servings: %d", p.TargetServings)
	}
	if p.SimilarTitleThreshold <= 0 || p.SimilarTitleThreshold > 1 {
		return fmt.Errorf("similar title threshold must be in (0, 1]")
	}
	if p.TitleCandidates < 1 || p.ReplaceTopN < 1 {
		return fmt.Errorf("title candidates and replace top n must be positive")
	}

	// 驗證菜單暫存設定
	switch config.MenuStore.Backend {
	case "memory":
		if config.MenuStore.MaxSize <= 0 {
			return fmt.Errorf("invalid menu store max size")
		}
		if config.MenuStore.CleanupInterval <= 0 {
			return fmt.Errorf("invalid menu store cleanup interval")
		}
	case "redis":
		if config.MenuStore.RedisAddr == "" {
			return fmt.Errorf("redis address is required")
		}
	default:
		return fmt.Errorf("unknown menu store backend %q", config.MenuStore.Backend)
	}
	if config.MenuStore.TTL <= 0 {
		return fmt.Errorf("invalid menu store ttl")
	}

	// 驗證限流設定
	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit settings")
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menu-planner/internal/api"
	"menu-planner/internal/api/handlers/health"
	"menu-planner/internal/core/planner"
	"menu-planner/internal/core/recipe"
	"menu-planner/internal/core/scoring"
	"menu-planner/internal/core/shopping"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/infrastructure/database/sqlite"
	"menu-planner/internal/infrastructure/menustore"
	"menu-planner/internal/infrastructure/pantry"
	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("database", cfg.Database.Path),
		zap.String("pantry", cfg.Pantry.Path),
		zap.String("locale", cfg.Planner.Locale),
		zap.String("menu_store", cfg.MenuStore.Backend),
	)

	// 食譜資料庫
	store, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		common.LogFatal("Failed to open recipe database", zap.Error(err))
	}
	defer store.Close()

	tables, err := loadTables(cfg.Planner)
	if err != nil {
		common.LogFatal("Failed to load scoring tables", zap.Error(err))
	}

	var rng planner.Rand
	if cfg.Planner.Seed != 0 {
		rng = planner.NewSeededRand(cfg.Planner.Seed)
	}
	p := planner.New(store, tables, planner.Options{
		TargetServings:  cfg.Planner.TargetServings,
		TopCandidates:   cfg.Planner.TitleCandidates,
		TitleThreshold:  cfg.Planner.SimilarTitleThreshold,
		ReplacePool:     cfg.Planner.ReplaceTopN,
		VegetableTarget: cfg.Planner.VegetableTarget,
	}, rng)

	pantryStore := pantry.NewFileStore(cfg.Pantry.Path, tables.DefaultPantry)
	aggregator := shopping.NewAggregator(store, pantryStore, p.Options().TargetServings, tables.DefaultUnit)

	// 菜單暫存
	sessions, err := menustore.New(cfg.MenuStore)
	if err != nil {
		common.LogFatal("Failed to initialize menu store", zap.Error(err))
	}
	defer sessions.Close()

	// 設置路由
	router := api.SetupRouter(cfg, api.Dependencies{
		Planner:    p,
		Aggregator: aggregator,
		Recipes:    recipe.NewService(store, pantryStore, tables.DefaultPantry),
		Sessions:   sessions,
		DayNames:   tables.DayNames,
		Checks: map[string]health.Checker{
			"database":   store,
			"menu_store": sessions,
		},
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}

// loadTables 自訂表格檔優先，否則使用內建語系
func loadTables(cfg config.PlannerConfig) (scoring.Tables, error) {
	if cfg.TablesFile != "" {
		return scoring.LoadTables(cfg.TablesFile, cfg.Locale)
	}
	return scoring.TablesFor(cfg.Locale)
}

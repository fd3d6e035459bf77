package api

import (
	"context"
	"net/http"
	"time"

	"menu-planner/internal/api/handlers/health"
	menuHandler "menu-planner/internal/api/handlers/menu"
	recipeHandler "menu-planner/internal/api/handlers/recipe"
	"menu-planner/internal/api/middleware"
	"menu-planner/internal/core/planner"
	recipeService "menu-planner/internal/core/recipe"
	"menu-planner/internal/core/shopping"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/infrastructure/menustore"
	"menu-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制預設值 (5MB)
	defaultMaxBodySize = 5 << 20
)

// Dependencies 路由使用的服務
type Dependencies struct {
	Planner    *planner.Planner
	Aggregator *shopping.Aggregator
	Recipes    *recipeService.Service
	Sessions   menustore.Store
	DayNames   []string
	Checks     map[string]health.Checker
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	maxBodySize := cfg.Server.MaxBodyBytes
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrorResponse{
				Code:    "REQUEST_TIMEOUT",
				Message: "請求逾時",
				Details: timeoutDuration.String(),
			})
		}
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, deps.Checks)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	api.Use(middleware.Deduplication(cfg))
	{
		menus := menuHandler.NewHandler(deps.Planner, deps.Aggregator, deps.Sessions, deps.DayNames)

		menuGroup := api.Group("/menus")
		{
			menuGroup.POST("", menus.Generate)
			menuGroup.GET("/:id", menus.Get)
			menuGroup.POST("/:id/days/:day/replace", menus.ReplaceDay)
			menuGroup.DELETE("/:id/days/:day", menus.ClearDay)
			menuGroup.GET("/:id/shopping-list", menus.ShoppingList)
		}

		recipes := recipeHandler.NewHandler(deps.Recipes, deps.Planner.Options().TargetServings)

		api.GET("/recipes/:id", recipes.GetRecipe)
		api.GET("/ingredients", recipes.ListIngredients)

		pantryGroup := api.Group("/pantry")
		{
			pantryGroup.GET("", recipes.GetPantry)
			pantryGroup.PUT("", recipes.UpdatePantry)
			pantryGroup.POST("/reset", recipes.ResetPantry)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router
}

package recipe

import (
	"net/http"
	"strconv"

	"menu-planner/internal/api/handlers"
	recipeService "menu-planner/internal/core/recipe"
	"menu-planner/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PantryRequest 更新常備食材
type PantryRequest struct {
	Items []string `json:"items" binding:"required"`
}

// PantryResponse 常備食材清單
type PantryResponse struct {
	Items []string `json:"items"`
}

// Handler 食譜與常備食材處理程序
type Handler struct {
	service        *recipeService.Service
	targetServings int
}

// NewHandler 創建新的食譜處理程序
func NewHandler(service *recipeService.Service, targetServings int) *Handler {
	return &Handler{
		service:        service,
		targetServings: targetServings,
	}
}

// GetRecipe 完整食譜，份量換算為 servings 參數（預設為目標人數，0 表示不換算）
func (h *Handler) GetRecipe(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		handlers.BadRequest(c, "recipe id must be a positive integer")
		return
	}

	servings := h.targetServings
	if raw := c.Query("servings"); raw != "" {
		servings, err = strconv.Atoi(raw)
		if err != nil || servings < 0 {
			handlers.BadRequest(c, "servings must be a non-negative integer")
			return
		}
	}

	r, err := h.service.Recipe(c.Request.Context(), id, servings)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ListIngredients 所有已知食材名稱（供常備清單挑選）
func (h *Handler) ListIngredients(c *gin.Context) {
	names, err := h.service.IngredientNames(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": names})
}

// GetPantry 目前的常備食材
func (h *Handler) GetPantry(c *gin.Context) {
	items, err := h.service.Pantry(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PantryResponse{Items: items})
}

// UpdatePantry 以請求內容取代常備食材
func (h *Handler) UpdatePantry(c *gin.Context) {
	var req PantryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		handlers.BadRequest(c, "invalid pantry payload")
		return
	}

	items, err := h.service.UpdatePantry(c.Request.Context(), req.Items)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PantryResponse{Items: items})
}

// ResetPantry 恢復預設常備食材
func (h *Handler) ResetPantry(c *gin.Context) {
	items, err := h.service.ResetPantry(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PantryResponse{Items: items})
}

package menu

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"menu-planner/internal/api/handlers"
	"menu-planner/internal/core/planner"
	"menu-planner/internal/core/shopping"
	"menu-planner/internal/infrastructure/menustore"
	"menu-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DayView 菜單中的一天
type DayView struct {
	Day    int                   `json:"day"`
	Name   string                `json:"name"`
	Recipe *common.RecipeSummary `json:"recipe"`
}

// MenuResponse 週菜單回應
type MenuResponse struct {
	ID          string              `json:"id"`
	Days        []DayView           `json:"days"`
	Complete    bool                `json:"complete"`
	Diagnostics planner.Diagnostics `json:"diagnostics"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ReplaceResponse 換菜回應；changed=false 表示沒有可替換的食譜
type ReplaceResponse struct {
	Menu    MenuResponse `json:"menu"`
	Changed bool         `json:"changed"`
}

// ShoppingListResponse 購物清單回應
type ShoppingListResponse struct {
	MenuID         string          `json:"menu_id"`
	TargetServings int             `json:"target_servings"`
	ExcludePantry  bool            `json:"exclude_pantry"`
	Items          []shopping.Item `json:"items"`
}

// Handler 週菜單處理器
type Handler struct {
	planner    *planner.Planner
	aggregator *shopping.Aggregator
	sessions   menustore.Store
	dayNames   []string

	// 同一份菜單的讀改寫需序列化
	mu sync.Mutex
}

// NewHandler 創建週菜單處理器
func NewHandler(p *planner.Planner, agg *shopping.Aggregator, sessions menustore.Store, dayNames []string) *Handler {
	return &Handler{
		planner:    p,
		aggregator: agg,
		sessions:   sessions,
		dayNames:   dayNames,
	}
}

// Generate 產生新的週菜單
func (h *Handler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	menu, diag, err := h.planner.GenerateWeekMenu(ctx)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	now := time.Now().UTC()
	session := &menustore.Session{
		ID:          common.GenerateUUID(),
		Menu:        menu,
		Diagnostics: diag,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.sessions.Save(ctx, session); err != nil {
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("週菜單已產生",
		zap.String("menu_id", session.ID),
		zap.Int("vegetables", diag.VegetableCount),
	)
	c.JSON(http.StatusCreated, h.view(session))
}

// Get 取得週菜單
func (h *Handler) Get(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(session))
}

// ReplaceDay 重新挑選某一天
func (h *Handler) ReplaceDay(c *gin.Context) {
	day, ok := parseDay(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := c.Request.Context()
	session, err := h.sessions.Get(ctx, c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	menu, changed, err := h.planner.ReplaceDay(ctx, session.Menu, day)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if changed {
		session.Menu = menu
		session.UpdatedAt = time.Now().UTC()
		if err := h.sessions.Save(ctx, session); err != nil {
			handlers.RespondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, ReplaceResponse{Menu: h.view(session), Changed: changed})
}

// ClearDay 清空某一天
func (h *Handler) ClearDay(c *gin.Context) {
	day, ok := parseDay(c)
	if !ok {
		return
	}
	if day < 0 || day >= planner.Days {
		handlers.RespondError(c, common.ErrInvalidDay)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := c.Request.Context()
	session, err := h.sessions.Get(ctx, c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	session.Menu[day] = nil
	session.UpdatedAt = time.Now().UTC()
	if err := h.sessions.Save(ctx, session); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(session))
}

// ShoppingList 產生購物清單；exclude_pantry 預設為 true
func (h *Handler) ShoppingList(c *gin.Context) {
	exclude := true
	if raw := c.Query("exclude_pantry"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.BadRequest(c, "exclude_pantry must be a boolean")
			return
		}
		exclude = v
	}

	ctx := c.Request.Context()
	session, err := h.sessions.Get(ctx, c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	list, err := h.aggregator.Build(ctx, session.Menu, exclude)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	items := list.Items()
	for i := range items {
		items[i].Quantity = math.Round(items[i].Quantity*100) / 100
	}

	c.JSON(http.StatusOK, ShoppingListResponse{
		MenuID:         session.ID,
		TargetServings: h.planner.Options().TargetServings,
		ExcludePantry:  exclude,
		Items:          items,
	})
}

func (h *Handler) view(s *menustore.Session) MenuResponse {
	days := make([]DayView, planner.Days)
	for i := range days {
		days[i] = DayView{Day: i, Recipe: s.Menu[i]}
		if i < len(h.dayNames) {
			days[i].Name = h.dayNames[i]
		}
	}
	return MenuResponse{
		ID:          s.ID,
		Days:        days,
		Complete:    s.Menu.Filled(),
		Diagnostics: s.Diagnostics,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func parseDay(c *gin.Context) (int, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		handlers.BadRequest(c, "day must be an integer between 0 and 6")
		return 0, false
	}
	return day, true
}

package recipe

import (
	"context"
	"fmt"
	"math"
	"sort"

	"menu-planner/internal/core/normalize"
	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 食譜與常備食材服務
type Service struct {
	store         Store
	pantry        PantryStore
	defaultPantry []string
}

// NewService 創建新的食譜服務；defaultPantry 為重設常備清單時使用的內容
func NewService(store Store, pantry PantryStore, defaultPantry []string) *Service {
	return &Service{
		store:         store,
		pantry:        pantry,
		defaultPantry: defaultPantry,
	}
}

// Recipe 取得完整食譜，target > 0 時將數值份量換算為 target 人份
func (s *Service) Recipe(ctx context.Context, id int64, target int) (*common.Recipe, error) {
	r, err := s.store.FullRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	fallback := target
	if fallback < 1 {
		fallback = 1
	}
	r.Servings = normalize.ParseServings(r.RawServings, fallback)
	if target < 1 || target == r.Servings {
		return r, nil
	}

	scale := float64(target) / float64(r.Servings)
	for i, ing := range r.Ingredients {
		if ing.Quantity.Kind == common.QuantityMissing {
			continue
		}
		q := normalize.ParseQuantity(ing.Quantity) * scale
		r.Ingredients[i].Quantity = common.NumericQuantity(math.Round(q*100) / 100)
	}

	common.LogDebug("食譜份量已換算",
		zap.Int64("recipe_id", id),
		zap.Int("servings", r.Servings),
		zap.Int("target", target),
	)
	r.Servings = target
	return r, nil
}

// IngredientNames 所有已知食材名稱
func (s *Service) IngredientNames(ctx context.Context) ([]string, error) {
	return s.store.IngredientNames(ctx)
}

// Pantry 目前的常備食材，依名稱排序
func (s *Service) Pantry(ctx context.Context) ([]string, error) {
	set, err := s.pantry.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading pantry: %w", err)
	}
	return sortedKeys(set), nil
}

// UpdatePantry 以 items 取代常備食材清單，名稱會正規化並去重
func (s *Service) UpdatePantry(ctx context.Context, items []string) ([]string, error) {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		name := normalize.Name(item)
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	list := sortedKeys(set)

	if err := s.pantry.Save(ctx, list); err != nil {
		return nil, fmt.Errorf("saving pantry: %w", err)
	}
	common.LogInfo("常備食材已更新", zap.Int("count", len(list)))
	return list, nil
}

// ResetPantry 恢復預設常備食材
func (s *Service) ResetPantry(ctx context.Context) ([]string, error) {
	return s.UpdatePantry(ctx, s.defaultPantry)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

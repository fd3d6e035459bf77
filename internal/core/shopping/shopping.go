// Package shopping 將完整的週菜單換算成購物清單
package shopping

import (
	"context"
	"fmt"
	"sort"

	"menu-planner/internal/core/normalize"
	"menu-planner/internal/core/planner"
	"menu-planner/internal/core/recipe"
	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// List 食材 → 單位 → 累計份量
type List map[string]map[string]float64

// Item 購物清單的一列
type Item struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
}

// Items 依名稱、單位排序攤平
func (l List) Items() []Item {
	items := make([]Item, 0, len(l))
	for name, units := range l {
		for unit, qty := range units {
			items = append(items, Item{Name: name, Unit: unit, Quantity: qty})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Unit < items[j].Unit
	})
	return items
}

func (l List) add(name, unit string, qty float64) {
	units, ok := l[name]
	if !ok {
		units = make(map[string]float64)
		l[name] = units
	}
	units[unit] += qty
}

// Aggregator 購物清單產生器
type Aggregator struct {
	store          recipe.Store
	pantry         recipe.PantryStore
	targetServings int
	defaultUnit    string
}

// NewAggregator 創建購物清單產生器
func NewAggregator(store recipe.Store, pantry recipe.PantryStore, targetServings int, defaultUnit string) *Aggregator {
	if targetServings < 1 {
		targetServings = 1
	}
	return &Aggregator{
		store:          store,
		pantry:         pantry,
		targetServings: targetServings,
		defaultUnit:    defaultUnit,
	}
}

// Build 依 targetServings 換算每道食譜並加總。菜單有空白日時回傳 ErrIncompleteMenu。
func (a *Aggregator) Build(ctx context.Context, menu planner.Menu, excludePantry bool) (List, error) {
	if !menu.Filled() {
		return nil, common.ErrIncompleteMenu
	}

	var pantry map[string]struct{}
	if excludePantry && a.pantry != nil {
		var err error
		pantry, err = a.pantry.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading pantry: %w", err)
		}
	}

	scale := make(map[int64]float64, len(menu))
	ids := make([]int64, 0, len(menu))
	for _, r := range menu {
		servings := r.Servings
		if servings < 1 {
			servings = normalize.ParseServings(r.RawServings, a.targetServings)
		}
		if _, dup := scale[r.ID]; !dup {
			ids = append(ids, r.ID)
		}
		scale[r.ID] = float64(a.targetServings) / float64(servings)
	}

	rows, err := a.store.IngredientsForRecipes(ctx, ids)
	if err != nil {
		return nil, err
	}

	list := make(List)
	skipped := 0
	for _, row := range rows {
		name := normalize.Name(row.Name)
		if _, inPantry := pantry[name]; inPantry {
			skipped++
			continue
		}
		unit := normalize.Unit(row.Unit, a.defaultUnit)
		list.add(name, unit, normalize.ParseQuantity(row.Quantity)*scale[row.RecipeID])
	}

	common.LogDebug("購物清單已產生",
		zap.Int("items", len(list)),
		zap.Int("pantry_skipped", skipped),
	)
	return list, nil
}

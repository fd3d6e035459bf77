package scoring

import (
	"menu-planner/internal/core/normalize"
	"menu-planner/internal/pkg/common"
)

// IngredientMap 正規化名稱到份量的對應，保留第一次出現的順序。
// 模糊比對依此順序進行，因此順序是評分結果的一部分。
type IngredientMap struct {
	names []string
	qty   map[string]float64
}

// NewIngredientMap 創建空的食材對應
func NewIngredientMap() *IngredientMap {
	return &IngredientMap{qty: make(map[string]float64)}
}

// IngredientMapFrom 由原始食材列建立對應；同名食材以後出現者的份量為準，位置維持第一次出現處
func IngredientMapFrom(ingredients []common.Ingredient) *IngredientMap {
	m := NewIngredientMap()
	for _, ing := range ingredients {
		m.Set(normalize.Name(ing.Name), normalize.ParseQuantity(ing.Quantity))
	}
	return m
}

// Set 設定份量
func (m *IngredientMap) Set(name string, quantity float64) {
	if _, ok := m.qty[name]; !ok {
		m.names = append(m.names, name)
	}
	m.qty[name] = quantity
}

// Names 依插入順序回傳名稱（呼叫端不得修改）
func (m *IngredientMap) Names() []string {
	if m == nil {
		return nil
	}
	return m.names
}

// Quantity 取得份量
func (m *IngredientMap) Quantity(name string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	q, ok := m.qty[name]
	return q, ok
}

// Has 是否含有該名稱
func (m *IngredientMap) Has(name string) bool {
	_, ok := m.Quantity(name)
	return ok
}

// Len 食材數量
func (m *IngredientMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// PerServing 每人份量（份量除以 servings，servings 小於 1 時視為 1）
func (m *IngredientMap) PerServing(servings int) *IngredientMap {
	if servings < 1 {
		servings = 1
	}
	out := NewIngredientMap()
	for _, name := range m.Names() {
		out.Set(name, m.qty[name]/float64(servings))
	}
	return out
}

// without 排除 skip 中的名稱，保留原順序
func (m *IngredientMap) without(skip map[string]struct{}) *IngredientMap {
	out := NewIngredientMap()
	for _, name := range m.Names() {
		if _, ok := skip[name]; ok {
			continue
		}
		out.Set(name, m.qty[name])
	}
	return out
}

// Package memory 以記憶體保存食譜，供測試與示範資料使用
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"menu-planner/internal/pkg/common"
)

// Store 記憶體食譜庫
type Store struct {
	mu           sync.RWMutex
	recipes      map[int64]*common.Recipe
	fingerprints map[string]int64
	nextID       int64
	fingerprint  func(*common.Recipe) string
}

// New 創建記憶體食譜庫；fingerprint 為 nil 時不做去重
func New(fingerprint func(*common.Recipe) string) *Store {
	return &Store{
		recipes:      make(map[int64]*common.Recipe),
		fingerprints: make(map[string]int64),
		nextID:       1,
		fingerprint:  fingerprint,
	}
}

// Add 直接加入食譜並回傳 id（測試用）
func (s *Store) Add(r common.Recipe) int64 {
	id, _, _ := s.InsertRecipe(context.Background(), &r)
	return id
}

// InsertRecipe 新增食譜
func (s *Store) InsertRecipe(_ context.Context, r *common.Recipe) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fp string
	if s.fingerprint != nil {
		fp = s.fingerprint(r)
		if _, dup := s.fingerprints[fp]; dup {
			return 0, false, nil
		}
	}

	id := s.nextID
	s.nextID++
	stored := cloneRecipe(r)
	stored.ID = id
	s.recipes[id] = stored
	if fp != "" {
		s.fingerprints[fp] = id
	}
	return id, true, nil
}

// AddTag 為食譜加上標籤
func (s *Store) AddTag(_ context.Context, recipeID int64, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[recipeID]
	if !ok {
		return common.ErrRecipeNotFound
	}
	for _, t := range r.Tags {
		if t == tag {
			return nil
		}
	}
	r.Tags = append(r.Tags, tag)
	return nil
}

// ListAll 依 id 排序的食譜摘要
func (s *Store) ListAll(_ context.Context) ([]common.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.RecipeSummary, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, common.RecipeSummary{ID: r.ID, Title: r.Title, RawServings: r.RawServings})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// IngredientsFor 單一食譜的食材
func (s *Store) IngredientsFor(_ context.Context, id int64) ([]common.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, nil
	}
	return append([]common.Ingredient(nil), r.Ingredients...), nil
}

// IngredientsForRecipes 多份食譜的食材，重複 id 只回傳一次
func (s *Store) IngredientsForRecipes(_ context.Context, ids []int64) ([]common.IngredientRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]struct{}, len(ids))
	var rows []common.IngredientRow
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		r, ok := s.recipes[id]
		if !ok {
			continue
		}
		for _, ing := range r.Ingredients {
			rows = append(rows, common.IngredientRow{RecipeID: id, Ingredient: ing})
		}
	}
	return rows, nil
}

// FullRecipe 完整食譜的副本
func (s *Store) FullRecipe(_ context.Context, id int64) (*common.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, common.ErrRecipeNotFound
	}
	return cloneRecipe(r), nil
}

// IngredientNames 正規化（小寫去空白）後去重排序的食材名稱
func (s *Store) IngredientNames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, r := range s.recipes {
		for _, ing := range r.Ingredients {
			if name := strings.ToLower(strings.TrimSpace(ing.Name)); name != "" {
				set[name] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// Ping 永遠可用
func (s *Store) Ping(context.Context) error { return nil }

func cloneRecipe(r *common.Recipe) *common.Recipe {
	c := *r
	c.Ingredients = append([]common.Ingredient(nil), r.Ingredients...)
	c.Steps = append([]string(nil), r.Steps...)
	c.Tags = append([]string(nil), r.Tags...)
	return &c
}

package recipe

import (
	"context"

	"menu-planner/internal/pkg/common"
)

// Store 食譜資料來源。規劃流程只讀取，寫入由匯入流程負責。
type Store interface {
	// ListAll 所有食譜摘要，依 id 排序
	ListAll(ctx context.Context) ([]common.RecipeSummary, error)
	// IngredientsFor 單一食譜的食材列
	IngredientsFor(ctx context.Context, id int64) ([]common.Ingredient, error)
	// IngredientsForRecipes 一次取回多份食譜的食材列
	IngredientsForRecipes(ctx context.Context, ids []int64) ([]common.IngredientRow, error)
	// FullRecipe 完整食譜（含步驟與標籤）
	FullRecipe(ctx context.Context, id int64) (*common.Recipe, error)
	// IngredientNames 所有出現過的食材名稱，正規化後去重排序
	IngredientNames(ctx context.Context) ([]string, error)
}

// Writer 食譜寫入端
type Writer interface {
	// InsertRecipe 新增食譜；內容指紋重複時回傳 inserted=false
	InsertRecipe(ctx context.Context, r *common.Recipe) (id int64, inserted bool, err error)
	AddTag(ctx context.Context, recipeID int64, tag string) error
}

// PantryStore 常備食材清單的持久化
type PantryStore interface {
	Load(ctx context.Context) (map[string]struct{}, error)
	Save(ctx context.Context, items []string) error
}

package planner

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"menu-planner/internal/core/normalize"
	"menu-planner/internal/core/recipe"
	"menu-planner/internal/core/scoring"
	"menu-planner/internal/pkg/common"
)

// Days 一週的天數
const Days = 7

// Menu 一週菜單，nil 表示該日為空
type Menu [Days]*common.RecipeSummary

// Filled 是否每一天都有食譜
func (m Menu) Filled() bool {
	for _, r := range m {
		if r == nil {
			return false
		}
	}
	return true
}

// Rand 隨機來源，測試時可注入固定序列
type Rand interface {
	IntN(n int) int
}

// Options 規劃參數
type Options struct {
	TargetServings  int     // 解析不到人數時的預設值
	TopCandidates   int     // 選菜時檢查標題的候選數
	TitleThreshold  float64 // 標題相似門檻
	ReplacePool     int     // 換菜時隨機挑選的範圍
	VegetableTarget int     // 蔬菜多樣性目標（僅供參考）
}

// DefaultOptions 預設規劃參數
func DefaultOptions() Options {
	return Options{
		TargetServings:  4,
		TopCandidates:   10,
		TitleThreshold:  normalize.DefaultTitleThreshold,
		ReplacePool:     5,
		VegetableTarget: 15,
	}
}

// Planner 週菜單規劃器
type Planner struct {
	store  recipe.Store
	scorer *scoring.Scorer
	titles *normalize.TitleMatcher
	rng    Rand
	opts   Options
}

// New 創建規劃器；rng 為 nil 時使用以時間為種子的亂數
func New(store recipe.Store, tables scoring.Tables, opts Options, rng Rand) *Planner {
	if rng == nil {
		rng = NewSeededRand(uint64(time.Now().UnixNano()))
	}
	if opts.TargetServings < 1 {
		opts.TargetServings = DefaultOptions().TargetServings
	}
	if opts.TopCandidates < 1 {
		opts.TopCandidates = DefaultOptions().TopCandidates
	}
	if opts.ReplacePool < 1 {
		opts.ReplacePool = DefaultOptions().ReplacePool
	}
	if opts.TitleThreshold <= 0 {
		opts.TitleThreshold = DefaultOptions().TitleThreshold
	}
	return &Planner{
		store:  store,
		scorer: scoring.NewScorer(tables),
		titles: normalize.NewTitleMatcher(tables.StopWords),
		rng:    rng,
		opts:   opts,
	}
}

// Options 目前的規劃參數
func (p *Planner) Options() Options {
	return p.opts
}

// NewSeededRand 以固定種子建立可並行使用的亂數來源
func NewSeededRand(seed uint64) Rand {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed>>32))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// candidate 一份食譜與其食材對應
type candidate struct {
	summary common.RecipeSummary
	raw     *scoring.IngredientMap
}

// loadCandidates 讀取全部食譜並一次取回所有食材
func (p *Planner) loadCandidates(ctx context.Context) ([]candidate, error) {
	recipes, err := p.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	rows, err := p.store.IngredientsForRecipes(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRecipe := make(map[int64][]common.Ingredient, len(recipes))
	for _, row := range rows {
		byRecipe[row.RecipeID] = append(byRecipe[row.RecipeID], row.Ingredient)
	}

	out := make([]candidate, len(recipes))
	for i, r := range recipes {
		r.Servings = normalize.ParseServings(r.RawServings, p.opts.TargetServings)
		out[i] = candidate{
			summary: r,
			raw:     scoring.IngredientMapFrom(byRecipe[r.ID]),
		}
	}
	return out, nil
}

// perServing 每人份量的食材對應
func (c candidate) perServing(fallback int) *scoring.IngredientMap {
	return c.raw.PerServing(normalize.EffectiveServings(c.summary.Servings, fallback))
}

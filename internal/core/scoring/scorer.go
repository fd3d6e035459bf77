package scoring

import "strings"

// Params 評分常數
type Params struct {
	ComplexThreshold  int     // 兩者皆大於此值視為「複雜」
	SimpleThreshold   int     // 兩者皆小於此值視為「簡單」
	ComplexityGap     int     // 複雜度差距小於此值才扣分
	ComplexityPenalty float64 //
	SharedFactor      float64 // 完全相同食材：SharedFactor × 權重
	FlavorFactor      float64 // 風味食材額外加分
	FuzzyFactor       float64 // 模糊配對：FuzzyFactor × 相似度 × 權重
	FuzzyThreshold    float64
	CarbPenalty       float64 // 每份含主食關鍵字的食譜
	MethodPenalty     float64 // 相同烹調方式
	LowVegThreshold   float64
	LowVegPenalty     float64
}

// DefaultParams 預設評分常數
func DefaultParams() Params {
	return Params{
		ComplexThreshold:  12,
		SimpleThreshold:   6,
		ComplexityGap:     3,
		ComplexityPenalty: 5,
		SharedFactor:      2,
		FlavorFactor:      3,
		FuzzyFactor:       1.5,
		FuzzyThreshold:    DefaultFuzzyThreshold,
		CarbPenalty:       1,
		MethodPenalty:     8,
		LowVegThreshold:   0.25,
		LowVegPenalty:     6,
	}
}

// Breakdown 各項目的分數
type Breakdown struct {
	Complexity float64 `json:"complexity"`
	Shared     float64 `json:"shared"`
	Fuzzy      float64 `json:"fuzzy"`
	Carb       float64 `json:"carb"`
	Method     float64 `json:"method"`
	LowVeg     float64 `json:"low_vegetable"`
	Total      float64 `json:"total"`
}

// Scorer 計算兩份食譜的相容分數
type Scorer struct {
	classifier *Classifier
	flavor     map[string]struct{}
	carbs      []string
	params     Params
}

// NewScorer 以表格與預設常數建立評分器
func NewScorer(t Tables) *Scorer {
	return NewScorerWithParams(t, DefaultParams())
}

// NewScorerWithParams 以表格與自訂常數建立評分器
func NewScorerWithParams(t Tables, p Params) *Scorer {
	flavor := make(map[string]struct{}, len(t.FlavorIngredients))
	for _, f := range t.FlavorIngredients {
		flavor[strings.ToLower(f)] = struct{}{}
	}
	carbs := make([]string, len(t.CarbKeywords))
	for i, c := range t.CarbKeywords {
		carbs[i] = strings.ToLower(c)
	}
	return &Scorer{
		classifier: NewClassifier(t),
		flavor:     flavor,
		carbs:      carbs,
		params:     p,
	}
}

// Classifier 回傳評分器使用的分類器
func (s *Scorer) Classifier() *Classifier {
	return s.classifier
}

// Complexity 食譜複雜度：食材數加步驟數
func Complexity(ingredientCount, stepCount int) int {
	return ingredientCount + stepCount
}

// Score 相容分數；標題為空字串時不計烹調方式
func (s *Scorer) Score(a, b *IngredientMap, titleA, titleB string) float64 {
	return s.Explain(a, b, titleA, titleB).Total
}

// Explain 同 Score，並回傳各項目分數。Total 依固定順序累加。
func (s *Scorer) Explain(a, b *IngredientMap, titleA, titleB string) Breakdown {
	var bd Breakdown
	p := s.params
	total := 0.0

	// 複雜度相近
	ca, cb := Complexity(a.Len(), 0), Complexity(b.Len(), 0)
	bothComplex := ca > p.ComplexThreshold && cb > p.ComplexThreshold
	bothSimple := ca < p.SimpleThreshold && cb < p.SimpleThreshold
	if (bothComplex || bothSimple) && absInt(ca-cb) < p.ComplexityGap {
		bd.Complexity = -p.ComplexityPenalty
		total += bd.Complexity
	}

	// 完全相同的食材
	shared := make(map[string]struct{})
	for _, name := range a.Names() {
		if !b.Has(name) {
			continue
		}
		shared[name] = struct{}{}
		w := s.classifier.Weight(name)

		delta := p.SharedFactor * w
		total += delta
		bd.Shared += delta

		qa, _ := a.Quantity(name)
		qb, _ := b.Quantity(name)
		if qa > 0 && qb > 0 {
			delta = quantityRatio(qa, qb) * p.SharedFactor * w
			total += delta
			bd.Shared += delta
		}

		if _, ok := s.flavor[name]; ok {
			delta = p.FlavorFactor * w
			total += delta
			bd.Shared += delta
		}
	}

	// 其餘食材的模糊配對
	restA, restB := a.without(shared), b.without(shared)
	for _, m := range FuzzyMatches(restA, restB, p.FuzzyThreshold) {
		w := max(s.classifier.Weight(m.A), s.classifier.Weight(m.B))
		factor := p.FuzzyFactor * m.Similarity * w

		total += factor
		bd.Fuzzy += factor

		qa, _ := restA.Quantity(m.A)
		qb, _ := restB.Quantity(m.B)
		if qa > 0 && qb > 0 {
			delta := quantityRatio(qa, qb) * factor
			total += delta
			bd.Fuzzy += delta
		}
	}

	// 主食：每份食譜最多扣一次
	for _, m := range []*IngredientMap{a, b} {
		if s.hasCarb(m) {
			bd.Carb -= p.CarbPenalty
			total -= p.CarbPenalty
		}
	}

	// 相同烹調方式
	if titleA != "" && titleB != "" {
		ma, okA := s.classifier.CookingMethod(titleA)
		mb, okB := s.classifier.CookingMethod(titleB)
		if okA && okB && ma == mb {
			bd.Method = -p.MethodPenalty
			total += bd.Method
		}
	}

	// 兩者蔬菜比例皆偏低
	if s.classifier.VegetableRatio(a.Names()) < p.LowVegThreshold &&
		s.classifier.VegetableRatio(b.Names()) < p.LowVegThreshold {
		bd.LowVeg = -p.LowVegPenalty
		total += bd.LowVeg
	}

	bd.Total = total
	return bd
}

func (s *Scorer) hasCarb(m *IngredientMap) bool {
	for _, c := range s.carbs {
		if m.Has(c) {
			return true
		}
	}
	return false
}

func quantityRatio(a, b float64) float64 {
	return min(a, b) / max(a, b)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

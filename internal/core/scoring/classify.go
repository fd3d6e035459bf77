package scoring

import "strings"

// Classifier 依表格判斷食材權重與標題烹調方式
type Classifier struct {
	weights         []WeightRule
	defaultWeight   float64
	vegetableWeight float64
	methods         []MethodRule
}

// NewClassifier 以表格建立分類器（表格內容會被複製）
func NewClassifier(t Tables) *Classifier {
	weights := make([]WeightRule, len(t.Weights))
	for i, r := range t.Weights {
		weights[i] = WeightRule{Keyword: strings.ToLower(r.Keyword), Weight: r.Weight}
	}
	methods := make([]MethodRule, len(t.CookingMethods))
	for i, m := range t.CookingMethods {
		kws := make([]string, len(m.Keywords))
		for j, k := range m.Keywords {
			kws[j] = strings.ToLower(k)
		}
		methods[i] = MethodRule{Name: m.Name, Keywords: kws}
	}
	return &Classifier{
		weights:         weights,
		defaultWeight:   t.DefaultWeight,
		vegetableWeight: t.VegetableWeight,
		methods:         methods,
	}
}

// Weight 食材權重：表格中第一個被名稱包含的關鍵字決定，未命中回傳預設權重
func (c *Classifier) Weight(name string) float64 {
	lower := strings.ToLower(name)
	for _, r := range c.weights {
		if strings.Contains(lower, r.Keyword) {
			return r.Weight
		}
	}
	return c.defaultWeight
}

// IsVegetable 權重恰為蔬菜權重
func (c *Classifier) IsVegetable(name string) bool {
	return c.Weight(name) == c.vegetableWeight
}

// VegetableRatio 蔬菜所占比例，空集合為 0
func (c *Classifier) VegetableRatio(names []string) float64 {
	if len(names) == 0 {
		return 0
	}
	count := 0
	for _, n := range names {
		if c.IsVegetable(n) {
			count++
		}
	}
	return float64(count) / float64(len(names))
}

// CookingMethod 從標題偵測烹調方式，依表格順序第一個命中者為準
func (c *Classifier) CookingMethod(title string) (string, bool) {
	lower := strings.ToLower(title)
	for _, m := range c.methods {
		for _, kw := range m.Keywords {
			if strings.Contains(lower, kw) {
				return m.Name, true
			}
		}
	}
	return "", false
}

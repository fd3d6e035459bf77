package scoring

import "menu-planner/internal/core/normalize"

// DefaultFuzzyThreshold 模糊配對的相似度門檻
const DefaultFuzzyThreshold = 0.85

// FuzzyMatch 兩份食譜之間寫法不同但視為同一食材的配對
type FuzzyMatch struct {
	A          string
	B          string
	Similarity float64
}

// FuzzyMatches 貪婪單趟配對：依 a 的順序，為每個名稱選取 b 中（依 b 的順序）
// 第一個尚未使用且相似度達門檻的名稱。結果與參數順序有關，a→b 不一定等於 b→a。
func FuzzyMatches(a, b *IngredientMap, threshold float64) []FuzzyMatch {
	var matches []FuzzyMatch
	used := make(map[string]struct{})

	for _, nameA := range a.Names() {
		for _, nameB := range b.Names() {
			if _, taken := used[nameB]; taken {
				continue
			}
			sim := normalize.Ratio(nameA, nameB)
			if sim >= threshold {
				matches = append(matches, FuzzyMatch{A: nameA, B: nameB, Similarity: sim})
				used[nameB] = struct{}{}
				break
			}
		}
	}
	return matches
}

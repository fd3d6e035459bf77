package normalize

import (
	"sort"
	"strings"
)

// DefaultTitleThreshold 判定標題過於相似的門檻
const DefaultTitleThreshold = 0.75

// TitleMatcher 依停用詞集合比較食譜標題
type TitleMatcher struct {
	stopWords map[string]struct{}
}

// NewTitleMatcher 創建標題比對器
func NewTitleMatcher(stopWords []string) *TitleMatcher {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &TitleMatcher{stopWords: set}
}

// Normalize 小寫、去除停用詞、依字母排序後以空白連接
func (m *TitleMatcher) Normalize(title string) string {
	words := strings.Fields(strings.ToLower(title))
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := m.stopWords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	sort.Strings(kept)
	return strings.Join(kept, " ")
}

// Similarity 原始（小寫）與正規化形式相似度的最大值
func (m *TitleMatcher) Similarity(a, b string) float64 {
	orig := Ratio(strings.ToLower(a), strings.ToLower(b))
	normalized := Ratio(m.Normalize(a), m.Normalize(b))
	if normalized > orig {
		return normalized
	}
	return orig
}

// IsSimilar 與任一已使用標題的相似度達到門檻即為 true
func (m *TitleMatcher) IsSimilar(title string, used []string, threshold float64) bool {
	for _, u := range used {
		if m.Similarity(title, u) >= threshold {
			return true
		}
	}
	return false
}

package normalize

import (
	"math"
	"strconv"
	"strings"

	"menu-planner/internal/pkg/common"
)

// DefaultQuantity 無法解析或缺漏時使用的份量
const DefaultQuantity = 1.0

// fraction 分數符號與數值，依序比對
type fraction struct {
	glyph string
	value float64
}

var fractions = []fraction{
	{"½", 0.5},
	{"¼", 0.25},
	{"¾", 0.75},
}

// ParseQuantity 將原始份量轉為 float64，永不失敗
func ParseQuantity(q common.Quantity) float64 {
	switch q.Kind {
	case common.QuantityNumeric:
		return q.Number
	case common.QuantityText:
		return ParseQuantityText(q.Text)
	default:
		return DefaultQuantity
	}
}

// ParseQuantityText 解析文字份量：逗號小數、分數符號（可帶整數前綴，如 "1½"）
func ParseQuantityText(raw string) float64 {
	q := strings.ToLower(strings.TrimSpace(raw))

	if v, ok := parseFinite(strings.ReplaceAll(q, ",", ".")); ok {
		return v
	}

	for _, f := range fractions {
		if !strings.Contains(q, f.glyph) {
			continue
		}
		base := strings.TrimSpace(strings.ReplaceAll(q, f.glyph, ""))
		if base == "" {
			return f.value
		}
		whole, ok := parseFinite(base)
		if !ok {
			return f.value
		}
		return whole + f.value
	}

	return DefaultQuantity
}

// parseFinite 只接受有限數值；ParseFloat 會接受 "nan"、"inf"
func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

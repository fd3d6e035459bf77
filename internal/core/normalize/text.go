package normalize

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/unicode/norm"
)

// Name 食材名稱的比對鍵：NFC、小寫、去除前後空白
func Name(s string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFC.String(s)))
}

// Unit 正規化單位，空白時回傳 fallback
func Unit(s, fallback string) string {
	u := Name(s)
	if u == "" {
		return fallback
	}
	return u
}

// Ratio 字元層級的序列相似度（最長匹配區塊），1.0 表示完全相同
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// basisPatterns 「以下食材為 N 人份」的附註，優先於字串中其他數字
var basisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ingrediënt[\p{L}\p{N}_]*\s+hieronder\s+zijn\s+voor\s+([0-9]+)`),
	regexp.MustCompile(`ingredients?\s+below\s+(?:are|is)\s+for\s+([0-9]+)`),
}

var firstNumber = regexp.MustCompile(`[0-9]+`)

// ParseServings 將原始人數欄位轉為 >= 1 的整數。
//
// "1-6 personen (ingrediënten hieronder zijn voor 2 personen)" 回傳 2：
// 附註中的人數優先於前面的範圍。沒有數字或數值小於 1 時回傳 fallback。
func ParseServings(raw string, fallback int) int {
	s := strings.TrimSpace(strings.ToLower(norm.NFC.String(raw)))
	if s == "" {
		return fallback
	}

	for _, re := range basisPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return atLeastOne(m[1], fallback)
		}
	}

	num := firstNumber.FindString(s)
	if num == "" {
		return fallback
	}
	return atLeastOne(num, fallback)
}

func atLeastOne(digits string, fallback int) int {
	v, err := strconv.Atoi(digits)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// EffectiveServings 用於縮放的除數，避免除以零
func EffectiveServings(servings, fallback int) int {
	if servings < 1 {
		return fallback
	}
	return servings
}

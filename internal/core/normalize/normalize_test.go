package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"menu-planner/internal/pkg/common"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name string
		in   common.Quantity
		want float64
	}{
		{"missing", common.MissingQuantity(), 1.0},
		{"numeric", common.NumericQuantity(250), 250},
		{"numeric zero", common.NumericQuantity(0), 0},
		{"plain text", common.TextQuantity("200"), 200},
		{"comma decimal", common.TextQuantity("1,5"), 1.5},
		{"padded comma decimal", common.TextQuantity("  0,25 "), 0.25},
		{"half", common.TextQuantity("½"), 0.5},
		{"quarter", common.TextQuantity("¼"), 0.25},
		{"three quarters", common.TextQuantity("¾"), 0.75},
		{"whole and half", common.TextQuantity("1½"), 1.5},
		{"whole space quarter", common.TextQuantity("2 ¼"), 2.25},
		{"garbage with glyph", common.TextQuantity("ca ½"), 0.5},
		{"garbage", common.TextQuantity("naar smaak"), 1.0},
		{"empty", common.TextQuantity(""), 1.0},
		{"not a number", common.TextQuantity("nan"), 1.0},
		{"infinity", common.TextQuantity("inf"), 1.0},
		{"spelled infinity", common.TextQuantity("Infinity"), 1.0},
		{"negative infinity", common.TextQuantity("-inf"), 1.0},
		{"infinity with glyph", common.TextQuantity("inf½"), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseQuantity(tt.in), 1e-9)
		})
	}
}

func TestParseServings(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback int
		want     int
	}{
		{"empty uses fallback", "", 4, 4},
		{"whitespace uses fallback", "   ", 3, 3},
		{"plain number", "3", 4, 3},
		{"english people", "2 people", 4, 2},
		{"dutch personen", "2 personen", 4, 2},
		{"range takes first", "1-6 personen", 4, 1},
		{"english basis wins", "1-6 people (ingredients below are for 2 people)", 4, 2},
		{"dutch basis wins", "1-6 personen (ingrediënten hieronder zijn voor 2 personen)", 4, 2},
		{"dutch basis uppercase", "1-6 Personen (Ingrediënten hieronder zijn voor 3 personen)", 4, 3},
		{"zero uses fallback", "0", 4, 4},
		{"basis zero uses fallback", "ingredients below are for 0 people", 5, 5},
		{"no digits", "een paar", 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseServings(tt.raw, tt.fallback))
		})
	}
}

func TestEffectiveServings(t *testing.T) {
	assert.Equal(t, 2, EffectiveServings(2, 4))
	assert.Equal(t, 4, EffectiveServings(0, 4))
	assert.Equal(t, 4, EffectiveServings(-1, 4))
}

func TestNameAndUnit(t *testing.T) {
	assert.Equal(t, "rode ui", Name("  Rode UI "))
	// 組合與分解形式的重音字元視為相同
	assert.Equal(t, Name("cr\u00e8me fra\u00eeche"), Name("cre\u0300me frai\u0302che"))
	assert.Equal(t, "st", Unit("", "st"))
	assert.Equal(t, "g", Unit(" G ", "st"))
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 1.0, Ratio("kipfilet", "kipfilet"))
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))
	// difflib: "abcd" vs "bcde" -> 2*3/8
	assert.InDelta(t, 0.75, Ratio("abcd", "bcde"), 1e-9)
	// multi-byte runes count as one element
	assert.InDelta(t, Ratio("creme", "crema"), Ratio("crème", "crèma"), 1e-9)
}

func TestTitleMatcher(t *testing.T) {
	m := NewTitleMatcher([]string{"met", "en", "van", "de"})

	t.Run("normalize drops stop words and sorts", func(t *testing.T) {
		assert.Equal(t, "kip rijst", m.Normalize("Rijst met Kip"))
		assert.Equal(t, "kip rijst", m.Normalize("kip en de rijst"))
	})

	t.Run("reflexive", func(t *testing.T) {
		for _, title := range []string{"Pasta pesto", "a", "Kip met rijst en broccoli"} {
			assert.Equal(t, 1.0, m.Similarity(title, title))
		}
	})

	t.Run("reordered phrasing clusters", func(t *testing.T) {
		assert.Equal(t, 1.0, m.Similarity("Rijst met kip", "Kip en rijst"))
		assert.True(t, m.IsSimilar("Rijst met kip", []string{"Soep", "Kip en rijst"}, DefaultTitleThreshold))
	})

	t.Run("unrelated titles", func(t *testing.T) {
		assert.False(t, m.IsSimilar("Zalm uit de oven", []string{"Tomatensoep", "Spaghetti bolognese"}, DefaultTitleThreshold))
		assert.False(t, m.IsSimilar("Zalm", nil, DefaultTitleThreshold))
	})
}

package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-planner/internal/pkg/common"
)

func mapOf(pairs ...any) *IngredientMap {
	m := NewIngredientMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(float64))
	}
	return m
}

func TestClassifierWeight(t *testing.T) {
	c := NewClassifier(DutchTables())

	tests := []struct {
		name string
		want float64
	}{
		{"kipfilet", 5.0},
		{"tomaat", 3.0},
		{"zout", 0.5},
		{"rijst", 1.0},
		// "ei" 排在 "prei" 之前
		{"prei", 5.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Weight(tt.name))
		})
	}

	en := NewClassifier(EnglishTables())
	assert.Equal(t, 3.0, en.Weight("eggplant"))
	assert.Equal(t, 5.0, en.Weight("egg"))
	assert.Equal(t, 3.0, en.Weight("red bell pepper"))
	assert.Equal(t, 0.5, en.Weight("black pepper"))
}

func TestClassifierVegetables(t *testing.T) {
	c := NewClassifier(DutchTables())

	assert.True(t, c.IsVegetable("courgette"))
	assert.False(t, c.IsVegetable("prei"))
	assert.Equal(t, 0.0, c.VegetableRatio(nil))
	assert.Equal(t, 0.5, c.VegetableRatio([]string{"tomaat", "kipfilet"}))
}

func TestClassifierCookingMethod(t *testing.T) {
	c := NewClassifier(DutchTables())

	method, ok := c.CookingMethod("Romige Spaghetti met Spek")
	require.True(t, ok)
	assert.Equal(t, "pasta", method)

	// curry 在表格中排在 pasta 之前
	method, ok = c.CookingMethod("Curry pasta")
	require.True(t, ok)
	assert.Equal(t, "curry", method)

	_, ok = c.CookingMethod("Stamppot boerenkool")
	assert.False(t, ok)
}

func TestFuzzyMatchesIsOrderDependent(t *testing.T) {
	b := mapOf("wortel", 1.0)

	first := FuzzyMatches(mapOf("wortels", 1.0, "wortelen", 1.0), b, DefaultFuzzyThreshold)
	require.Len(t, first, 1)
	assert.Equal(t, "wortels", first[0].A)
	assert.InDelta(t, 12.0/13.0, first[0].Similarity, 1e-9)

	second := FuzzyMatches(mapOf("wortelen", 1.0, "wortels", 1.0), b, DefaultFuzzyThreshold)
	require.Len(t, second, 1)
	assert.Equal(t, "wortelen", second[0].A)
	assert.InDelta(t, 12.0/14.0, second[0].Similarity, 1e-9)
}

func TestFuzzyMatchesUsesEachNameOnce(t *testing.T) {
	matches := FuzzyMatches(
		mapOf("aardappels", 1.0, "aardappelen", 1.0),
		mapOf("aardappel", 1.0),
		DefaultFuzzyThreshold,
	)
	require.Len(t, matches, 1)
	assert.Equal(t, "aardappels", matches[0].A)
}

func TestScoreSharedIngredient(t *testing.T) {
	s := NewScorer(DutchTables())

	bd := s.Explain(mapOf("tomaat", 2.0), mapOf("tomaat", 4.0), "", "")

	// 兩者皆為簡單食譜
	assert.Equal(t, -5.0, bd.Complexity)
	// 2×3 + (2/4)×2×3
	assert.InDelta(t, 9.0, bd.Shared, 1e-9)
	assert.Zero(t, bd.LowVeg)
	assert.InDelta(t, 4.0, bd.Total, 1e-9)
}

func TestScoreFlavorIngredient(t *testing.T) {
	s := NewScorer(DutchTables())

	bd := s.Explain(mapOf("citroen", 1.0), mapOf("citroen", 1.0), "", "")

	assert.InDelta(t, 7.0, bd.Shared, 1e-9)
	assert.Equal(t, -6.0, bd.LowVeg)
	assert.InDelta(t, -4.0, bd.Total, 1e-9)
}

func TestScoreZeroQuantitySkipsRatio(t *testing.T) {
	s := NewScorer(DutchTables())

	bd := s.Explain(mapOf("tomaat", 0.0), mapOf("tomaat", 4.0), "", "")
	assert.InDelta(t, 6.0, bd.Shared, 1e-9)
}

func TestScoreFuzzyIngredient(t *testing.T) {
	s := NewScorer(DutchTables())

	bd := s.Explain(mapOf("wortels", 1.0), mapOf("wortel", 1.0), "", "")

	factor := 1.5 * (12.0 / 13.0) * 3.0
	assert.InDelta(t, 2*factor, bd.Fuzzy, 1e-9)
	assert.Zero(t, bd.Shared)
}

func TestScoreCarbPenaltyIsCappedPerRecipe(t *testing.T) {
	s := NewScorer(DutchTables())

	bd := s.Explain(mapOf("pasta", 1.0, "spaghetti", 1.0), mapOf("rijst", 1.0), "", "")
	assert.Equal(t, -1.0, bd.Carb)

	bd = s.Explain(mapOf("pasta", 1.0), mapOf("tagliatelle", 1.0), "", "")
	assert.Equal(t, -2.0, bd.Carb)

	// 只比對完整名稱
	bd = s.Explain(mapOf("volkoren pasta", 1.0), mapOf("rijst", 1.0), "", "")
	assert.Zero(t, bd.Carb)
}

func TestScoreSameCookingMethod(t *testing.T) {
	s := NewScorer(DutchTables())
	a := mapOf("kipfilet", 300.0, "paprika", 1.0, "ui", 1.0)
	b := mapOf("gehakt", 500.0, "courgette", 1.0, "ui", 1.0)

	without := s.Score(a, b, "", "")
	with := s.Score(a, b, "Pasta pesto met kip", "Spaghetti bolognese")

	assert.InDelta(t, 8.0, without-with, 1e-9)
	assert.Equal(t, -8.0, s.Explain(a, b, "Pasta pesto met kip", "Spaghetti bolognese").Method)

	// 只有一邊有標題時不扣分
	assert.Zero(t, s.Explain(a, b, "Pasta pesto met kip", "").Method)
}

func TestScoreComplexity(t *testing.T) {
	s := NewScorer(DutchTables())

	big := func(n int, prefix string) *IngredientMap {
		m := NewIngredientMap()
		for i := range n {
			m.Set(prefix+string(rune('a'+i)), 1.0)
		}
		return m
	}

	assert.Equal(t, -5.0, s.Explain(big(13, "x"), big(14, "y"), "", "").Complexity)
	assert.Zero(t, s.Explain(big(13, "x"), big(16, "y"), "", "").Complexity)
	assert.Zero(t, s.Explain(big(8, "x"), big(8, "y"), "", "").Complexity)
	assert.Equal(t, 3, Complexity(2, 1))
}

func TestScoreWithParams(t *testing.T) {
	p := DefaultParams()
	p.MethodPenalty = 20
	s := NewScorerWithParams(DutchTables(), p)

	bd := s.Explain(mapOf("ui", 1.0), mapOf("tomaat", 1.0), "Tomatensoep", "Uiensoep")
	assert.Equal(t, -20.0, bd.Method)
}

func TestIngredientMapFrom(t *testing.T) {
	m := IngredientMapFrom([]common.Ingredient{
		{Name: " Tomaat ", Quantity: common.TextQuantity("2,5")},
		{Name: "UI", Quantity: common.MissingQuantity()},
		{Name: "tomaat", Quantity: common.NumericQuantity(3)},
	})

	assert.Equal(t, []string{"tomaat", "ui"}, m.Names())
	q, ok := m.Quantity("tomaat")
	require.True(t, ok)
	assert.Equal(t, 3.0, q)
	q, _ = m.Quantity("ui")
	assert.Equal(t, 1.0, q)

	per := m.PerServing(0)
	q, _ = per.Quantity("tomaat")
	assert.Equal(t, 3.0, q)

	per = m.PerServing(2)
	q, _ = per.Quantity("tomaat")
	assert.Equal(t, 1.5, q)
}

func TestTablesFor(t *testing.T) {
	nl, err := TablesFor("")
	require.NoError(t, err)
	assert.Equal(t, "nl", nl.Locale)
	require.NoError(t, nl.Validate())

	en, err := TablesFor("EN")
	require.NoError(t, err)
	assert.Equal(t, "piece", en.DefaultUnit)
	require.NoError(t, en.Validate())

	_, err = TablesFor("fr")
	assert.Error(t, err)
}

func TestLoadTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	content := `locale: en
default_unit: pc
flavor_ingredients: [basil]
weights:
  - keyword: tofu
    weight: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tables, err := LoadTables(path, "nl")
	require.NoError(t, err)

	assert.Equal(t, "pc", tables.DefaultUnit)
	assert.Equal(t, []string{"basil"}, tables.FlavorIngredients)
	assert.Equal(t, EnglishTables().DayNames, tables.DayNames)

	c := NewClassifier(tables)
	assert.Equal(t, 5.0, c.Weight("silken tofu"))
	assert.Equal(t, 1.0, c.Weight("chicken"))
}

func TestLoadTablesUsesFallbackLocale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flavor_ingredients: [basil]\n"), 0o644))

	tables, err := LoadTables(path, "en")
	require.NoError(t, err)

	en := EnglishTables()
	assert.Equal(t, "en", tables.Locale)
	assert.Equal(t, en.DefaultUnit, tables.DefaultUnit)
	assert.Equal(t, en.DayNames, tables.DayNames)
	assert.Equal(t, en.StopWords, tables.StopWords)
	assert.Equal(t, en.DefaultPantry, tables.DefaultPantry)
	assert.Equal(t, []string{"basil"}, tables.FlavorIngredients)

	// 檔案內的 locale 優先
	require.NoError(t, os.WriteFile(path, []byte("locale: nl\n"), 0o644))
	tables, err = LoadTables(path, "en")
	require.NoError(t, err)
	assert.Equal(t, "st", tables.DefaultUnit)

	_, err = LoadTables(path+".missing", "en")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("default_unit: pc\n"), 0o644))
	_, err = LoadTables(path, "fr")
	assert.Error(t, err)
}

func TestLoadTablesRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("day_names: [ma, di]\n"), 0o644))

	_, err := LoadTables(path, "nl")
	assert.Error(t, err)

	_, err = LoadTables(filepath.Join(t.TempDir(), "missing.yaml"), "nl")
	assert.Error(t, err)
}

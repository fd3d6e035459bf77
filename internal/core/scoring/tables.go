package scoring

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WeightRule 食材關鍵字與權重。比對採子字串包含，依表格順序第一個命中者為準。
type WeightRule struct {
	Keyword string  `yaml:"keyword"`
	Weight  float64 `yaml:"weight"`
}

// MethodRule 烹調方式與其標題關鍵字
type MethodRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Tables 語系相關的分類與關鍵字表。建構後視為唯讀。
type Tables struct {
	Locale            string       `yaml:"locale"`
	Weights           []WeightRule `yaml:"weights"`
	DefaultWeight     float64      `yaml:"default_weight"`
	VegetableWeight   float64      `yaml:"vegetable_weight"`
	CookingMethods    []MethodRule `yaml:"cooking_methods"`
	FlavorIngredients []string     `yaml:"flavor_ingredients"`
	CarbKeywords      []string     `yaml:"carb_keywords"`
	StopWords         []string     `yaml:"stop_words"`
	DefaultUnit       string       `yaml:"default_unit"`
	DayNames          []string     `yaml:"day_names"`
	DefaultPantry     []string     `yaml:"default_pantry"`
}

const (
	proteinWeight   = 5.0
	vegetableWeight = 3.0
	stapleWeight    = 0.5
)

func rules(weight float64, keywords ...string) []WeightRule {
	out := make([]WeightRule, len(keywords))
	for i, k := range keywords {
		out[i] = WeightRule{Keyword: k, Weight: weight}
	}
	return out
}

func concat(groups ...[]WeightRule) []WeightRule {
	var out []WeightRule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// DutchTables 荷蘭文表格（預設語系，與食譜資料庫一致）。
// 注意 "ei" 排在蔬菜之前，因此 "prei" 會被歸為蛋白質。
func DutchTables() Tables {
	return Tables{
		Locale: "nl",
		Weights: concat(
			rules(proteinWeight,
				"kip", "kipfilet", "kippendij", "kippenbouten",
				"rund", "rundvlees", "rundergehakt", "biefstuk",
				"varken", "varkenshaas", "spek", "bacon",
				"vis", "zalm", "tonijn", "kabeljauw",
				"garnalen", "garnaal", "ei", "eieren"),
			rules(vegetableWeight,
				"tomaat", "tomaten", "ui", "uien",
				"paprika", "courgette", "aubergine",
				"wortel", "wortelen", "broccoli", "bloemkool",
				"prei", "champignons", "champignon",
				"spinazie", "sla", "kool"),
			rules(stapleWeight,
				"zout", "peper", "zwarte peper",
				"olijfolie", "olie", "boter", "water",
				"knoflook", "knoflookteen"),
		),
		DefaultWeight:   1.0,
		VegetableWeight: vegetableWeight,
		CookingMethods: []MethodRule{
			{Name: "curry", Keywords: []string{"curry", "kerrie"}},
			{Name: "pasta", Keywords: []string{"pasta", "spaghetti", "fusilli", "penne", "tagliatelle"}},
			{Name: "stir_fry", Keywords: []string{"wok", "roerbak"}},
			{Name: "oven", Keywords: []string{"oven", "ovenschotel"}},
			{Name: "grill", Keywords: []string{"grill", "bbq", "barbecue"}},
			{Name: "soup", Keywords: []string{"soep"}},
			{Name: "salad", Keywords: []string{"salade"}},
			{Name: "risotto", Keywords: []string{"risotto"}},
			{Name: "burger", Keywords: []string{"burger"}},
		},
		FlavorIngredients: []string{"peterselie", "koriander", "room", "citroen"},
		CarbKeywords:      []string{"pasta", "spaghetti", "fusilli", "tagliatelle"},
		StopWords:         []string{"met", "en", "van", "in", "de", "het", "een", "voor", "op", "aan"},
		DefaultUnit:       "st",
		DayNames:          []string{"Maandag", "Dinsdag", "Woensdag", "Donderdag", "Vrijdag", "Zaterdag", "Zondag"},
		DefaultPantry: []string{
			"peper", "zwarte peper", "peper en zout", "peper & zout",
			"peper en zout (naar smaak)",
			"zout",
			"olijfolie", "extra vierge olijfolie", "olijfolie*",
			"zonnebloemolie", "zonnebloemolie*",
			"boter", "[plantaardige] boter", "plantaardige boter", "roomboter",
			"sesamolie",
			"water",
		},
	}
}

// EnglishTables 英文表格。"eggplant" 必須排在 "egg" 之前，"bell pepper" 排在 "pepper" 之前。
func EnglishTables() Tables {
	return Tables{
		Locale: "en",
		Weights: concat(
			rules(vegetableWeight, "eggplant"),
			rules(proteinWeight,
				"chicken", "beef", "steak", "minced meat",
				"pork", "bacon", "ham",
				"fish", "salmon", "tuna", "cod",
				"shrimp", "prawn", "egg"),
			rules(vegetableWeight,
				"tomato", "onion", "shallot", "bell pepper",
				"zucchini", "courgette", "carrot", "broccoli", "cauliflower",
				"leek", "mushroom", "spinach", "lettuce", "cabbage"),
			rules(stapleWeight,
				"salt", "black pepper", "pepper",
				"olive oil", "oil", "butter", "water",
				"garlic"),
		),
		DefaultWeight:   1.0,
		VegetableWeight: vegetableWeight,
		CookingMethods: []MethodRule{
			{Name: "curry", Keywords: []string{"curry"}},
			{Name: "pasta", Keywords: []string{"pasta", "spaghetti", "fusilli", "penne", "tagliatelle"}},
			{Name: "stir_fry", Keywords: []string{"wok", "stir-fry", "stir fry"}},
			{Name: "oven", Keywords: []string{"oven", "bake", "casserole"}},
			{Name: "grill", Keywords: []string{"grill", "bbq", "barbecue"}},
			{Name: "soup", Keywords: []string{"soup"}},
			{Name: "salad", Keywords: []string{"salad"}},
			{Name: "risotto", Keywords: []string{"risotto"}},
			{Name: "burger", Keywords: []string{"burger"}},
		},
		FlavorIngredients: []string{"parsley", "cilantro", "cream", "lemon"},
		CarbKeywords:      []string{"pasta", "spaghetti", "fusilli", "tagliatelle"},
		StopWords:         []string{"with", "and", "of", "in", "the", "a", "an", "for", "on", "to"},
		DefaultUnit:       "piece",
		DayNames:          []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
		DefaultPantry: []string{
			"salt", "pepper", "black pepper", "salt and pepper",
			"olive oil", "extra virgin olive oil", "sunflower oil",
			"butter", "sesame oil",
			"water",
		},
	}
}

// TablesFor 依語系代碼取得內建表格，空字串視為 nl
func TablesFor(locale string) (Tables, error) {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "", "nl":
		return DutchTables(), nil
	case "en":
		return EnglishTables(), nil
	default:
		return Tables{}, fmt.Errorf("unsupported locale %q", locale)
	}
}

// LoadTables 從 YAML 檔讀取表格，未填寫的欄位沿用 locale 對應的內建表格；
// 檔案沒有 locale 時使用 fallbackLocale
func LoadTables(path, fallbackLocale string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("reading tables file: %w", err)
	}

	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, fmt.Errorf("parsing tables file: %w", err)
	}

	locale := t.Locale
	if strings.TrimSpace(locale) == "" {
		locale = fallbackLocale
	}
	base, err := TablesFor(locale)
	if err != nil {
		return Tables{}, err
	}
	t = t.withDefaults(base)

	if err := t.Validate(); err != nil {
		return Tables{}, err
	}
	return t, nil
}

func (t Tables) withDefaults(base Tables) Tables {
	if t.Locale == "" {
		t.Locale = base.Locale
	}
	if t.Weights == nil {
		t.Weights = base.Weights
	}
	if t.DefaultWeight == 0 {
		t.DefaultWeight = base.DefaultWeight
	}
	if t.VegetableWeight == 0 {
		t.VegetableWeight = base.VegetableWeight
	}
	if t.CookingMethods == nil {
		t.CookingMethods = base.CookingMethods
	}
	if t.FlavorIngredients == nil {
		t.FlavorIngredients = base.FlavorIngredients
	}
	if t.CarbKeywords == nil {
		t.CarbKeywords = base.CarbKeywords
	}
	if t.StopWords == nil {
		t.StopWords = base.StopWords
	}
	if t.DefaultUnit == "" {
		t.DefaultUnit = base.DefaultUnit
	}
	if t.DayNames == nil {
		t.DayNames = base.DayNames
	}
	if t.DefaultPantry == nil {
		t.DefaultPantry = base.DefaultPantry
	}
	return t
}

// Validate 檢查表格完整性
func (t Tables) Validate() error {
	if len(t.DayNames) != 7 {
		return fmt.Errorf("tables %s: expected 7 day names, got %d", t.Locale, len(t.DayNames))
	}
	for i, r := range t.Weights {
		if strings.TrimSpace(r.Keyword) == "" {
			return fmt.Errorf("tables %s: weight rule %d has empty keyword", t.Locale, i)
		}
		if r.Weight <= 0 {
			return fmt.Errorf("tables %s: weight rule %q must be positive", t.Locale, r.Keyword)
		}
	}
	for _, m := range t.CookingMethods {
		if m.Name == "" || len(m.Keywords) == 0 {
			return fmt.Errorf("tables %s: cooking method needs a name and keywords", t.Locale)
		}
	}
	if t.DefaultUnit == "" {
		return fmt.Errorf("tables %s: default unit is required", t.Locale)
	}
	return nil
}

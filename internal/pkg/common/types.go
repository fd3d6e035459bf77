package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// QuantityKind 份量欄位的原始型態
type QuantityKind int

const (
	// QuantityMissing 沒有填寫份量
	QuantityMissing QuantityKind = iota
	// QuantityNumeric 數值
	QuantityNumeric
	// QuantityText 文字（可能含逗號小數或分數符號）
	QuantityText
)

// Quantity 食材份量，保留原始型態，解析交給 normalize.ParseQuantity
type Quantity struct {
	Kind   QuantityKind
	Number float64
	Text   string
}

// MissingQuantity 建立空份量
func MissingQuantity() Quantity { return Quantity{Kind: QuantityMissing} }

// NumericQuantity 建立數值份量
func NumericQuantity(v float64) Quantity { return Quantity{Kind: QuantityNumeric, Number: v} }

// TextQuantity 建立文字份量
func TextQuantity(s string) Quantity { return Quantity{Kind: QuantityText, Text: s} }

// QuantityFromValue 將資料庫掃描出來的值轉為 Quantity
func QuantityFromValue(v any) Quantity {
	switch val := v.(type) {
	case nil:
		return MissingQuantity()
	case int64:
		return NumericQuantity(float64(val))
	case int:
		return NumericQuantity(float64(val))
	case float64:
		return NumericQuantity(val)
	case []byte:
		return TextQuantity(string(val))
	case string:
		return TextQuantity(val)
	default:
		return TextQuantity(fmt.Sprint(val))
	}
}

// Value 回傳寫入資料庫的值（資料表欄位為 TEXT）
func (q Quantity) Value() any {
	switch q.Kind {
	case QuantityNumeric:
		return strconv.FormatFloat(q.Number, 'f', -1, 64)
	case QuantityText:
		return q.Text
	default:
		return nil
	}
}

// String 顯示用
func (q Quantity) String() string {
	switch q.Kind {
	case QuantityNumeric:
		return strconv.FormatFloat(q.Number, 'f', -1, 64)
	case QuantityText:
		return q.Text
	default:
		return ""
	}
}

// MarshalJSON 輸出 null、數字或字串
func (q Quantity) MarshalJSON() ([]byte, error) {
	switch q.Kind {
	case QuantityNumeric:
		return json.Marshal(q.Number)
	case QuantityText:
		return json.Marshal(q.Text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON 接受 null、數字或字串
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = MissingQuantity()
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = TextQuantity(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid quantity %s: %w", string(data), err)
	}
	*q = NumericQuantity(f)
	return nil
}

// Ingredient 食材
type Ingredient struct {
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity"`
	Unit     string   `json:"unit"`
}

// IngredientRow 批次查詢時帶有所屬食譜 ID 的食材
type IngredientRow struct {
	RecipeID int64 `json:"recipe_id"`
	Ingredient
}

// RecipeSummary 食譜摘要（菜單格子內容）
type RecipeSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	RawServings string `json:"raw_servings,omitempty"`
	Servings    int    `json:"servings"` // 解析後的人數，>= 1
}

// Recipe 完整食譜
type Recipe struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Subtitle    string       `json:"subtitle,omitempty"`
	RawServings string       `json:"raw_servings,omitempty"`
	Servings    int          `json:"servings"`
	Source      string       `json:"source,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Tags        []string     `json:"tags,omitempty"`
}

package recipe

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// ImportRecipe 匯入檔中的一筆食譜。servings 可能是數字、字串或 null。
type ImportRecipe struct {
	Title       string              `json:"title"`
	Subtitle    string              `json:"subtitle"`
	Servings    json.RawMessage     `json:"servings"`
	Ingredients []common.Ingredient `json:"ingredients"`
	Steps       []string            `json:"steps"`
	Tags        []string            `json:"tags"`
}

// ImportResult 匯入統計
type ImportResult struct {
	Inserted   int      `json:"inserted"`
	Duplicates int      `json:"duplicates"`
	Skipped    int      `json:"skipped"`
	Titles     []string `json:"titles,omitempty"`
}

// Importer 將 JSON 食譜寫入資料庫（以內容指紋去重）
type Importer struct {
	writer Writer
}

// NewImporter 創建匯入器
func NewImporter(writer Writer) *Importer {
	return &Importer{writer: writer}
}

// ParseImport 解析單一食譜物件或 {"recipes": [...]}
func ParseImport(data []byte) ([]ImportRecipe, error) {
	var probe map[string]json.RawMessage
	if err := common.ParseJSONBytes(data, &probe); err != nil {
		return nil, common.NewValidationError(fmt.Sprintf("invalid recipe JSON: %v", err))
	}

	if raw, ok := probe["recipes"]; ok {
		var list []ImportRecipe
		if err := common.ParseJSONBytes(raw, &list); err != nil {
			return nil, common.NewValidationError(fmt.Sprintf("invalid recipes list: %v", err))
		}
		return list, nil
	}

	var single ImportRecipe
	if err := common.ParseJSONBytes(data, &single); err != nil {
		return nil, common.NewValidationError(fmt.Sprintf("invalid recipe: %v", err))
	}
	return []ImportRecipe{single}, nil
}

// Import 匯入 data 中的食譜；缺少標題、食材或步驟者略過
func (im *Importer) Import(ctx context.Context, data []byte, source string) (*ImportResult, error) {
	items, err := ParseImport(data)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, item := range items {
		if strings.TrimSpace(item.Title) == "" || len(item.Ingredients) == 0 || len(item.Steps) == 0 {
			common.LogWarn("不完整的食譜，略過", zap.String("title", item.Title), zap.String("source", source))
			result.Skipped++
			continue
		}

		r := item.toRecipe(source)
		id, inserted, err := im.writer.InsertRecipe(ctx, r)
		if err != nil {
			return result, fmt.Errorf("inserting %q: %w", item.Title, err)
		}
		if !inserted {
			common.LogInfo("重複食譜，略過", zap.String("title", item.Title))
			result.Duplicates++
			continue
		}

		for _, tag := range item.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if err := im.writer.AddTag(ctx, id, tag); err != nil {
				return result, fmt.Errorf("tagging %q: %w", item.Title, err)
			}
		}

		result.Inserted++
		result.Titles = append(result.Titles, item.Title)
		common.LogInfo("食譜已匯入", zap.Int64("recipe_id", id), zap.String("title", item.Title))
	}
	return result, nil
}

func (item ImportRecipe) toRecipe(source string) *common.Recipe {
	return &common.Recipe{
		Title:       item.Title,
		Subtitle:    item.Subtitle,
		RawServings: rawServings(item.Servings),
		Source:      source,
		Ingredients: item.Ingredients,
		Steps:       item.Steps,
		Tags:        item.Tags,
	}
}

// rawServings 保留原始寫法：字串原樣、數字取其文字表示、null 為空
func rawServings(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Fingerprint 食譜內容指紋：標題、排序後的食材名稱與步驟（皆小寫去空白）的 SHA-1
func Fingerprint(r *common.Recipe) string {
	names := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		names[i] = strings.ToLower(strings.TrimSpace(ing.Name))
	}
	sort.Strings(names)

	steps := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		steps[i] = strings.ToLower(strings.TrimSpace(s))
	}

	raw := strings.ToLower(strings.TrimSpace(r.Title)) + "::" +
		strings.Join(names, "|") + "::" +
		strings.Join(steps, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Package pantry 以 JSON 檔保存常備食材清單
package pantry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"menu-planner/internal/core/normalize"
	"menu-planner/internal/core/recipe"
	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

var _ recipe.PantryStore = (*FileStore)(nil)

// FileStore 常備食材檔（排序後的字串陣列）。
// 檔案不存在或內容損毀時寫入預設清單。
type FileStore struct {
	mu       sync.Mutex
	path     string
	defaults []string
}

// NewFileStore 創建常備食材檔存取器
func NewFileStore(path string, defaults []string) *FileStore {
	return &FileStore{path: path, defaults: defaults}
}

// Path 檔案路徑
func (f *FileStore) Path() string {
	return f.path
}

// Load 讀取常備食材，名稱皆已正規化
func (f *FileStore) Load(_ context.Context) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err == nil {
		var items []string
		if perr := common.ParseJSONBytes(data, &items); perr == nil {
			return toSet(items), nil
		}
		common.LogWarn("常備食材檔損毀，改用預設值", zap.String("path", f.path))
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading pantry file: %w", err)
	}

	if err := f.write(f.defaults); err != nil {
		return nil, err
	}
	return toSet(f.defaults), nil
}

// Save 排序後寫入
func (f *FileStore) Save(_ context.Context, items []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(items)
}

func (f *FileStore) write(items []string) error {
	sorted := append([]string{}, items...)
	sort.Strings(sorted)

	data, err := common.ToIndentedJSON(sorted)
	if err != nil {
		return fmt.Errorf("encoding pantry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating pantry directory: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing pantry file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing pantry file: %w", err)
	}
	return nil
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[normalize.Name(item)] = struct{}{}
	}
	return set
}

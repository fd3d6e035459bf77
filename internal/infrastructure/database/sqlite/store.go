// Package sqlite 以 SQLite 實作食譜庫
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"menu-planner/internal/core/normalize"
	"menu-planner/internal/core/recipe"
	"menu-planner/internal/infrastructure/database/sqlite/migrations"
	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	_ recipe.Store  = (*Store)(nil)
	_ recipe.Writer = (*Store)(nil)
)

// Store SQLite 食譜庫
type Store struct {
	db   *sql.DB
	path string
}

// Open 開啟（必要時建立）path 上的資料庫並執行遷移
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	common.LogInfo("資料庫已開啟", zap.String("path", path))
	return s, nil
}

// NewWithDB 使用既有連線（不執行遷移）
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close 關閉連線
func (s *Store) Close() error {
	return s.db.Close()
}

// Path 資料庫檔案路徑
func (s *Store) Path() string {
	return s.path
}

// Ping 檢查連線
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		common.LogDebug("已套用資料庫遷移", zap.String("file", name))
	}
	return nil
}

// ListAll 依 id 排序的食譜摘要
func (s *Store) ListAll(ctx context.Context) ([]common.RecipeSummary, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, servings FROM recipes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	defer rows.Close()

	var out []common.RecipeSummary
	for rows.Next() {
		var (
			r        common.RecipeSummary
			servings sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Title, &servings); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		r.RawServings = servings.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// IngredientsFor 單一食譜的食材，依寫入順序
func (s *Store) IngredientsFor(ctx context.Context, id int64) ([]common.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, quantity, unit FROM ingredients WHERE recipe_id = ? ORDER BY id", id)
	if err != nil {
		return nil, fmt.Errorf("loading ingredients: %w", err)
	}
	defer rows.Close()

	var out []common.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// IngredientsForRecipes 以單一 IN 查詢取回多份食譜的食材
func (s *Store) IngredientsForRecipes(ctx context.Context, ids []int64) ([]common.IngredientRow, error) {
	unique := make([]any, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(unique)), ",")
	query := fmt.Sprintf(
		"SELECT recipe_id, name, quantity, unit FROM ingredients WHERE recipe_id IN (%s) ORDER BY id",
		placeholders,
	)

	rows, err := s.db.QueryContext(ctx, query, unique...)
	if err != nil {
		return nil, fmt.Errorf("loading ingredients: %w", err)
	}
	defer rows.Close()

	var out []common.IngredientRow
	for rows.Next() {
		var (
			row  common.IngredientRow
			qty  any
			unit sql.NullString
		)
		if err := rows.Scan(&row.RecipeID, &row.Name, &qty, &unit); err != nil {
			return nil, fmt.Errorf("scanning ingredient: %w", err)
		}
		row.Quantity = common.QuantityFromValue(qty)
		row.Unit = unit.String
		out = append(out, row)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIngredient(sc scanner) (common.Ingredient, error) {
	var (
		ing  common.Ingredient
		qty  any
		unit sql.NullString
	)
	if err := sc.Scan(&ing.Name, &qty, &unit); err != nil {
		return ing, fmt.Errorf("scanning ingredient: %w", err)
	}
	ing.Quantity = common.QuantityFromValue(qty)
	ing.Unit = unit.String
	return ing, nil
}

// FullRecipe 完整食譜：食材、依序號排列的步驟與標籤
func (s *Store) FullRecipe(ctx context.Context, id int64) (*common.Recipe, error) {
	var (
		r                          common.Recipe
		subtitle, servings, source sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, subtitle, servings, source FROM recipes WHERE id = ?", id,
	).Scan(&r.ID, &r.Title, &subtitle, &servings, &source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading recipe %d: %w", id, err)
	}
	r.Subtitle = subtitle.String
	r.RawServings = servings.String
	r.Source = source.String

	if r.Ingredients, err = s.IngredientsFor(ctx, id); err != nil {
		return nil, err
	}
	if r.Steps, err = s.stringColumn(ctx,
		"SELECT text FROM steps WHERE recipe_id = ? ORDER BY step_number", id); err != nil {
		return nil, err
	}
	if r.Tags, err = s.stringColumn(ctx,
		`SELECT t.name FROM tags t JOIN recipe_tags rt ON rt.tag_id = t.id
		 WHERE rt.recipe_id = ? ORDER BY t.name`, id); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) stringColumn(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// IngredientNames 正規化後去重排序的食材名稱。
// SQLite 的 lower() 只處理 ASCII，所以正規化在 Go 端進行。
func (s *Store) IngredientNames(ctx context.Context) ([]string, error) {
	names, err := s.stringColumn(ctx, "SELECT DISTINCT name FROM ingredients")
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = normalize.Name(n); n != "" {
			set[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// InsertRecipe 新增食譜、食材與步驟；內容指紋已存在時不寫入並回傳 inserted=false
func (s *Store) InsertRecipe(ctx context.Context, r *common.Recipe) (int64, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO recipes (title, subtitle, servings, source, fingerprint)
		VALUES (?, ?, ?, ?, ?)`,
		r.Title, nullString(r.Subtitle), nullString(r.RawServings), nullString(r.Source), recipe.Fingerprint(r),
	)
	if err != nil {
		return 0, false, fmt.Errorf("inserting recipe: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, false, err
	}
	if affected == 0 {
		return 0, false, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, err
	}

	for _, ing := range r.Ingredients {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO ingredients (recipe_id, name, quantity, unit) VALUES (?, ?, ?, ?)",
			id, ing.Name, ing.Quantity.Value(), nullString(ing.Unit),
		); err != nil {
			return 0, false, fmt.Errorf("inserting ingredient: %w", err)
		}
	}
	for i, step := range r.Steps {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO steps (recipe_id, step_number, text) VALUES (?, ?, ?)",
			id, i+1, step,
		); err != nil {
			return 0, false, fmt.Errorf("inserting step: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("committing recipe: %w", err)
	}
	return id, true, nil
}

// AddTag 為食譜加上標籤（標籤不存在時建立）
func (s *Store) AddTag(ctx context.Context, recipeID int64, tag string) error {
	if _, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO tags (name) VALUES (?)", tag); err != nil {
		return fmt.Errorf("creating tag: %w", err)
	}
	var tagID int64
	if err := s.db.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", tag).Scan(&tagID); err != nil {
		return fmt.Errorf("loading tag: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)", recipeID, tagID,
	); err != nil {
		return fmt.Errorf("linking tag: %w", err)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

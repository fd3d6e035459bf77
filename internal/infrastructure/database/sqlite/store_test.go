package sqlite

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-planner/internal/pkg/common"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "data", "recipes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func sampleRecipe(title string) *common.Recipe {
	return &common.Recipe{
		Title:       title,
		Subtitle:    "met knapperige groenten",
		RawServings: "1-6 personen (ingrediënten hieronder zijn voor 2 personen)",
		Source:      "json:test.json",
		Ingredients: []common.Ingredient{
			{Name: "Kipfilet", Quantity: common.NumericQuantity(300), Unit: "g"},
			{Name: "paprika", Quantity: common.TextQuantity("1½")},
			{Name: "Zout", Quantity: common.MissingQuantity()},
		},
		Steps: []string{"Snijd de kip.", "Bak alles."},
	}
}

func TestInsertAndLoadRecipe(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, inserted, err := store.InsertRecipe(ctx, sampleRecipe("Kip uit de wok"))
	require.NoError(t, err)
	require.True(t, inserted)
	require.NoError(t, store.AddTag(ctx, id, "snel"))
	require.NoError(t, store.AddTag(ctx, id, "snel"))

	r, err := store.FullRecipe(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "Kip uit de wok", r.Title)
	assert.Equal(t, "met knapperige groenten", r.Subtitle)
	assert.Equal(t, "json:test.json", r.Source)
	assert.Equal(t, []string{"Snijd de kip.", "Bak alles."}, r.Steps)
	assert.Equal(t, []string{"snel"}, r.Tags)

	require.Len(t, r.Ingredients, 3)
	assert.Equal(t, common.TextQuantity("300"), r.Ingredients[0].Quantity)
	assert.Equal(t, "g", r.Ingredients[0].Unit)
	assert.Equal(t, common.TextQuantity("1½"), r.Ingredients[1].Quantity)
	assert.Equal(t, common.MissingQuantity(), r.Ingredients[2].Quantity)
	assert.Empty(t, r.Ingredients[2].Unit)
}

func TestInsertRecipeDeduplicatesByFingerprint(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, inserted, err := store.InsertRecipe(ctx, sampleRecipe("Kip uit de wok"))
	require.NoError(t, err)
	require.True(t, inserted)

	// 大小寫與空白不同仍視為同一份食譜
	dup := sampleRecipe("  KIP UIT DE WOK ")
	dup.Source = "json:other.json"
	_, inserted, err = store.InsertRecipe(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListAllAndIngredients(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first, _, err := store.InsertRecipe(ctx, sampleRecipe("Eerste"))
	require.NoError(t, err)
	second := sampleRecipe("Tweede")
	second.RawServings = ""
	second.Ingredients = []common.Ingredient{{Name: "Crème fraîche", Quantity: common.NumericQuantity(0.5), Unit: "beker"}}
	secondID, _, err := store.InsertRecipe(ctx, second)
	require.NoError(t, err)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first, all[0].ID)
	assert.Equal(t, "1-6 personen (ingrediënten hieronder zijn voor 2 personen)", all[0].RawServings)
	assert.Empty(t, all[1].RawServings)

	rows, err := store.IngredientsForRecipes(ctx, []int64{secondID, first, secondID})
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	none, err := store.IngredientsForRecipes(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	names, err := store.IngredientNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"crème fraîche", "kipfilet", "paprika", "zout"}, names)
}

func TestFullRecipeNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.FullRecipe(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrRecipeNotFound)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")

	store, err := Open(path)
	require.NoError(t, err)
	_, _, err = store.InsertRecipe(context.Background(), sampleRecipe("Blijvend"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	all, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIngredientsForRecipesIssuesSingleQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT recipe_id, name, quantity, unit FROM ingredients WHERE recipe_id IN (?,?,?) ORDER BY id",
	)).
		WithArgs(int64(3), int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"recipe_id", "name", "quantity", "unit"}).
			AddRow(int64(1), "ui", "2", nil).
			AddRow(int64(3), "rijst", nil, "g"))

	rows, err := NewWithDB(db).IngredientsForRecipes(context.Background(), []int64{3, 1, 3, 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, common.TextQuantity("2"), rows[0].Quantity)
	assert.Empty(t, rows[0].Unit)
	assert.Equal(t, common.MissingQuantity(), rows[1].Quantity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

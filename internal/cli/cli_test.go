package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-planner/internal/api"
	"menu-planner/internal/core/planner"
	"menu-planner/internal/core/recipe"
	"menu-planner/internal/core/scoring"
	"menu-planner/internal/core/shopping"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/infrastructure/database/sqlite"
	"menu-planner/internal/infrastructure/menustore"
	"menu-planner/internal/infrastructure/pantry"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		asJSON, includePantry, skipShopping, dbPath = false, false, false, ""
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeRecipes(t *testing.T, dir string, from, to int) {
	t.Helper()
	for i := from; i < to; i++ {
		body := fmt.Sprintf(`{
			"title": "Ovenschotel %d",
			"servings": "2 personen",
			"ingredients": [
				{"name": "courgette %d", "quantity": 1, "unit": ""},
				{"name": "zout", "quantity": null, "unit": ""}
			],
			"steps": ["Snijden", "Bakken"],
			"tags": ["oven"]
		}`, i, i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("recipe_%02d.json", i)), []byte(body), 0o644))
	}
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(t.TempDir(), "recipes.db")
	writeRecipes(t, dir, 0, 3)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "incomplete.json"), []byte(`{"title":"Leeg"}`), 0o644))

	out, err := run(t, "import", dir, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "+ Ovenschotel 0")
	assert.Contains(t, out, "imported: 3, duplicates: 0, skipped: 1")
	assert.Contains(t, out, "broken.json")

	out, err = run(t, "import", dir, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "imported: 0, duplicates: 3, skipped: 1")
}

func TestImportCommandEmptyDir(t *testing.T) {
	_, err := run(t, "import", t.TempDir(), "--db", filepath.Join(t.TempDir(), "x.db"))
	assert.Error(t, err)
}

func startServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db := filepath.Join(t.TempDir(), "recipes.db")
	writeRecipes(t, dir, 0, 8)
	_, err := run(t, "import", dir, "--db", db)
	require.NoError(t, err)

	store, err := sqlite.Open(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tables := scoring.DutchTables()
	pantryStore := pantry.NewFileStore(filepath.Join(t.TempDir(), "pantry.json"), tables.DefaultPantry)
	sessions := menustore.NewMemory(10, time.Hour, 0)
	t.Cleanup(func() { _ = sessions.Close() })

	router := api.SetupRouter(&config.Config{App: config.AppConfig{Version: "test"}}, api.Dependencies{
		Planner:    planner.New(store, tables, planner.DefaultOptions(), planner.NewSeededRand(1)),
		Aggregator: shopping.NewAggregator(store, pantryStore, 4, tables.DefaultUnit),
		Recipes:    recipe.NewService(store, pantryStore, tables.DefaultPantry),
		Sessions:   sessions,
		DayNames:   tables.DayNames,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestWeekCommand(t *testing.T) {
	url := startServer(t)

	out, err := run(t, "week", "--server", url)
	require.NoError(t, err)
	assert.Contains(t, out, "Maandag")
	assert.Contains(t, out, "Zondag")
	assert.Contains(t, out, "Shopping list (4 servings)")
	assert.NotContains(t, out, "zout")
}

func TestReplaceAndShoppingCommands(t *testing.T) {
	url := startServer(t)

	menu, err := newClientFor(url).GenerateMenu(context.Background())
	require.NoError(t, err)

	out, err := run(t, "replace", menu.ID, "2", "--server", url)
	require.NoError(t, err)
	assert.Contains(t, out, menu.ID)
	assert.NotContains(t, out, "menu unchanged")

	out, err = run(t, "shopping", menu.ID, "--include-pantry", "--server", url)
	require.NoError(t, err)
	assert.Contains(t, out, "zout")

	_, err = run(t, "replace", menu.ID, "9", "--server", url)
	assert.Error(t, err)
}

func TestPantryCommands(t *testing.T) {
	url := startServer(t)

	out, err := run(t, "pantry", "set", "Zout", "bloem", "--server", url)
	require.NoError(t, err)
	assert.Equal(t, "bloem\nzout\n", out)

	out, err = run(t, "pantry", "--server", url)
	require.NoError(t, err)
	assert.Equal(t, "bloem\nzout\n", out)

	out, err = run(t, "pantry", "reset", "--server", url)
	require.NoError(t, err)
	assert.Contains(t, out, "peper")
}

func TestParseDay(t *testing.T) {
	day, err := parseDay("6")
	require.NoError(t, err)
	assert.Equal(t, 6, day)

	for _, bad := range []string{"-1", "7", "maandag"} {
		_, err := parseDay(bad)
		assert.Error(t, err, bad)
	}
}

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
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
	"menu-planner/internal/infrastructure/database/memory"
	"menu-planner/internal/infrastructure/menustore"
	"menu-planner/internal/infrastructure/pantry"
	"menu-planner/internal/pkg/common"
)

func newServer(t *testing.T, recipes int) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New(recipe.Fingerprint)
	for i := range recipes {
		store.Add(common.Recipe{
			Title:       fmt.Sprintf("Schotel %d", i),
			RawServings: "2",
			Ingredients: []common.Ingredient{
				{Name: fmt.Sprintf("groente %d", i), Quantity: common.NumericQuantity(50), Unit: "g"},
				{Name: "peper", Quantity: common.MissingQuantity()},
			},
			Steps: []string{"stoven"},
		})
	}

	tables := scoring.DutchTables()
	pantryStore := pantry.NewFileStore(filepath.Join(t.TempDir(), "pantry.json"), tables.DefaultPantry)
	sessions := menustore.NewMemory(10, time.Hour, 0)
	t.Cleanup(func() { _ = sessions.Close() })

	router := api.SetupRouter(&config.Config{App: config.AppConfig{Version: "test"}}, api.Dependencies{
		Planner:    planner.New(store, tables, planner.DefaultOptions(), planner.NewSeededRand(7)),
		Aggregator: shopping.NewAggregator(store, pantryStore, 4, tables.DefaultUnit),
		Recipes:    recipe.NewService(store, pantryStore, tables.DefaultPantry),
		Sessions:   sessions,
		DayNames:   tables.DayNames,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestMenuRoundTrip(t *testing.T) {
	c := newServer(t, 9)
	ctx := context.Background()

	menu, err := c.GenerateMenu(ctx)
	require.NoError(t, err)
	require.True(t, menu.Complete)

	got, err := c.Menu(ctx, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, menu.Days, got.Days)

	replaced, err := c.ReplaceDay(ctx, menu.ID, 1)
	require.NoError(t, err)
	assert.True(t, replaced.Changed)

	list, err := c.ShoppingList(ctx, menu.ID, true)
	require.NoError(t, err)
	assert.Len(t, list.Items, planner.Days)

	r, err := c.Recipe(ctx, menu.Days[0].Recipe.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, common.NumericQuantity(100), r.Ingredients[0].Quantity)

	cleared, err := c.ClearDay(ctx, menu.ID, 6)
	require.NoError(t, err)
	assert.False(t, cleared.Complete)
}

func TestAPIErrors(t *testing.T) {
	c := newServer(t, 2)
	ctx := context.Background()

	_, err := c.GenerateMenu(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "INSUFFICIENT_RECIPES", apiErr.Code)

	_, err = c.Menu(ctx, "nope")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "MENU_NOT_FOUND", apiErr.Code)
}

func TestPantry(t *testing.T) {
	c := newServer(t, 1)
	ctx := context.Background()

	items, err := c.UpdatePantry(ctx, []string{"Zout", "olijfolie"})
	require.NoError(t, err)
	assert.Equal(t, []string{"olijfolie", "zout"}, items)

	items, err = c.Pantry(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"olijfolie", "zout"}, items)

	items, err = c.UpdatePantry(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = c.ResetPantry(ctx)
	require.NoError(t, err)
	assert.Contains(t, items, "zout")

	names, err := c.Ingredients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"groente 0", "peper"}, names)
}

func TestNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Pantry(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Message, "bad gateway")
}

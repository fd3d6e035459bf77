// Package client 週菜單 API 的 HTTP 客戶端
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	menuHandler "menu-planner/internal/api/handlers/menu"
	recipeHandler "menu-planner/internal/api/handlers/recipe"
	"menu-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

const apiPrefix = "/api/v1"

// APIError 伺服器回傳的錯誤
type APIError struct {
	Status int
	common.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%d): %s: %s", e.Code, e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// Client 週菜單 API 客戶端
type Client struct {
	http *resty.Client
}

// New 創建客戶端
func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetError(&common.ErrorResponse{})
	return &Client{http: c}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, query map[string]string) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, apiPrefix+path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode()}
		if e, ok := resp.Error().(*common.ErrorResponse); ok && e.Code != "" {
			apiErr.ErrorResponse = *e
		} else {
			apiErr.Code = http.StatusText(resp.StatusCode())
			apiErr.Message = resp.String()
		}
		return apiErr
	}
	return nil
}

// GenerateMenu 產生新的週菜單
func (c *Client) GenerateMenu(ctx context.Context) (*menuHandler.MenuResponse, error) {
	var out menuHandler.MenuResponse
	if err := c.do(ctx, http.MethodPost, "/menus", nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// Menu 取得週菜單
func (c *Client) Menu(ctx context.Context, id string) (*menuHandler.MenuResponse, error) {
	var out menuHandler.MenuResponse
	if err := c.do(ctx, http.MethodGet, "/menus/"+id, nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReplaceDay 重新挑選某一天
func (c *Client) ReplaceDay(ctx context.Context, id string, day int) (*menuHandler.ReplaceResponse, error) {
	var out menuHandler.ReplaceResponse
	path := fmt.Sprintf("/menus/%s/days/%d/replace", id, day)
	if err := c.do(ctx, http.MethodPost, path, nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearDay 清空某一天
func (c *Client) ClearDay(ctx context.Context, id string, day int) (*menuHandler.MenuResponse, error) {
	var out menuHandler.MenuResponse
	path := fmt.Sprintf("/menus/%s/days/%d", id, day)
	if err := c.do(ctx, http.MethodDelete, path, nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// ShoppingList 取得購物清單
func (c *Client) ShoppingList(ctx context.Context, id string, excludePantry bool) (*menuHandler.ShoppingListResponse, error) {
	var out menuHandler.ShoppingListResponse
	query := map[string]string{"exclude_pantry": strconv.FormatBool(excludePantry)}
	if err := c.do(ctx, http.MethodGet, "/menus/"+id+"/shopping-list", nil, &out, query); err != nil {
		return nil, err
	}
	return &out, nil
}

// Recipe 取得完整食譜；servings 為 0 時不換算
func (c *Client) Recipe(ctx context.Context, id int64, servings int) (*common.Recipe, error) {
	var out common.Recipe
	query := map[string]string{"servings": strconv.Itoa(servings)}
	if err := c.do(ctx, http.MethodGet, "/recipes/"+strconv.FormatInt(id, 10), nil, &out, query); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ingredients 所有已知食材名稱
func (c *Client) Ingredients(ctx context.Context) ([]string, error) {
	var out struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := c.do(ctx, http.MethodGet, "/ingredients", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Ingredients, nil
}

// Pantry 目前的常備食材
func (c *Client) Pantry(ctx context.Context) ([]string, error) {
	var out recipeHandler.PantryResponse
	if err := c.do(ctx, http.MethodGet, "/pantry", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// UpdatePantry 取代常備食材
func (c *Client) UpdatePantry(ctx context.Context, items []string) ([]string, error) {
	if items == nil {
		items = []string{}
	}
	var out recipeHandler.PantryResponse
	if err := c.do(ctx, http.MethodPut, "/pantry", recipeHandler.PantryRequest{Items: items}, &out, nil); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// ResetPantry 恢復預設常備食材
func (c *Client) ResetPantry(ctx context.Context) ([]string, error) {
	var out recipeHandler.PantryResponse
	if err := c.do(ctx, http.MethodPost, "/pantry/reset", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Items, nil
}

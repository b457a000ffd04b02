package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type captured struct {
	method     string
	path       string
	requestID  string
	terminalID string
	body       map[string]any
}

func newServer(t *testing.T, status int, response string) (*Client, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.requestID = r.Header.Get("X-Request-ID")
		got.terminalID = r.Header.Get("X-Terminal-ID")
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &got.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", "kiosk-a", 2*time.Second), got
}

func TestCreateOrder(t *testing.T) {
	c, got := newServer(t, http.StatusCreated, `{"order_id": 41, "menuitem_ids": [1], "fooditem_ids": [[8, 10]], "total": "7.9", "tax": "0.65175"}`)

	ctx := logger.WithRequestID(context.Background(), "kiosk-7")
	order, err := c.CreateOrder(ctx, interfaces.CreateOrderCommand{
		EmployeeID:  2,
		MenuItemIDs: []int{1},
		FoodItemIDs: [][]int{{8, 10}},
		Total:       d("7.90"),
		Tax:         d("0.65175"),
		OrderedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, 41, order.ID)
	assert.Equal(t, [][]int{{8, 10}}, order.FoodItemIDs)
	assert.True(t, order.Total.Equal(d("7.90")))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/orders", got.path)
	assert.Equal(t, "kiosk-7", got.requestID)
	assert.Equal(t, "kiosk-a", got.terminalID)
	assert.Equal(t, "7.9", got.body["total"])
	assert.Equal(t, float64(2), got.body["employee_id"])
}

func TestDecrementCarriesMovement(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{"inventoryitem_id": 3, "name": "Rice", "quantity": "0", "unit": "kg",
		"consumed": "2", "shortfall": "1", "at": "2026-03-01T12:00:00Z"}`)

	item, m, err := c.Decrement(context.Background(), 3, d("3"))
	require.NoError(t, err)

	assert.Equal(t, "/api/inventory/3/decrement", got.path)
	assert.Equal(t, "3", got.body["amount"])
	assert.True(t, item.Quantity.IsZero())
	assert.Equal(t, 3, m.InventoryItemID)
	assert.True(t, m.Consumed().Equal(d("2")))
	assert.True(t, m.Shortfall.Equal(d("1")))
}

func TestLinkageZipsColumns(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{"kind": "fooditem", "id": 20, "inventoryitem_ids": [5, 6], "inventory_amounts": ["1", "0.25"]}`)

	lines, err := c.FoodItemLinkage(context.Background(), 20)
	require.NoError(t, err)

	assert.Equal(t, "/api/fooditems/20/inventory", got.path)
	require.Len(t, lines, 2)
	assert.Equal(t, 6, lines[1].InventoryItemID)
	assert.True(t, lines[1].Amount.Equal(d("0.25")))
}

func TestSetStockRoutesByKind(t *testing.T) {
	c, got := newServer(t, http.StatusNoContent, "")

	require.NoError(t, c.SetStock(context.Background(), domain.StockOwnerMenu, 5, false))
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/api/menuitems/5/stock", got.path)
	assert.Equal(t, false, got.body["in_stock"])
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found", http.StatusNotFound, `{"error": "menu item 9: not found"}`, domain.ErrNotFound},
		{"validation", http.StatusBadRequest, `{"error": "Validation failed"}`, domain.ErrValidation},
		{"server", http.StatusInternalServerError, `oops`, ErrStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newServer(t, tt.status, tt.body)
			_, err := c.GetMenuItem(context.Background(), 9)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestIncrementIsCompensation(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{"inventoryitem_id": 3, "quantity": "4"}`)

	item, err := c.Increment(context.Background(), 3, d("2"))
	require.NoError(t, err)

	assert.Equal(t, "/api/inventory/3/increment", got.path)
	assert.Equal(t, "compensation", got.body["reason"])
	assert.True(t, item.Quantity.Equal(d("4")))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, "kiosk-a", time.Second).Increment(context.Background(), 1, d("1"))
	assert.True(t, errors.Is(err, ErrTransport))
}

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	api "github.com/YelzhanWeb/pos/internal/adapter/http"
	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

var (
	// ErrTransport means the api could not be reached.
	ErrTransport = errors.New("api unreachable")
	// ErrStatus means the api answered with an unexpected status.
	ErrStatus = errors.New("unexpected api status")
)

const maxErrorBody = 512

// Client is the kiosk's view of the api. It satisfies the order, catalog and inventory gateways.
// Every request carries the terminal id so the api can tell kiosks apart in its logs.
type Client struct {
	baseURL    string
	terminalID string
	hc         *http.Client
}

var (
	_ interfaces.OrderGateway     = (*Client)(nil)
	_ interfaces.CatalogGateway   = (*Client)(nil)
	_ interfaces.InventoryGateway = (*Client)(nil)
)

func New(baseURL, terminalID string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, terminalID, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL, terminalID string, hc *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		terminalID: terminalID,
		hc:         hc,
	}
}

func (c *Client) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	req := api.CreateOrderRequest{
		EmployeeID:  cmd.EmployeeID,
		CustomerID:  cmd.CustomerID,
		MenuItemIDs: cmd.MenuItemIDs,
		FoodItemIDs: api.Selections(cmd.FoodItemIDs),
		Total:       cmd.Total,
		Tax:         cmd.Tax,
		OrderedTime: cmd.OrderedAt,
	}

	var out api.OrderDTO
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &out, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return out.ToDomain(), nil
}

func (c *Client) VoidOrder(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/orders/%d", id), nil, nil, http.StatusNoContent); err != nil {
		return fmt.Errorf("failed to void order %d: %w", id, err)
	}
	return nil
}

func (c *Client) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	var out api.MenuItemDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/menuitems/%d", id), nil, &out, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to get menu item %d: %w", id, err)
	}
	return out.ToDomain(), nil
}

func (c *Client) FoodItemLinkage(ctx context.Context, id int) ([]domain.Consumption, error) {
	return c.linkage(ctx, "fooditems", id)
}

func (c *Client) MenuItemLinkage(ctx context.Context, id int) ([]domain.Consumption, error) {
	return c.linkage(ctx, "menuitems", id)
}

func (c *Client) linkage(ctx context.Context, resource string, id int) ([]domain.Consumption, error) {
	var out api.LinkageDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/%s/%d/inventory", resource, id), nil, &out, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to get %s %d linkage: %w", resource, id, err)
	}
	return out.Consumption(), nil
}

func (c *Client) SetStock(ctx context.Context, kind domain.StockOwnerKind, id int, inStock bool) error {
	resource := "fooditems"
	if kind == domain.StockOwnerMenu {
		resource = "menuitems"
	}

	body := api.StockRequest{InStock: &inStock}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/%s/%d/stock", resource, id), body, nil, http.StatusNoContent); err != nil {
		return fmt.Errorf("failed to set %s %d stock: %w", kind, id, err)
	}
	return nil
}

func (c *Client) Decrement(ctx context.Context, id int, amount decimal.Decimal) (*domain.InventoryItem, domain.InventoryMovement, error) {
	var out api.DecrementResponse
	path := fmt.Sprintf("/api/inventory/%d/decrement", id)
	if err := c.do(ctx, http.MethodPut, path, api.AmountRequest{Amount: amount}, &out, http.StatusOK); err != nil {
		return nil, domain.InventoryMovement{}, fmt.Errorf("failed to decrement inventory item %d: %w", id, err)
	}
	return out.InventoryItemDTO.ToDomain(), out.Movement(), nil
}

// Increment is only used by the kiosk to undo its own sales, so it is journaled as compensation.
func (c *Client) Increment(ctx context.Context, id int, amount decimal.Decimal) (*domain.InventoryItem, error) {
	var out api.InventoryItemDTO
	path := fmt.Sprintf("/api/inventory/%d/increment", id)
	body := api.AmountRequest{Amount: amount, Reason: domain.MovementCompensate}
	if err := c.do(ctx, http.MethodPut, path, body, &out, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to increment inventory item %d: %w", id, err)
	}
	return out.ToDomain(), nil
}

// do sends one JSON request. 404 maps to domain.ErrNotFound, 400 to domain.ErrValidation,
// any other status besides want to ErrStatus.
func (c *Client) do(ctx context.Context, method, path string, in, out any, want int) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if id := logger.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if c.terminalID != "" {
		req.Header.Set(api.TerminalIDHeader, c.terminalID)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := strings.TrimSpace(string(raw))
	var e api.ErrorResponse
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		msg = e.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	default:
		return fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, msg)
	}
}

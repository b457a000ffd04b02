package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/app/cart"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

// Checkouter completes the active cart.
type Checkouter interface {
	Checkout(ctx context.Context, customerID int, requestID string) (*cart.Receipt, error)
}

type AddItemRequest struct {
	MenuItemID  int   `json:"menuitem_id"`
	FoodItemIDs []int `json:"fooditem_ids"`
}

type CheckoutRequest struct {
	CustomerID int `json:"customer_id"`
}

type CartResponse struct {
	Items []cart.ItemSnapshot `json:"items"`
	Total decimal.Decimal     `json:"total"`
	Tax   decimal.Decimal     `json:"tax"`
}

type ReceiptResponse struct {
	State     domain.CheckoutState `json:"state"`
	OrderID   int                  `json:"order_id,omitempty"`
	Movements int                  `json:"movements"`
	Failures  []cart.ItemFailure   `json:"failures,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// KioskHandler serves the local cart of one terminal.
type KioskHandler struct {
	cart      *cart.Cart
	finalizer Checkouter
	catalog   interfaces.CatalogGateway
	logger    logger.Logger
}

func NewKioskHandler(c *cart.Cart, finalizer Checkouter, catalog interfaces.CatalogGateway, logger logger.Logger) *KioskHandler {
	return &KioskHandler{
		cart:      c,
		finalizer: finalizer,
		catalog:   catalog,
		logger:    logger,
	}
}

func (h *KioskHandler) RegisterRoutes(r chi.Router) {
	r.Get("/cart", h.GetCart)
	r.Post("/cart/items", h.AddItem)
	r.Delete("/cart/items/{index}", h.RemoveItem)
	r.Delete("/cart", h.EmptyCart)
	r.Post("/cart/checkout", h.Checkout)
}

func (h *KioskHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newCartResponse(h.cart.Snapshot()))
}

func (h *KioskHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if req.MenuItemID < 1 {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "menuitem_id", Message: "menu item id must be positive"},
		})
		return
	}

	menu, err := h.catalog.GetMenuItem(r.Context(), req.MenuItemID)
	if err != nil {
		respondServiceError(w, r, h.logger, "menuitem_lookup_failed", err)
		return
	}

	item := cart.Compose(menu, req.FoodItemIDs, h.cart.Surcharges())
	if err := h.cart.Add(item); err != nil {
		respondServiceError(w, r, h.logger, "cart_add_failed", err)
		return
	}

	h.logger.Debug("cart_item_added", "Item added to cart", logger.RequestID(r.Context()), map[string]interface{}{
		"menuitem_id": menu.ID,
		"total":       item.Total().String(),
	})
	writeJSON(w, http.StatusCreated, newCartResponse(h.cart.Snapshot()))
}

func (h *KioskHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, "Invalid cart index", http.StatusBadRequest, nil)
		return
	}

	if err := h.cart.Remove(index); err != nil {
		if errors.Is(err, cart.ErrIndexOutOfRange) {
			respondError(w, err.Error(), http.StatusNotFound, nil)
			return
		}
		respondServiceError(w, r, h.logger, "cart_remove_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(h.cart.Snapshot()))
}

func (h *KioskHandler) EmptyCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Empty(); err != nil {
		respondServiceError(w, r, h.logger, "cart_empty_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout answers 200 with the receipt on success and 502 with the receipt on failure,
// so the terminal can see how far the checkout got.
func (h *KioskHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest, nil)
			return
		}
	}
	if req.CustomerID < 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "customer_id", Message: "customer id must not be negative (0 is a guest)"},
		})
		return
	}

	receipt, err := h.finalizer.Checkout(r.Context(), req.CustomerID, logger.RequestID(r.Context()))
	resp := newReceiptResponse(receipt)
	if err != nil {
		resp.Error = err.Error()
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func newCartResponse(s cart.Snapshot) CartResponse {
	items := s.Items
	if items == nil {
		items = []cart.ItemSnapshot{}
	}
	return CartResponse{Items: items, Total: s.Total, Tax: s.Tax}
}

func newReceiptResponse(r *cart.Receipt) ReceiptResponse {
	if r == nil {
		return ReceiptResponse{State: domain.CheckoutFailed}
	}
	resp := ReceiptResponse{
		State:     r.State,
		Movements: len(r.Movements),
		Failures:  r.Failures,
	}
	if r.Order != nil {
		resp.OrderID = r.Order.ID
	}
	return resp
}

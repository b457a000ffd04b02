package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type CatalogHandler struct {
	service interfaces.CatalogService
	logger  logger.Logger
}

func NewCatalogHandler(service interfaces.CatalogService, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, logger: logger}
}

func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/fooditems", h.ListFoodItems)
	r.Get("/api/fooditems/{id}/inventory", h.linkage(domain.StockOwnerFood))
	r.Put("/api/fooditems/{id}/stock", h.setStock(domain.StockOwnerFood))

	r.Get("/api/menuitems", h.ListMenuItems)
	r.Get("/api/menuitems/{id}", h.GetMenuItem)
	r.Get("/api/menuitems/{id}/inventory", h.linkage(domain.StockOwnerMenu))
	r.Put("/api/menuitems/{id}/stock", h.setStock(domain.StockOwnerMenu))
}

// ListFoodItems accepts ?month=1..12 to list only what is in season.
func (h *CatalogHandler) ListFoodItems(w http.ResponseWriter, r *http.Request) {
	var month time.Month
	if raw := r.URL.Query().Get("month"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 12 {
			respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
				{Field: "month", Message: "month must be between 1 and 12"},
			})
			return
		}
		month = time.Month(n)
	}

	items, err := h.service.ListFoodItems(r.Context(), month)
	if err != nil {
		respondServiceError(w, r, h.logger, "fooditems_list_failed", err)
		return
	}

	out := make([]FoodItemDTO, 0, len(items))
	for _, f := range items {
		out = append(out, NewFoodItemDTO(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListMenuItems(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, "menuitems_list_failed", err)
		return
	}

	out := make([]MenuItemDTO, 0, len(items))
	for _, m := range items {
		out = append(out, NewMenuItemDTO(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, "Invalid menu item id", http.StatusBadRequest, nil)
		return
	}

	m, err := h.service.GetMenuItem(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, "menuitem_lookup_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, NewMenuItemDTO(m))
}

func (h *CatalogHandler) linkage(kind domain.StockOwnerKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respondError(w, "Invalid item id", http.StatusBadRequest, nil)
			return
		}

		var (
			lines []domain.Consumption
			err   error
		)
		if kind == domain.StockOwnerFood {
			lines, err = h.service.FoodItemLinkage(r.Context(), id)
		} else {
			lines, err = h.service.MenuItemLinkage(r.Context(), id)
		}
		if err != nil {
			respondServiceError(w, r, h.logger, "linkage_lookup_failed", err)
			return
		}
		writeJSON(w, http.StatusOK, NewLinkageDTO(kind, id, lines))
	}
}

func (h *CatalogHandler) setStock(kind domain.StockOwnerKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respondError(w, "Invalid item id", http.StatusBadRequest, nil)
			return
		}

		var req StockRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest, nil)
			return
		}
		if req.InStock == nil {
			respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
				{Field: "in_stock", Message: "in_stock is required"},
			})
			return
		}

		if err := h.service.SetStock(r.Context(), kind, id, *req.InStock); err != nil {
			respondServiceError(w, r, h.logger, "stock_update_failed", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

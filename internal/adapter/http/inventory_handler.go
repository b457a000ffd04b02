package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type InventoryHandler struct {
	service interfaces.InventoryService
	logger  logger.Logger
}

func NewInventoryHandler(service interfaces.InventoryService, logger logger.Logger) *InventoryHandler {
	return &InventoryHandler{service: service, logger: logger}
}

func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/inventory", h.List)
	r.Post("/api/inventory", h.Create)
	r.Put("/api/inventory/{id}/decrement", h.Decrement)
	r.Put("/api/inventory/{id}/increment", h.Increment)
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, "inventory_list_failed", err)
		return
	}

	out := make([]InventoryItemDTO, 0, len(items))
	for _, i := range items {
		out = append(out, NewInventoryItemDTO(i))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInventoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	var errs []ValidationError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}
	if req.Quantity.IsNegative() {
		errs = append(errs, ValidationError{Field: "quantity", Message: "quantity must not be negative"})
	}
	if len(errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, errs)
		return
	}

	item, err := h.service.Create(r.Context(), interfaces.CreateInventoryCommand{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	})
	if err != nil {
		respondServiceError(w, r, h.logger, "inventory_create_failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, NewInventoryItemDTO(item))
}

func (h *InventoryHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	id, req, ok := h.amountRequest(w, r)
	if !ok {
		return
	}

	item, movement, err := h.service.Decrement(r.Context(), id, req.Amount)
	if err != nil {
		respondServiceError(w, r, h.logger, "inventory_decrement_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, DecrementResponse{
		InventoryItemDTO: NewInventoryItemDTO(item),
		Consumed:         movement.Consumed(),
		Shortfall:        movement.Shortfall,
		At:               movement.At,
	})
}

func (h *InventoryHandler) Increment(w http.ResponseWriter, r *http.Request) {
	id, req, ok := h.amountRequest(w, r)
	if !ok {
		return
	}

	reason := req.Reason
	switch reason {
	case "":
		reason = domain.MovementRestock
	case domain.MovementRestock, domain.MovementCompensate:
	default:
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "reason", Message: "reason must be restock or compensation"},
		})
		return
	}

	item, err := h.service.Increment(r.Context(), id, req.Amount, reason)
	if err != nil {
		respondServiceError(w, r, h.logger, "inventory_increment_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, NewInventoryItemDTO(item))
}

func (h *InventoryHandler) amountRequest(w http.ResponseWriter, r *http.Request) (int, AmountRequest, bool) {
	var req AmountRequest

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, "Invalid inventory item id", http.StatusBadRequest, nil)
		return 0, req, false
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return 0, req, false
	}
	return id, req, true
}

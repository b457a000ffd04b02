package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/orders", h.CreateOrder)
	r.Get("/api/orders/{id}", h.GetOrder)
	r.Delete("/api/orders/{id}", h.VoidOrder)
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestID(r.Context())

	var req CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	// Валидация входных данных
	if validationErrors := validateCreateOrderRequest(req); len(validationErrors) > 0 {
		h.logger.Error("validation_failed", "Order validation failed", requestID, map[string]interface{}{
			"errors": validationErrors,
		}, fmt.Errorf("validation failed"))

		respondError(w, "Validation failed", http.StatusBadRequest, validationErrors)
		return
	}

	cmd := interfaces.CreateOrderCommand{
		CustomerID:  req.CustomerID,
		EmployeeID:  req.EmployeeID,
		MenuItemIDs: req.MenuItemIDs,
		FoodItemIDs: req.FoodItemIDs,
		Total:       req.Total,
		Tax:         req.Tax,
		OrderedAt:   req.OrderedTime,
	}

	order, err := h.service.CreateOrder(r.Context(), cmd)
	if err != nil {
		respondServiceError(w, r, h.logger, "order_creation_failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, NewOrderDTO(order))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, "Invalid order id", http.StatusBadRequest, nil)
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, "order_lookup_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, NewOrderDTO(order))
}

func (h *OrderHandler) VoidOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, "Invalid order id", http.StatusBadRequest, nil)
		return
	}

	if err := h.service.VoidOrder(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, "order_void_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateCreateOrderRequest(req CreateOrderRequest) []ValidationError {
	var errors []ValidationError

	if req.EmployeeID < 0 {
		errors = append(errors, ValidationError{Field: "employee_id", Message: "employee id must not be negative"})
	}
	if req.CustomerID < 0 {
		errors = append(errors, ValidationError{Field: "customer_id", Message: "customer id must not be negative (0 is a guest)"})
	}

	if len(req.MenuItemIDs) < 1 {
		errors = append(errors, ValidationError{Field: "menuitem_ids", Message: "order must contain at least 1 menu item"})
	}
	for i, id := range req.MenuItemIDs {
		if id < 1 {
			errors = append(errors, ValidationError{Field: fmt.Sprintf("menuitem_ids[%d]", i), Message: "menu item id must be positive"})
		}
	}

	if len(req.FoodItemIDs) != len(req.MenuItemIDs) {
		errors = append(errors, ValidationError{Field: "fooditem_ids", Message: "fooditem_ids must have one selection list per menu item"})
	}

	if req.Total.IsNegative() {
		errors = append(errors, ValidationError{Field: "total", Message: "total must not be negative"})
	}
	if req.Tax.IsNegative() {
		errors = append(errors, ValidationError{Field: "tax", Message: "tax must not be negative"})
	}

	return errors
}

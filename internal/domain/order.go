package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a persisted, completed cart.
// MenuItemIDs and FoodItemIDs are parallel: FoodItemIDs[i] holds the selections for MenuItemIDs[i].
type Order struct {
	ID          int
	CustomerID  int
	EmployeeID  int
	MenuItemIDs []int
	FoodItemIDs [][]int
	Total       decimal.Decimal
	Tax         decimal.Decimal
	OrderedAt   time.Time
	Voided      bool
}

// GuestCustomerID marks an anonymous order.
const GuestCustomerID = 0

// NewOrder creates a new order with business rules applied
func NewOrder(customerID, employeeID int, menuItemIDs []int, foodItemIDs [][]int, total, tax decimal.Decimal, orderedAt time.Time) (*Order, error) {
	if orderedAt.IsZero() {
		orderedAt = time.Now()
	}

	order := &Order{
		CustomerID:  customerID,
		EmployeeID:  employeeID,
		MenuItemIDs: menuItemIDs,
		FoodItemIDs: foodItemIDs,
		Total:       total,
		Tax:         tax,
		OrderedAt:   orderedAt.UTC(),
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate applies business validation rules
func (o *Order) Validate() error {
	if o.CustomerID < 0 {
		return fmt.Errorf("%w: customer id must not be negative", ErrValidation)
	}
	if o.EmployeeID < 0 {
		return fmt.Errorf("%w: employee id must not be negative", ErrValidation)
	}
	if len(o.MenuItemIDs) < 1 {
		return fmt.Errorf("%w: order must have at least 1 menu item", ErrValidation)
	}
	if len(o.FoodItemIDs) != len(o.MenuItemIDs) {
		return fmt.Errorf("%w: fooditem_ids must be parallel to menuitem_ids", ErrValidation)
	}
	if o.Total.IsNegative() || o.Tax.IsNegative() {
		return fmt.Errorf("%w: total and tax must not be negative", ErrValidation)
	}
	return nil
}

// IsGuest reports whether the order was placed without a customer account
func (o *Order) IsGuest() bool {
	return o.CustomerID == GuestCustomerID
}

// CheckoutState is the lifecycle of a single checkout.
type CheckoutState string

const (
	CheckoutDraft       CheckoutState = "draft"
	CheckoutSubmitted   CheckoutState = "submitted"
	CheckoutFulfilled   CheckoutState = "fulfilled"
	CheckoutCleared     CheckoutState = "cleared"
	CheckoutFailed      CheckoutState = "failed"
	CheckoutCompensated CheckoutState = "compensated"
)

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutDraft:       {CheckoutSubmitted, CheckoutFailed},
	CheckoutSubmitted:   {CheckoutFulfilled, CheckoutFailed},
	CheckoutFulfilled:   {CheckoutCleared},
	CheckoutFailed:      {CheckoutCompensated},
	CheckoutCleared:     {},
	CheckoutCompensated: {},
}

// CanTransitionTo checks if a checkout in state s may move to next
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid checkout state transition")
)

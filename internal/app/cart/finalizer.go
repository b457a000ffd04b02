package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/adapter/metrics"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type Policy string

const (
	// PolicyAbort stops at the first failed line item and keeps the cart.
	PolicyAbort Policy = "abort"
	// PolicyBestEffort attempts every line item, reports failures and clears the cart anyway.
	PolicyBestEffort Policy = "best_effort"
)

type FinalizerOptions struct {
	Policy     Policy
	Compensate bool
	EmployeeID int
}

// ItemFailure is a line item whose inventory could not be fully consumed.
type ItemFailure struct {
	Index      int    `json:"index"`
	MenuItemID int    `json:"menuitem_id"`
	Error      string `json:"error"`
}

// Receipt is the outcome of one checkout.
type Receipt struct {
	State     domain.CheckoutState `json:"state"`
	Order     *domain.Order        `json:"-"`
	Movements []Movement           `json:"-"`
	Failures  []ItemFailure        `json:"failures,omitempty"`
}

func (r *Receipt) advance(next domain.CheckoutState) error {
	if !r.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, r.State, next)
	}
	r.State = next
	return nil
}

// Finalizer turns the cart into a persisted order and consumes its inventory.
type Finalizer struct {
	cart    *Cart
	orders  interfaces.OrderGateway
	stocker *Stocker
	opts    FinalizerOptions
	logger  logger.Logger
	metrics *metrics.Registry
	now     func() time.Time
}

func NewFinalizer(cart *Cart, orders interfaces.OrderGateway, stocker *Stocker, opts FinalizerOptions, log logger.Logger, m *metrics.Registry) *Finalizer {
	if opts.Policy == "" {
		opts.Policy = PolicyAbort
	}
	return &Finalizer{
		cart:    cart,
		orders:  orders,
		stocker: stocker,
		opts:    opts,
		logger:  log,
		metrics: m,
		now:     time.Now,
	}
}

// Checkout submits the cart as an order for customerID, then consumes inventory line by line
// in cart order so later items observe earlier decrements. An empty cart is a no-op that
// returns a draft receipt.
func (f *Finalizer) Checkout(ctx context.Context, customerID int, requestID string) (*Receipt, error) {
	start := f.now()
	receipt := &Receipt{State: domain.CheckoutDraft}

	err := f.cart.Checkout(func(snap Snapshot, items []*ComposedItem) (bool, error) {
		if len(items) == 0 {
			return false, nil
		}

		order, err := f.submit(ctx, customerID, snap, items, requestID)
		if err != nil {
			_ = receipt.advance(domain.CheckoutFailed)
			return false, err
		}
		receipt.Order = order
		if err := receipt.advance(domain.CheckoutSubmitted); err != nil {
			return false, err
		}

		for i, item := range items {
			moves, err := item.AlterInventory(ctx, f.stocker)
			receipt.Movements = append(receipt.Movements, moves...)
			if err == nil {
				continue
			}

			f.logger.Error("inventory_update_failed", "Failed to consume inventory for line item", requestID,
				map[string]interface{}{"order_id": order.ID, "index": i, "menuitem_id": item.MenuItemID()}, err)

			if f.opts.Policy == PolicyBestEffort {
				receipt.Failures = append(receipt.Failures, ItemFailure{Index: i, MenuItemID: item.MenuItemID(), Error: err.Error()})
				continue
			}

			_ = receipt.advance(domain.CheckoutFailed)
			if f.opts.Compensate {
				f.compensate(ctx, receipt, requestID)
			}
			return false, fmt.Errorf("fulfil line item %d: %w", i, err)
		}

		if err := receipt.advance(domain.CheckoutFulfilled); err != nil {
			return false, err
		}
		return true, nil
	})

	if err == nil && receipt.State == domain.CheckoutFulfilled {
		err = receipt.advance(domain.CheckoutCleared)
	}

	f.observe(receipt, start)

	if err != nil {
		f.logger.Error("checkout_failed", "Checkout failed", requestID,
			map[string]interface{}{"state": receipt.State}, err)
		return receipt, err
	}

	if receipt.State == domain.CheckoutCleared {
		f.logger.Info("checkout_completed", "Checkout completed", requestID, map[string]interface{}{
			"order_id":  receipt.Order.ID,
			"movements": len(receipt.Movements),
			"failures":  len(receipt.Failures),
		})
	}
	return receipt, nil
}

func (f *Finalizer) submit(ctx context.Context, customerID int, snap Snapshot, items []*ComposedItem, requestID string) (*domain.Order, error) {
	cmd := interfaces.CreateOrderCommand{
		CustomerID:  customerID,
		EmployeeID:  f.opts.EmployeeID,
		MenuItemIDs: make([]int, 0, len(items)),
		FoodItemIDs: make([][]int, 0, len(items)),
		Total:       snap.Total,
		Tax:         snap.Tax,
		OrderedAt:   f.now().UTC(),
	}
	for _, item := range items {
		cmd.MenuItemIDs = append(cmd.MenuItemIDs, item.MenuItemID())
		cmd.FoodItemIDs = append(cmd.FoodItemIDs, item.FoodItemIDs())
	}

	order, err := f.orders.CreateOrder(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	f.logger.Debug("order_submitted", "Order submitted", requestID, map[string]interface{}{
		"order_id": order.ID,
		"total":    cmd.Total.String(),
	})
	return order, nil
}

func (f *Finalizer) compensate(ctx context.Context, receipt *Receipt, requestID string) {
	var errs []error

	if err := f.stocker.Compensate(ctx, receipt.Movements); err != nil {
		errs = append(errs, err)
	}
	if err := f.orders.VoidOrder(ctx, receipt.Order.ID); err != nil {
		errs = append(errs, fmt.Errorf("void order %d: %w", receipt.Order.ID, err))
	}

	if err := errors.Join(errs...); err != nil {
		f.logger.Error("compensation_failed", "Failed to fully compensate checkout", requestID,
			map[string]interface{}{"order_id": receipt.Order.ID}, err)
		return
	}

	if f.metrics != nil {
		f.metrics.CompensatedMoves.Add(float64(len(receipt.Movements)))
	}
	_ = receipt.advance(domain.CheckoutCompensated)
	f.logger.Info("checkout_compensated", "Checkout compensated", requestID, map[string]interface{}{
		"order_id":  receipt.Order.ID,
		"movements": len(receipt.Movements),
	})
}

func (f *Finalizer) observe(receipt *Receipt, start time.Time) {
	if f.metrics == nil || receipt.State == domain.CheckoutDraft {
		return
	}
	f.metrics.Checkouts.WithLabelValues(string(receipt.State)).Inc()
	f.metrics.CheckoutLatencySec.Observe(f.now().Sub(start).Seconds())
	f.metrics.CartItems.Set(float64(f.cart.Len()))
}

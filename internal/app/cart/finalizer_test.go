package cart

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/adapter/metrics"
	"github.com/YelzhanWeb/pos/internal/domain"
)

type checkoutFixture struct {
	store     *memStore
	cart      *Cart
	catalog   *fakeCatalog
	inventory *fakeInventory
	orders    *fakeOrders
	metrics   *metrics.Registry
}

func newCheckoutFixture(t *testing.T, opts FinalizerOptions) (*checkoutFixture, *Finalizer) {
	t.Helper()

	fx := &checkoutFixture{
		store:   newMemStore(),
		catalog: newFakeCatalog(),
		inventory: newFakeInventory(map[int]decimal.Decimal{
			100: d("10"), 101: d("10"), 200: d("10"),
		}),
		orders:  &fakeOrders{},
		metrics: metrics.NewRegistry(),
	}
	fx.catalog.food[10] = []domain.Consumption{{InventoryItemID: 100, Amount: d("1")}}
	fx.catalog.food[11] = []domain.Consumption{{InventoryItemID: 101, Amount: d("2")}}
	fx.catalog.menu[1] = []domain.Consumption{{InventoryItemID: 200, Amount: domain.MenuItemUnit}}

	log := logger.Nop()
	fx.cart = New(fx.store, domain.DefaultSurchargeTable(), domain.DefaultTaxRate, log)
	stocker := NewStocker(NewResolver(fx.catalog, false, log), fx.inventory, fx.catalog, log)

	return fx, NewFinalizer(fx.cart, fx.orders, stocker, opts, log, fx.metrics)
}

func (fx *checkoutFixture) fill(t *testing.T) {
	t.Helper()
	require.NoError(t, fx.cart.Add(Compose(burger(), []int{10, 8}, fx.cart.Surcharges())))
	require.NoError(t, fx.cart.Add(Compose(burger(), []int{11}, fx.cart.Surcharges())))
}

func TestFinalizer_EmptyCartIsNoop(t *testing.T) {
	fx, f := newCheckoutFixture(t, FinalizerOptions{EmployeeID: 3})

	receipt, err := f.Checkout(context.Background(), 0, "req")

	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutDraft, receipt.State)
	assert.Empty(t, fx.orders.created)
	assert.Zero(t, fx.inventory.decrements)
	assert.Zero(t, testutil.CollectAndCount(fx.metrics.Checkouts))
}

func TestFinalizer_CompletesAndClears(t *testing.T) {
	fx, f := newCheckoutFixture(t, FinalizerOptions{EmployeeID: 3})
	fx.fill(t)

	receipt, err := f.Checkout(context.Background(), 42, "req")

	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutCleared, receipt.State)

	require.Len(t, fx.orders.created, 1)
	cmd := fx.orders.created[0]
	assert.Equal(t, 42, cmd.CustomerID)
	assert.Equal(t, 3, cmd.EmployeeID)
	assert.Equal(t, []int{1, 1}, cmd.MenuItemIDs)
	assert.Equal(t, [][]int{{8, 10}, {11}}, cmd.FoodItemIDs)
	assert.True(t, cmd.Total.Equal(d("14.30")))
	assert.True(t, cmd.Tax.Equal(d("14.30").Mul(domain.DefaultTaxRate)))
	assert.False(t, cmd.OrderedAt.IsZero())

	assert.True(t, fx.inventory.qty[100].Equal(d("9")))
	assert.True(t, fx.inventory.qty[101].Equal(d("8")))
	assert.True(t, fx.inventory.qty[200].Equal(d("8")))
	assert.Len(t, receipt.Movements, 4)

	assert.Zero(t, fx.cart.Len())
	assert.Empty(t, fx.store.data)
	assert.Equal(t, 1.0, testutil.ToFloat64(fx.metrics.Checkouts.WithLabelValues("cleared")))
}

func TestFinalizer_ClearsWhenStoredCartCannotBeWiped(t *testing.T) {
	fx, f := newCheckoutFixture(t, FinalizerOptions{EmployeeID: 3})
	fx.fill(t)
	fx.store.deleteErr = assert.AnError

	receipt, err := f.Checkout(context.Background(), 0, "req")

	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutCleared, receipt.State)
	require.Len(t, fx.orders.created, 1)
	assert.Zero(t, fx.cart.Len())
	assert.True(t, fx.cart.Total().IsZero())
	assert.NotEmpty(t, fx.store.data)
}

func TestFinalizer_SubmitFailureKeepsCart(t *testing.T) {
	fx, f := newCheckoutFixture(t, FinalizerOptions{})
	fx.fill(t)
	fx.orders.err = assert.AnError

	receipt, err := f.Checkout(context.Background(), 0, "req")

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, domain.CheckoutFailed, receipt.State)
	assert.Zero(t, fx.inventory.decrements)
	assert.Equal(t, 2, fx.cart.Len())
}

func TestFinalizer_AbortCompensates(t *testing.T) {
	fx, f := newCheckoutFixture(t, FinalizerOptions{Policy: PolicyAbort, Compensate: true})
	fx.fill(t)
	fx.inventory.failOn[101] = true

	receipt, err := f.Checkout(context.Background(), 0, "req")

	assert.ErrorIs(t, err, errInventoryDown)
	assert.Equal(t, domain.CheckoutCompensated, receipt.State)
	assert.Equal(t, []int{1}, fx.orders.voided)

	assert.True(t, fx.inventory.qty[100].Equal(d("10")))
	assert.True(t, fx.inventory.qty[200].Equal(d("10")))
	assert.Equal(t, 2, fx.cart.Len())
	assert.Equal(t, float64(len(receipt.Movements)), testutil.ToFloat64(fx.metrics.CompensatedMoves))
}

func TestFinalizer_AbortWithoutCompensationLeavesDecrements(t *testing.T) {
	fx, f := newCheckoutFixture(t, FinalizerOptions{Policy: PolicyAbort})
	fx.fill(t)
	fx.inventory.failOn[101] = true

	receipt, err := f.Checkout(context.Background(), 0, "req")

	assert.Error(t, err)
	assert.Equal(t, domain.CheckoutFailed, receipt.State)
	assert.Empty(t, fx.orders.voided)
	assert.True(t, fx.inventory.qty[100].Equal(d("9")))
	assert.Equal(t, 2, fx.cart.Len())
}

func TestFinalizer_BestEffortClearsAndReports(t *testing.T) {
	fx, f := newCheckoutFixture(t, FinalizerOptions{Policy: PolicyBestEffort, Compensate: true})
	fx.fill(t)
	fx.inventory.failOn[101] = true

	receipt, err := f.Checkout(context.Background(), 0, "req")

	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutCleared, receipt.State)
	require.Len(t, receipt.Failures, 1)
	assert.Equal(t, 1, receipt.Failures[0].Index)
	assert.Empty(t, fx.orders.voided)
	assert.Zero(t, fx.cart.Len())
	assert.True(t, fx.inventory.qty[100].Equal(d("9")))
}

func TestReceipt_RejectsIllegalTransition(t *testing.T) {
	r := &Receipt{State: domain.CheckoutDraft}
	assert.ErrorIs(t, r.advance(domain.CheckoutCleared), domain.ErrInvalidTransition)
	assert.Equal(t, domain.CheckoutDraft, r.State)
}

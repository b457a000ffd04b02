package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	// api
	HTTPRequests        *prometheus.CounterVec
	OrdersCreated       prometheus.Counter
	OrdersVoided        prometheus.Counter
	InventoryDecrements prometheus.Counter
	InventoryShortfalls prometheus.Counter
	StockFlips          *prometheus.CounterVec
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter

	// kiosk
	Checkouts          *prometheus.CounterVec
	CheckoutLatencySec prometheus.Histogram
	CompensatedMoves   prometheus.Counter
	CartItems          prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "pos_http_requests_total"}, []string{"method", "code"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_orders_created_total"})
	ordersVoided := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_orders_voided_total"})
	decrements := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_inventory_decrements_total"})
	shortfalls := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_inventory_shortfalls_total"})
	stockFlips := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "pos_stock_flips_total"}, []string{"kind", "in_stock"})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_catalog_cache_hits_total"})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_catalog_cache_misses_total"})

	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "pos_checkouts_total"}, []string{"state"})
	checkoutLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_checkout_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})
	compensated := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_compensated_movements_total"})
	cartItems := prometheus.NewGauge(prometheus.GaugeOpts{Name: "pos_cart_items"})

	r.MustRegister(httpRequests, ordersCreated, ordersVoided, decrements, shortfalls, stockFlips,
		cacheHits, cacheMisses, checkouts, checkoutLatency, compensated, cartItems)

	return &Registry{
		reg:                 r,
		HTTPRequests:        httpRequests,
		OrdersCreated:       ordersCreated,
		OrdersVoided:        ordersVoided,
		InventoryDecrements: decrements,
		InventoryShortfalls: shortfalls,
		StockFlips:          stockFlips,
		CacheHits:           cacheHits,
		CacheMisses:         cacheMisses,
		Checkouts:           checkouts,
		CheckoutLatencySec:  checkoutLatency,
		CompensatedMoves:    compensated,
		CartItems:           cartItems,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

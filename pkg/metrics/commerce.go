package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// CommerceMetrics records the storefront counters worth alerting on.
type CommerceMetrics struct {
	mergesRun     *prometheus.CounterVec
	ordersPlaced  prometheus.Counter
	deductions    *prometheus.CounterVec
	bulkOutcomes  *prometheus.CounterVec
}

// NewCommerceMetrics registers the storefront metrics on the provided registerer.
func NewCommerceMetrics(reg prometheus.Registerer) *CommerceMetrics {
	if reg == nil {
		return &CommerceMetrics{}
	}
	mergesRun := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_merges_total",
		Help: "Sign-in cart/wishlist merges, by outcome.",
	}, []string{"outcome"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders successfully placed at checkout.",
	})
	deductions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_deductions_total",
		Help: "Stock deduction attempts, by outcome.",
	}, []string{"outcome"})
	bulkOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_bulk_order_updates_total",
		Help: "Per-order outcomes of admin bulk status changes.",
	}, []string{"outcome"})
	reg.MustRegister(mergesRun, ordersPlaced, deductions, bulkOutcomes)
	return &CommerceMetrics{
		mergesRun:    mergesRun,
		ordersPlaced: ordersPlaced,
		deductions:   deductions,
		bulkOutcomes: bulkOutcomes,
	}
}

// IncMerge counts one identity-merge run with the given outcome.
func (m *CommerceMetrics) IncMerge(outcome string) {
	if m == nil || m.mergesRun == nil {
		return
	}
	m.mergesRun.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncOrderPlaced counts one successful checkout.
func (m *CommerceMetrics) IncOrderPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// IncDeduction counts one stock-deduction attempt with the given outcome.
func (m *CommerceMetrics) IncDeduction(outcome string) {
	if m == nil || m.deductions == nil {
		return
	}
	m.deductions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncBulkOutcome counts one per-order result of a bulk admin update.
func (m *CommerceMetrics) IncBulkOutcome(outcome string) {
	if m == nil || m.bulkOutcomes == nil {
		return
	}
	m.bulkOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return strings.ReplaceAll(value, " ", "_")
}

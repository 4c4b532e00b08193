package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
)

// ShopMetrics records request latency and accounting outcomes.
type ShopMetrics struct {
	requestDuration *prometheus.HistogramVec
	orders          *prometheus.CounterVec
	ledgerEntries   *prometheus.CounterVec
	visits          prometheus.Counter
}

// NewShopMetrics registers the shop metrics on the provided registerer.
func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	if reg == nil {
		return &ShopMetrics{}
	}
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_orders_total",
		Help: "Order-keyed operations by outcome.",
	}, []string{"operation", "outcome"})
	ledgerEntries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_ledger_entries_total",
		Help: "Committed ledger entries.",
	}, []string{"category", "source"})
	visits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shop_customer_visits_total",
		Help: "Customers reported by visit callbacks.",
	})
	reg.MustRegister(requestDuration, orders, ledgerEntries, visits)
	return &ShopMetrics{
		requestDuration: requestDuration,
		orders:          orders,
		ledgerEntries:   ledgerEntries,
		visits:          visits,
	}
}

// ObserveRequest records one served request against its route pattern.
func (m *ShopMetrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil || m.requestDuration == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Observe(duration.Seconds())
}

// OrderProcessed counts the outcome of an order-keyed operation.
func (m *ShopMetrics) OrderProcessed(operation string, outcome enums.OrderOutcome) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome.String())).Inc()
}

// LedgerEntriesCommitted counts entries once their transaction has committed.
func (m *ShopMetrics) LedgerEntriesCommitted(entries []models.LedgerEntry) {
	if m == nil || m.ledgerEntries == nil {
		return
	}
	for _, entry := range entries {
		m.ledgerEntries.WithLabelValues(entry.Category.String(), entry.Source.String()).Inc()
	}
}

func (m *ShopMetrics) VisitsRecorded(count int) {
	if m == nil || m.visits == nil || count <= 0 {
		return
	}
	m.visits.Add(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

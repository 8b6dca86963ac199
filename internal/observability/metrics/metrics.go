package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentmanager_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentmanager_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentmanager_bill_generation_duration_seconds",
		Help:    "Duration of bulk bill generation runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind", "result"})

	billsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentmanager_bills_generated_total",
		Help: "Count of bills created by source",
	}, []string{"source"})

	billsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentmanager_bills_skipped_total",
		Help: "Count of rooms skipped during generation by reason",
	}, []string{"reason"})

	paymentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentmanager_payment_transitions_total",
		Help: "Count of bill payment state transitions",
	}, []string{"transition"})

	amountCollected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentmanager_amount_collected_total",
		Help: "Sum of confirmed payment amounts by method",
	}, []string{"method"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveGeneration records the duration of a generation run with a result label.
func ObserveGeneration(kind, result string, duration time.Duration) {
	generationDuration.WithLabelValues(kind, result).Observe(duration.Seconds())
}

// AddBillsGenerated counts bills created by one run.
func AddBillsGenerated(source string, n int) {
	if n <= 0 {
		return
	}
	billsGenerated.WithLabelValues(source).Add(float64(n))
}

// ObserveSkip counts a room skipped during generation.
func ObserveSkip(reason string) {
	billsSkipped.WithLabelValues(reason).Inc()
}

// ObservePaymentTransition counts a bill moving between payment states.
func ObservePaymentTransition(transition string) {
	paymentTransitions.WithLabelValues(transition).Inc()
}

// ObserveCollected adds a confirmed payment amount.
func ObserveCollected(method string, amount float64) {
	if amount <= 0 {
		return
	}
	amountCollected.WithLabelValues(method).Add(amount)
}

var (
	billsOutstanding = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rentmanager_bills_outstanding",
		Help: "Unpaid bills by effective status at the last receivables scan",
	}, []string{"status"})

	amountOutstanding = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rentmanager_amount_outstanding",
		Help: "Sum of unpaid bill totals by effective status at the last receivables scan",
	}, []string{"status"})

	lockBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentmanager_lock_breaker_state",
		Help: "State of the generation lock circuit breaker (0=closed, 1=open, 2=half-open)",
	})
)

// SetOutstanding publishes the receivables snapshot for one effective status.
func SetOutstanding(status string, count int, amount float64) {
	billsOutstanding.WithLabelValues(status).Set(float64(count))
	amountOutstanding.WithLabelValues(status).Set(amount)
}

// SetLockBreakerState records a circuit breaker transition.
func SetLockBreakerState(state int) {
	lockBreakerState.Set(float64(state))
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the pricing preview handler
	PreviewLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bundle_preview_latency_seconds",
		Help:    "Latency of bundle pricing previews",
		Buckets: prometheus.DefBuckets,
	})

	// Pricing previews served, by applied tier discount
	PreviewRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bundle_preview_requests_total",
		Help: "Total number of bundle pricing previews",
	}, []string{"discount"})

	CouponsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bundle_coupons_created_total",
		Help: "Synthetic bundle coupons created",
	})

	// Reconciliation outcomes per hook: applied, present, none, missing
	Reconciliations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bundle_reconciliations_total",
		Help: "Session discount reconciliations by hook and outcome",
	}, []string{"hook", "outcome"})

	JanitorCoupons = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bundle_janitor_coupons_total",
		Help: "Coupons visited by the janitor sweep by result",
	}, []string{"result"})
)

func Init() {
	prometheus.MustRegister(
		PreviewLatency,
		PreviewRequests,
		CouponsCreated,
		Reconciliations,
		JanitorCoupons,
	)
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Latency of every HTTP request, by route and status
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// Loan applications submitted
	ApplicationsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loan_applications_submitted_total",
		Help: "Total number of loan applications submitted",
	})

	// Review decisions by outcome
	ApplicationDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loan_application_decisions_total",
		Help: "Total number of loan application decisions",
	}, []string{"status"})

	// Document verifications by kind and outcome
	DocumentVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_verifications_total",
		Help: "Total number of document verifications",
	}, []string{"kind", "status"})

	// Payments recorded by cashiers
	PaymentsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_recorded_total",
		Help: "Total number of payments recorded",
	})

	// Notification events that could not be published
	NotificationPublishFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_publish_failures_total",
		Help: "Total number of notification events that failed to publish",
	})
)

var once sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestDuration,
			ApplicationsSubmitted,
			ApplicationDecisions,
			DocumentVerifications,
			PaymentsRecorded,
			NotificationPublishFailures,
		)
	})
}

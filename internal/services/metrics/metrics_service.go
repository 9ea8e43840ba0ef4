package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Service provides Prometheus metrics for the payment gateway service
type Service struct {
	// Business Metrics
	paymentsCreatedTotal    prometheus.Counter
	callbacksProcessedTotal *prometheus.CounterVec
	callbackReplaysTotal    prometheus.Counter

	// Latency Metrics
	requestDuration *prometheus.HistogramVec

	// HTTP Metrics
	requestsTotal *prometheus.CounterVec

	// Signature Metrics
	signatureGenerationsTotal   prometheus.Counter
	signatureVerificationsTotal *prometheus.CounterVec
}

// NewService creates a new metrics service
func NewService() *Service {
	return &Service{
		paymentsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gpwebpay_payments_created_total",
				Help: "Total number of payment orders created",
			},
		),
		callbacksProcessedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpwebpay_callbacks_processed_total",
				Help: "Total number of gateway callbacks processed by outcome and reason",
			},
			[]string{"outcome", "reason"},
		),
		callbackReplaysTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gpwebpay_callback_replays_total",
				Help: "Total number of replayed callbacks resolved from the processed-callback store",
			},
		),
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gpwebpay_request_duration_seconds",
				Help:    "Request processing time in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "status"},
		),
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpwebpay_requests_total",
				Help: "Total number of HTTP requests by endpoint, method, status",
			},
			[]string{"endpoint", "method", "status"},
		),
		signatureGenerationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gpwebpay_signature_generations_total",
				Help: "Total number of outbound digests signed",
			},
		),
		signatureVerificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpwebpay_signature_verifications_total",
				Help: "Total number of callback signature verifications by result",
			},
			[]string{"result"},
		),
	}
}

// RecordPaymentCreated increments the created-payments counter.
func (s *Service) RecordPaymentCreated() {
	s.paymentsCreatedTotal.Inc()
}

// RecordCallbackProcessed counts a processed callback by outcome and
// rejection reason ("" for accepted).
func (s *Service) RecordCallbackProcessed(outcome, reason string) {
	s.callbacksProcessedTotal.WithLabelValues(outcome, reason).Inc()
}

// RecordCallbackReplay counts a replayed callback answered from the
// processed-callback store.
func (s *Service) RecordCallbackReplay() {
	s.callbackReplaysTotal.Inc()
}

// RecordRequest counts an HTTP request.
func (s *Service) RecordRequest(endpoint, method, status string) {
	s.requestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

// RecordRequestDuration observes request processing time.
func (s *Service) RecordRequestDuration(endpoint, status string, duration time.Duration) {
	s.requestDuration.WithLabelValues(endpoint, status).Observe(duration.Seconds())
}

// RecordSignatureGeneration counts an outbound digest signature.
func (s *Service) RecordSignatureGeneration() {
	s.signatureGenerationsTotal.Inc()
}

// RecordSignatureVerification counts a callback verification result.
func (s *Service) RecordSignatureVerification(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	s.signatureVerificationsTotal.WithLabelValues(result).Inc()
}

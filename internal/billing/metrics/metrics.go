package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons for payload ingestion, used as label values.
const (
	ReasonEmptyPayload     = "empty_payload"
	ReasonEmptySignature   = "empty_signature"
	ReasonBadSignature     = "bad_signature"
	ReasonUnknownNonce     = "unknown_nonce"
	ReasonMalformedPayload = "malformed_payload"
)

// Metrics holds the Prometheus metrics for the billing pipeline.
type Metrics struct {
	PayloadsVerified   prometheus.Counter
	PayloadsRejected   *prometheus.CounterVec
	TransactionsStored prometheus.Counter
	ConfirmationsSent  prometheus.Counter
}

// New creates and registers all billing metrics.
func New() *Metrics {
	return &Metrics{
		PayloadsVerified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "entitle_payloads_verified_total",
			Help: "Signed notification payloads that passed the signature and nonce gates",
		}),
		PayloadsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "entitle_payloads_rejected_total",
			Help: "Signed notification payloads dropped before the ledger, by reason",
		}, []string{"reason"}),
		TransactionsStored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "entitle_transactions_stored_total",
			Help: "Transactions written to the ledger",
		}),
		ConfirmationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "entitle_confirmations_sent_total",
			Help: "Notification ids confirmed back to the storefront",
		}),
	}
}

// IncRejected counts one dropped payload for the given reason.
func (m *Metrics) IncRejected(reason string) {
	if m == nil {
		return
	}
	m.PayloadsRejected.WithLabelValues(reason).Inc()
}

// IncVerified counts one payload that passed verification.
func (m *Metrics) IncVerified() {
	if m == nil {
		return
	}
	m.PayloadsVerified.Inc()
}

// IncStored counts one ledger write.
func (m *Metrics) IncStored() {
	if m == nil {
		return
	}
	m.TransactionsStored.Inc()
}

// AddConfirmations counts notification ids confirmed to the storefront.
func (m *Metrics) AddConfirmations(n int) {
	if m == nil {
		return
	}
	m.ConfirmationsSent.Add(float64(n))
}

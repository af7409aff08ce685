package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// IssuanceMetrics records license issuance outcomes. All methods are safe on
// a nil receiver so the CLI can run without a registry.
type IssuanceMetrics struct {
	issued        prometheus.Counter
	failures      *prometheus.CounterVec
	emailsSent    prometheus.Counter
	emailFailures prometheus.Counter
	emailsSkipped prometheus.Counter
}

// NewIssuanceMetrics registers the issuance metrics on the provided registerer.
func NewIssuanceMetrics(reg prometheus.Registerer) *IssuanceMetrics {
	if reg == nil {
		return &IssuanceMetrics{}
	}
	issued := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "licenses_issued_total",
		Help: "Licenses successfully persisted to the store.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "license_issuance_failures_total",
		Help: "Issuance attempts that did not produce a license.",
	}, []string{"reason"})
	emailsSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "license_emails_sent_total",
		Help: "License key emails accepted by the provider.",
	})
	emailFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "license_email_failures_total",
		Help: "License key emails the provider rejected or that failed in transit.",
	})
	emailsSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "license_emails_skipped_total",
		Help: "Issued licenses whose email was skipped for lack of a provider credential.",
	})
	reg.MustRegister(issued, failures, emailsSent, emailFailures, emailsSkipped)
	return &IssuanceMetrics{
		issued:        issued,
		failures:      failures,
		emailsSent:    emailsSent,
		emailFailures: emailFailures,
		emailsSkipped: emailsSkipped,
	}
}

// IncIssued increments the issued-license counter.
func (m *IssuanceMetrics) IncIssued() {
	if m == nil || m.issued == nil {
		return
	}
	m.issued.Inc()
}

// IncFailure increments the failure counter for the given reason.
func (m *IssuanceMetrics) IncFailure(reason string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncEmailSent increments the sent-email counter.
func (m *IssuanceMetrics) IncEmailSent() {
	if m == nil || m.emailsSent == nil {
		return
	}
	m.emailsSent.Inc()
}

// IncEmailFailure increments the failed-email counter.
func (m *IssuanceMetrics) IncEmailFailure() {
	if m == nil || m.emailFailures == nil {
		return
	}
	m.emailFailures.Inc()
}

// IncEmailSkipped increments the skipped-email counter.
func (m *IssuanceMetrics) IncEmailSkipped() {
	if m == nil || m.emailsSkipped == nil {
		return
	}
	m.emailsSkipped.Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}

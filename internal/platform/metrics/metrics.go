package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the case API. Counters are
// split by outcome so dashboards can separate committed mutations from the
// side effects that failed around them.
type Metrics struct {
	EventsStarted   *prometheus.CounterVec
	EventsSubmitted *prometheus.CounterVec
	EventConflicts  prometheus.Counter

	DocumentsUploaded      prometheus.Counter
	DocumentUploadFailures prometheus.Counter

	EmailsSent    *prometheus.CounterVec
	EmailFailures *prometheus.CounterVec
	BreakerOpened prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		EventsStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "et_case_api_events_started_total",
			Help: "Case store start-event calls by event name.",
		}, []string{"event"}),
		EventsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "et_case_api_events_submitted_total",
			Help: "Case store submit-event calls that committed, by event name.",
		}, []string{"event"}),
		EventConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "et_case_api_event_conflicts_total",
			Help: "Submit-event calls rejected for a stale event token.",
		}),
		DocumentsUploaded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "et_case_api_documents_uploaded_total",
			Help: "Documents stored in the case document store.",
		}),
		DocumentUploadFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "et_case_api_document_upload_failures_total",
			Help: "Document generation or upload failures that were swallowed.",
		}),
		EmailsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "et_case_api_emails_sent_total",
			Help: "Notification emails dispatched, by recipient kind.",
		}, []string{"recipient"}),
		EmailFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "et_case_api_email_failures_total",
			Help: "Notification emails that failed to dispatch, by recipient kind.",
		}, []string{"recipient"}),
		BreakerOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "et_case_api_notify_breaker_opened_total",
			Help: "Times the notification gateway circuit breaker opened.",
		}),
	}
}

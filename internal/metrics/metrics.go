package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	AuthRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized or forbidden requests",
		},
		[]string{"reason"},
	)
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)

	PaymentsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_payments_submitted_total",
			Help: "Payments submitted for approval",
		},
		[]string{"method"},
	)
	PaymentDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_payment_decisions_total",
			Help: "Pending payments moved to a terminal status",
		},
		[]string{"status"},
	)
	MembershipsGranted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_memberships_granted_total",
			Help: "Memberships created by renewals, by policy",
		},
		[]string{"policy"},
	)
	MembershipStatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_membership_status_changes_total",
			Help: "Membership rows whose status was reclassified",
		},
		[]string{"source"},
	)
	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_emails_sent_total",
			Help: "Outbound emails by template and result",
		},
		[]string{"template", "result"},
	)
)

var registerOnce sync.Once

// Register adds every collector to reg once per process. A nil reg means the default registry.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AuthRejections,
			RateLimited,
			PaymentsSubmitted,
			PaymentDecisions,
			MembershipsGranted,
			MembershipStatusChanges,
			EmailsSent,
		)
	})
}

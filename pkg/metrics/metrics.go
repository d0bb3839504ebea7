package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "teacherdesk", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "teacherdesk", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	Registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "teacherdesk", Name: "teacher_registrations_total", Help: "Teacher registration attempts by outcome."},
		[]string{"outcome"},
	)
	SignIns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "teacherdesk", Name: "teacher_signins_total", Help: "Teacher sign-in attempts by outcome."},
		[]string{"outcome"},
	)
	AdminLogins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "teacherdesk", Name: "admin_logins_total", Help: "Admin authentication attempts by outcome."},
		[]string{"outcome"},
	)
)

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(Registrations)
	reg.MustRegister(SignIns)
	reg.MustRegister(AdminLogins)
}

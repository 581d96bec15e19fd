// Package metrics defines and registers all custom Prometheus metrics for
// the Daily Kharcha web application. It is the single source of truth for
// metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kharcha"

// RegistrationsTotal counts registration attempts that reached the identity
// provider.
// Label:
//   - result: "created", "exists", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts that reached the identity provider.
// Label:
//   - result: "success", "rejected", "throttled", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ValidationFailuresTotal counts form submissions rejected before any
// external call.
// Labels:
//   - form: "login" or "register"
//   - code: validation issue code (e.g. "missing_fields", "invalid_email")
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of form validation failures, by form and issue code.",
	},
	[]string{"form", "code"},
)

// ActiveSessionsTotal counts session lifecycle events.
// Label:
//   - event: "created" or "cleared"
var ActiveSessionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_total",
		Help:      "Total number of session creations and clears.",
	},
	[]string{"event"},
)

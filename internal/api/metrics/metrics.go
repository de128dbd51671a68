// Package metrics defines all custom Prometheus metrics for the Kafe Bilyar
// API. It is the single source of truth for metric names, labels, and help
// strings. Metrics register with the default registry at import time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kafebilyar"

// LoginsTotal counts login attempts by outcome.
// Labels:
//   - principal: "customer" or "admin"
//   - outcome: "success", "invalid_credentials", "inactive", "throttled", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by principal type and outcome.",
	},
	[]string{"principal", "outcome"},
)

// RegistrationsTotal counts customer registration attempts.
// Label:
//   - outcome: "success", "email_taken", "invalid", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of customer registration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// TokensIssuedTotal counts successfully issued access tokens.
// Label:
//   - principal: "customer" or "admin"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens issued, by principal type.",
	},
	[]string{"principal"},
)

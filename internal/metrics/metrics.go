// Package metrics exposes Prometheus counters for the share workflow and
// the key lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ShareAttempts counts share actions by outcome ("ready", "failed").
	ShareAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cipherdoc",
		Name:      "share_attempts_total",
		Help:      "Share actions by outcome.",
	}, []string{"outcome"})

	// KeyExpiries counts partial documents destroyed by key expiry.
	KeyExpiries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cipherdoc",
		Name:      "key_expiries_total",
		Help:      "Partial documents destroyed by key expiry.",
	})

	// ArtifactsDestroyed counts partial documents destroyed for any reason.
	ArtifactsDestroyed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cipherdoc",
		Name:      "artifacts_destroyed_total",
		Help:      "Partial documents destroyed (expiry, close or replace).",
	})
)

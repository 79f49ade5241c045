// Package metrics defines the Prometheus collectors for group operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operations counts group operations by name and outcome ("ok" or the
	// failure kind).
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tandapay_operations_total",
		Help: "Group operations by name and outcome.",
	}, []string{"op", "outcome"})

	// PooledFunds tracks the escrowed balance per group.
	PooledFunds = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tandapay_pooled_funds",
		Help: "Escrowed pool balance per group, in base units.",
	}, []string{"group_id"})

	// ClaimPayouts sums approved claim payouts per group.
	ClaimPayouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tandapay_claim_payouts_total",
		Help: "Total approved claim payout value per group, in base units.",
	}, []string{"group_id"})
)

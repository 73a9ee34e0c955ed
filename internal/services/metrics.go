package loyalty

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// метрики движка

var (
	coinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_coins_total",
			Help: "Coins booked to wallets by transaction type",
		},
		[]string{"type"},
	)

	ledgerConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loyalty_ledger_conflicts_total",
			Help: "Wallet mutations that lost a concurrent race",
		},
	)

	couponValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_coupon_validations_total",
			Help: "Coupon validations by outcome",
		},
		[]string{"result"},
	)
)

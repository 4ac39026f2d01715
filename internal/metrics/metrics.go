package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_payments_settled_total",
		Help: "Jobs paid successfully.",
	})
	PaymentsDeclined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_payments_declined_total",
		Help: "Payment attempts that were declined or failed.",
	})
	DepositsAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_deposits_admitted_total",
		Help: "Deposits that passed the ceiling check and committed.",
	})
	DepositsDeclined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_deposits_declined_total",
		Help: "Deposits rejected by validation, the ceiling, or the store.",
	})
)

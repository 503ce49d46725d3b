package usecases

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "satschat_transfers_total",
		Help: "Internal transfers by outcome",
	}, []string{"outcome"}) // completed, failed, rejected

	transferredSats = promauto.NewCounter(prometheus.CounterOpts{
		Name: "satschat_transferred_sats_total",
		Help: "Total sats moved by completed internal transfers",
	})

	requestTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "satschat_payment_request_transitions_total",
		Help: "Payment request state transitions by target status",
	}, []string{"status"})
)

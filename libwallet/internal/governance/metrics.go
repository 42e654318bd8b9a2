package governance

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	refreshes           prometheus.Counter
	refreshFailures     prometheus.Counter
	stateLookupFailures prometheus.Counter
	votesCast           *prometheus.CounterVec
	delegations         prometheus.Counter
	txFailures          *prometheus.CounterVec
	lastSynced          prometheus.Gauge
}

func newMetrics(namespace string, registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Total number of proposal refresh cycles started",
		}),
		refreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_failures_total",
			Help:      "Total number of refresh cycles whose proposal listing failed",
		}),
		stateLookupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_lookup_failures_total",
			Help:      "Total number of per-proposal state lookups that fell back to the listed state",
		}),
		votesCast: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "votes_cast_total",
				Help:      "Total number of mined vote transactions",
			},
			[]string{"choice"},
		),
		delegations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delegations_total",
			Help:      "Total number of mined delegate transactions",
		}),
		txFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tx_failures_total",
				Help:      "Total number of failed write transactions",
			},
			[]string{"method"},
		),
		lastSynced: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_synced_timestamp_seconds",
			Help:      "Unix time of the last completed refresh",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.refreshes,
		m.refreshFailures,
		m.stateLookupFailures,
		m.votesCast,
		m.delegations,
		m.txFailures,
		m.lastSynced,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

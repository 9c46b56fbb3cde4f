package steam

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var upstreamRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "steam_upstream_requests_total",
		Help: "Steam Community requests by endpoint and classified outcome.",
	},
	[]string{"endpoint", "outcome"},
)

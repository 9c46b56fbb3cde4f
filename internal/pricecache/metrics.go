package pricecache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var cacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "price_cache_lookups_total",
		Help: "Price cache lookups by result.",
	},
	[]string{"result"},
)

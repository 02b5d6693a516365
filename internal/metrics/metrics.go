// Package metrics exposes the resolver's validate/backtrack activity as
// prometheus counters, following the CounterVec/Counter split the
// retrieval pack's controller metrics use: one vec for outcomes keyed by
// label, plain counters for totals nothing needs to be sliced by. The
// catalog cache hit/miss counters are registered, but no code in this
// module increments them, so they stay at zero.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrhid6/SatisfactoryModLauncherAPI/resolver"
)

var (
	ValidateAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "smlctl_resolver_validate_attempts_total",
			Help: "Total number of candidate versions trialled during dependency resolution",
		},
	)

	BacktracksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smlctl_resolver_backtracks_total",
			Help: "Total number of candidate versions rejected during dependency resolution",
		},
		[]string{"dep_id"},
	)

	CandidatesAcceptedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smlctl_resolver_candidates_accepted_total",
			Help: "Total number of candidate versions accepted into the resolution graph",
		},
		[]string{"dep_id"},
	)

	CatalogCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "smlctl_catalog_cache_hits_total",
			Help: "Total number of catalog requests served from the memoization cache",
		},
	)

	CatalogCacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "smlctl_catalog_cache_misses_total",
			Help: "Total number of catalog requests that missed the memoization cache",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ValidateAttemptsTotal,
		BacktracksTotal,
		CandidatesAcceptedTotal,
		CatalogCacheHitsTotal,
		CatalogCacheMissesTotal,
	)
}

// Diagnostics adapts the package's counters to resolver.Diagnostics, so a
// Resolver can report into prometheus without the core package importing
// it directly.
type Diagnostics struct{}

func (Diagnostics) OnBacktrack(depID, rejectedVersion string) {
	ValidateAttemptsTotal.Inc()
	BacktracksTotal.WithLabelValues(depID).Inc()
}

func (Diagnostics) OnCandidateAccepted(depID, version string) {
	ValidateAttemptsTotal.Inc()
	CandidatesAcceptedTotal.WithLabelValues(depID).Inc()
}

var _ resolver.Diagnostics = Diagnostics{}

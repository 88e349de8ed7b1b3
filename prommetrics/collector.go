// Package prommetrics exports quadbuckets metrics to Prometheus.
package prommetrics

import (
	"strconv"
	"time"

	"github.com/bmharper/quadbuckets-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindLabel   = "kind"
	resultLabel = "result"
	depthLabel  = "depth"

	// DefaultKind labels metrics of a QuadBuckets that is not part of a PrimitiveStore.
	DefaultKind = "any"
)

type vecs struct {
	adds          *prometheus.CounterVec
	removes       *prometheus.CounterVec
	searchLatency *prometheus.HistogramVec
	searchResults *prometheus.CounterVec
	splits        *prometheus.CounterVec
}

// Collector implements quadbuckets.MetricsCollector and quadbuckets.KindCollector.
type Collector struct {
	v    *vecs
	kind string
}

// New registers the metrics with reg. A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	v := &vecs{
		adds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quadbuckets_adds_total",
			Help:      "The number of add calls, by whether the member was new.",
		}, []string{kindLabel, resultLabel}),

		removes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quadbuckets_removes_total",
			Help:      "The number of remove calls, by whether the member was found.",
		}, []string{kindLabel, resultLabel}),

		searchLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quadbuckets_search_latency_seconds",
			Help:      "The time to run a bbox search.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{kindLabel}),

		searchResults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quadbuckets_search_results_total",
			Help:      "The number of members returned by bbox searches.",
		}, []string{kindLabel}),

		splits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quadbuckets_splits_total",
			Help:      "The number of node splits, by depth of the split node.",
		}, []string{kindLabel, depthLabel}),
	}
	return &Collector{v: v, kind: DefaultKind}
}

// ForKind returns a collector sharing the same metrics, labelled with kind.
func (c *Collector) ForKind(kind string) quadbuckets.MetricsCollector {
	return &Collector{v: c.v, kind: kind}
}

func (c *Collector) RecordAdd(added bool) {
	result := "added"
	if !added {
		result = "duplicate"
	}
	c.v.adds.With(prometheus.Labels{
		kindLabel:   c.kind,
		resultLabel: result,
	}).Inc()
}

func (c *Collector) RecordRemove(found bool) {
	result := "removed"
	if !found {
		result = "not_found"
	}
	c.v.removes.With(prometheus.Labels{
		kindLabel:   c.kind,
		resultLabel: result,
	}).Inc()
}

func (c *Collector) RecordSearch(results int, duration time.Duration) {
	c.v.searchLatency.With(prometheus.Labels{
		kindLabel: c.kind,
	}).Observe(duration.Seconds())
	c.v.searchResults.With(prometheus.Labels{
		kindLabel: c.kind,
	}).Add(float64(results))
}

func (c *Collector) RecordSplit(depth int) {
	c.v.splits.With(prometheus.Labels{
		kindLabel:  c.kind,
		depthLabel: strconv.Itoa(depth),
	}).Inc()
}

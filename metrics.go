package quadbuckets

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics from a QuadBuckets.
// See the prommetrics package for a Prometheus implementation.
type MetricsCollector interface {
	// RecordAdd is called after each add. added is false for duplicates.
	RecordAdd(added bool)

	// RecordRemove is called after each remove. found is false for non-members.
	RecordRemove(found bool)

	// RecordSearch is called after each bbox search.
	RecordSearch(results int, duration time.Duration)

	// RecordSplit is called when a node at the given depth subdivides.
	RecordSplit(depth int)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(bool)                  {}
func (NoopMetricsCollector) RecordRemove(bool)               {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration) {}
func (NoopMetricsCollector) RecordSplit(int)                 {}

// BasicMetricsCollector keeps simple in-memory counters.
type BasicMetricsCollector struct {
	Adds          atomic.Int64
	DuplicateAdds atomic.Int64
	Removes       atomic.Int64
	MissedRemoves atomic.Int64
	Searches      atomic.Int64
	SearchResults atomic.Int64
	SearchNanos   atomic.Int64
	Splits        atomic.Int64
	DeepestSplit  atomic.Int64
}

func (b *BasicMetricsCollector) RecordAdd(added bool) {
	if added {
		b.Adds.Add(1)
	} else {
		b.DuplicateAdds.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordRemove(found bool) {
	if found {
		b.Removes.Add(1)
	} else {
		b.MissedRemoves.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordSearch(results int, duration time.Duration) {
	b.Searches.Add(1)
	b.SearchResults.Add(int64(results))
	b.SearchNanos.Add(duration.Nanoseconds())
}

func (b *BasicMetricsCollector) RecordSplit(depth int) {
	b.Splits.Add(1)
	for {
		cur := b.DeepestSplit.Load()
		if int64(depth) <= cur || b.DeepestSplit.CompareAndSwap(cur, int64(depth)) {
			return
		}
	}
}

// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Client metrics.
	MetricGets    = "blobkv_gets_total"
	MetricPuts    = "blobkv_puts_total"
	MetricDeletes = "blobkv_deletes_total"
	MetricCopies  = "blobkv_copies_total"

	// Caching store metrics.
	MetricCacheHits          = "blobkv_cache_hits_total"
	MetricCacheMisses        = "blobkv_cache_misses_total"
	MetricCacheBypasses      = "blobkv_cache_bypasses_total"
	MetricCacheInvalidations = "blobkv_cache_invalidations_total"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}

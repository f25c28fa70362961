// Package telemetry provides lightweight in-process metrics and an event
// hub for the navigation engine. Instruments are nil-safe: methods on a
// nil Counter, Gauge, or Histogram are no-ops, so callers can hold
// unregistered metrics without guarding every call site.
package telemetry

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"
	"time"
)

// MetricType identifies the kind of metric.
type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
)

// Metric is the common interface for all metric types.
type Metric interface {
	Name() string
	Type() MetricType
	String() string
}

// Labels represents a set of dimensional labels for metrics.
type Labels map[string]string

// String returns a canonical representation of labels, sorted by key.
func (l Labels) String() string {
	if len(l) == 0 {
		return ""
	}
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := ""
	for i, k := range keys {
		if i > 0 {
			result += ","
		}
		result += fmt.Sprintf("%s=%s", k, l[k])
	}
	return result
}

// Counter is a monotonically increasing metric.
type Counter struct {
	name   string
	labels Labels
	value  atomic.Int64
}

// NewCounter creates a counter with the given name and labels.
func NewCounter(name string, labels Labels) *Counter {
	if labels == nil {
		labels = Labels{}
	}
	return &Counter{
		name:   name,
		labels: labels,
	}
}

// Name returns the metric name.
func (c *Counter) Name() string {
	return c.name
}

// Type returns the metric type.
func (c *Counter) Type() MetricType {
	return MetricTypeCounter
}

// Labels returns the metric labels.
func (c *Counter) Labels() Labels {
	return c.labels
}

// Inc increments the counter by 1.
func (c *Counter) Inc() {
	if c == nil {
		return
	}
	c.value.Add(1)
}

// Add adds the given value to the counter. Negative deltas are ignored.
func (c *Counter) Add(delta int64) {
	if c == nil {
		return
	}
	if delta < 0 {
		return
	}
	c.value.Add(delta)
}

// Get returns the current value.
func (c *Counter) Get() int64 {
	if c == nil {
		return 0
	}
	return c.value.Load()
}

// String returns a human-readable representation.
func (c *Counter) String() string {
	if c == nil {
		return "Counter<nil>"
	}
	return fmt.Sprintf("Counter{name=%s, labels=%s, value=%d}", c.name, c.labels.String(), c.Get())
}

// MarshalJSON implements json.Marshaler.
func (c *Counter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"name":   c.name,
		"type":   c.Type(),
		"labels": c.labels,
		"value":  c.Get(),
	})
}

// Gauge is a metric that can go up and down.
type Gauge struct {
	name   string
	labels Labels
	value  atomic.Int64
}

// NewGauge creates a gauge with the given name and labels.
func NewGauge(name string, labels Labels) *Gauge {
	if labels == nil {
		labels = Labels{}
	}
	return &Gauge{
		name:   name,
		labels: labels,
	}
}

// Name returns the metric name.
func (g *Gauge) Name() string {
	return g.name
}

// Type returns the metric type.
func (g *Gauge) Type() MetricType {
	return MetricTypeGauge
}

// Labels returns the metric labels.
func (g *Gauge) Labels() Labels {
	return g.labels
}

// Set sets the gauge to the given value.
func (g *Gauge) Set(value int64) {
	if g == nil {
		return
	}
	g.value.Store(value)
}

// Inc increments the gauge by 1.
func (g *Gauge) Inc() {
	if g == nil {
		return
	}
	g.value.Add(1)
}

// Dec decrements the gauge by 1.
func (g *Gauge) Dec() {
	if g == nil {
		return
	}
	g.value.Add(-1)
}

// Add adds the given value to the gauge.
func (g *Gauge) Add(delta int64) {
	if g == nil {
		return
	}
	g.value.Add(delta)
}

// Get returns the current value.
func (g *Gauge) Get() int64 {
	if g == nil {
		return 0
	}
	return g.value.Load()
}

// String returns a human-readable representation.
func (g *Gauge) String() string {
	if g == nil {
		return "Gauge<nil>"
	}
	return fmt.Sprintf("Gauge{name=%s, labels=%s, value=%d}", g.name, g.labels.String(), g.Get())
}

// MarshalJSON implements json.Marshaler.
func (g *Gauge) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"name":   g.name,
		"type":   g.Type(),
		"labels": g.labels,
		"value":  g.Get(),
	})
}

// DefaultHistogramBuckets are the default latency buckets in seconds.
// They run from 1ms to 10s.
var DefaultHistogramBuckets = []float64{
	0.001,
	0.005,
	0.01,
	0.025,
	0.05,
	0.1,
	0.25,
	0.5,
	1.0,
	2.5,
	5.0,
	10.0,
}

// SizeBuckets are buckets for count distributions such as mutation batch
// sizes, where observations are small positive integers.
var SizeBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250}

// Histogram is a metric that samples observations and counts them in buckets.
type Histogram struct {
	name    string
	labels  Labels
	buckets []float64
	counts  []atomic.Int64
	sum     atomic.Int64
	count   atomic.Int64
}

// NewHistogram creates a histogram with the given name, labels, and buckets.
// If buckets is nil, DefaultHistogramBuckets is used.
func NewHistogram(name string, labels Labels, buckets []float64) *Histogram {
	if labels == nil {
		labels = Labels{}
	}
	if buckets == nil {
		buckets = DefaultHistogramBuckets
	}
	h := &Histogram{
		name:    name,
		labels:  labels,
		buckets: buckets,
		counts:  make([]atomic.Int64, len(buckets)+1), // +1 for +Inf bucket
	}
	return h
}

// Name returns the metric name.
func (h *Histogram) Name() string {
	return h.name
}

// Type returns the metric type.
func (h *Histogram) Type() MetricType {
	return MetricTypeHistogram
}

// Labels returns the metric labels.
func (h *Histogram) Labels() Labels {
	return h.labels
}

// Observe records a value in the histogram. Negative values are clamped
// to zero.
func (h *Histogram) Observe(value float64) {
	if h == nil {
		return
	}
	if value < 0 {
		value = 0
	}

	for i, bucket := range h.buckets {
		if value <= bucket {
			h.counts[i].Add(1)
			break
		}
		if i == len(h.buckets)-1 {
			h.counts[len(h.buckets)].Add(1)
		}
	}

	// Sum is stored as nanoseconds so it fits an atomic int64.
	h.sum.Add(int64(value * 1e9))
	h.count.Add(1)
}

// ObserveDuration records a duration observation in seconds.
func (h *Histogram) ObserveDuration(duration time.Duration) {
	if h == nil {
		return
	}
	h.Observe(duration.Seconds())
}

// GetCount returns the total number of observations.
func (h *Histogram) GetCount() int64 {
	if h == nil {
		return 0
	}
	return h.count.Load()
}

// GetSum returns the sum of all observed values.
func (h *Histogram) GetSum() float64 {
	if h == nil {
		return 0
	}
	return float64(h.sum.Load()) / 1e9
}

// GetBuckets returns the bucket counts, including the trailing +Inf bucket.
func (h *Histogram) GetBuckets() []int64 {
	if h == nil {
		return nil
	}
	result := make([]int64, len(h.counts))
	for i := range h.counts {
		result[i] = h.counts[i].Load()
	}
	return result
}

// Percentile returns the estimated value at the given percentile (0-1).
// Returns 0 if no observations have been recorded.
func (h *Histogram) Percentile(p float64) float64 {
	if h == nil || p < 0 || p > 1 {
		return 0
	}

	count := h.GetCount()
	if count == 0 {
		return 0
	}

	target := int64(float64(count) * p)
	if target == 0 {
		target = 1
	}

	cumulative := int64(0)
	for i := range h.buckets {
		cumulative += h.counts[i].Load()
		if cumulative >= target {
			return h.buckets[i]
		}
	}

	if len(h.buckets) > 0 {
		return h.buckets[len(h.buckets)-1]
	}
	return 0
}

// P50 returns the 50th percentile (median).
func (h *Histogram) P50() float64 {
	return h.Percentile(0.5)
}

// P90 returns the 90th percentile.
func (h *Histogram) P90() float64 {
	return h.Percentile(0.9)
}

// P99 returns the 99th percentile.
func (h *Histogram) P99() float64 {
	return h.Percentile(0.99)
}

// String returns a human-readable representation.
func (h *Histogram) String() string {
	if h == nil {
		return "Histogram<nil>"
	}
	return fmt.Sprintf("Histogram{name=%s, labels=%s, count=%d, sum=%.3f, p50=%.3f, p90=%.3f, p99=%.3f}",
		h.name, h.labels.String(), h.GetCount(), h.GetSum(), h.P50(), h.P90(), h.P99())
}

// MarshalJSON implements json.Marshaler.
func (h *Histogram) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"name":    h.name,
		"type":    h.Type(),
		"labels":  h.labels,
		"count":   h.GetCount(),
		"sum":     h.GetSum(),
		"buckets": h.GetBuckets(),
		"p50":     h.P50(),
		"p90":     h.P90(),
		"p99":     h.P99(),
	})
}

package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Registry manages all metrics.
type Registry struct {
	mu         sync.RWMutex
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
}

// NewRegistry creates a new metric registry.
func NewRegistry() *Registry {
	return &Registry{
		counters:   make(map[string]*Counter),
		gauges:     make(map[string]*Gauge),
		histograms: make(map[string]*Histogram),
	}
}

// makeKey creates a unique key for a metric with labels.
func makeKey(name string, labels Labels) string {
	if len(labels) == 0 {
		return name
	}
	return name + "{" + labels.String() + "}"
}

// RegisterCounter registers a counter metric. Registering the same name
// and labels again returns the existing counter. On a nil registry an
// unregistered counter is returned.
func (r *Registry) RegisterCounter(name string, labels Labels) *Counter {
	if r == nil {
		return NewCounter(name, labels)
	}
	key := makeKey(name, labels)
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.counters[key]; ok {
		return c
	}
	c := NewCounter(name, labels)
	r.counters[key] = c
	return c
}

// RegisterGauge registers a gauge metric.
func (r *Registry) RegisterGauge(name string, labels Labels) *Gauge {
	if r == nil {
		return NewGauge(name, labels)
	}
	key := makeKey(name, labels)
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.gauges[key]; ok {
		return g
	}
	g := NewGauge(name, labels)
	r.gauges[key] = g
	return g
}

// RegisterHistogram registers a histogram metric.
func (r *Registry) RegisterHistogram(name string, labels Labels, buckets []float64) *Histogram {
	if r == nil {
		return NewHistogram(name, labels, buckets)
	}
	key := makeKey(name, labels)
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.histograms[key]; ok {
		return h
	}
	h := NewHistogram(name, labels, buckets)
	r.histograms[key] = h
	return h
}

// GetCounter retrieves a counter by name and labels.
func (r *Registry) GetCounter(name string, labels Labels) (*Counter, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.counters[makeKey(name, labels)]
	return c, ok
}

// GetGauge retrieves a gauge by name and labels.
func (r *Registry) GetGauge(name string, labels Labels) (*Gauge, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.gauges[makeKey(name, labels)]
	return g, ok
}

// GetHistogram retrieves a histogram by name and labels.
func (r *Registry) GetHistogram(name string, labels Labels) (*Histogram, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.histograms[makeKey(name, labels)]
	return h, ok
}

// GetAllCounters returns all registered counters.
func (r *Registry) GetAllCounters() []*Counter {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Counter, 0, len(r.counters))
	for _, c := range r.counters {
		result = append(result, c)
	}
	return result
}

// GetAllGauges returns all registered gauges.
func (r *Registry) GetAllGauges() []*Gauge {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Gauge, 0, len(r.gauges))
	for _, g := range r.gauges {
		result = append(result, g)
	}
	return result
}

// GetAllHistograms returns all registered histograms.
func (r *Registry) GetAllHistograms() []*Histogram {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Histogram, 0, len(r.histograms))
	for _, h := range r.histograms {
		result = append(result, h)
	}
	return result
}

// Export exports all metrics as a map suitable for JSON serialization.
func (r *Registry) Export() map[string]any {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	export := make(map[string]any)
	export["counters"] = r.counters
	export["gauges"] = r.gauges
	export["histograms"] = r.histograms
	return export
}

// ExportJSON exports all metrics as indented JSON.
func (r *Registry) ExportJSON() ([]byte, error) {
	export := r.Export()
	if export == nil {
		return []byte("null"), nil
	}
	return json.MarshalIndent(export, "", "  ")
}

// WriteTo writes all metrics to the given writer, implementing io.WriterTo.
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	data, err := r.ExportJSON()
	if err != nil {
		return 0, fmt.Errorf("exporting metrics: %w", err)
	}
	n, err := w.Write(data)
	return int64(n), err
}

// DefaultRegistry is the default global registry.
var DefaultRegistry = NewRegistry()

// RegisterCounter registers a counter in the default registry.
func RegisterCounter(name string, labels Labels) *Counter {
	return DefaultRegistry.RegisterCounter(name, labels)
}

// RegisterGauge registers a gauge in the default registry.
func RegisterGauge(name string, labels Labels) *Gauge {
	return DefaultRegistry.RegisterGauge(name, labels)
}

// RegisterHistogram registers a histogram in the default registry.
func RegisterHistogram(name string, labels Labels, buckets []float64) *Histogram {
	return DefaultRegistry.RegisterHistogram(name, labels, buckets)
}

// Metric names recorded by the navigation engine. Controller metrics
// carry a "controller" label with the instance id.
const (
	MetricNavMovesTotal          = "nav_moves_total"
	MetricNavSuppressedTotal     = "nav_keys_suppressed_total"
	MetricNavSuspensionsTotal    = "nav_suspensions_total"
	MetricNavResumesTotal        = "nav_resumes_total"
	MetricNavEntryFallbacksTotal = "nav_entry_fallbacks_total"
	MetricNavTrackedElements     = "nav_tracked_elements"
	MetricNavOfferBatchSize      = "nav_offer_batch_size"
	MetricDispatchSeconds        = "key_dispatch_seconds"
	MetricMemoryUsageBytes       = "memory_usage_bytes"
)

// RecordMove records a completed navigation move on the default registry.
func RecordMove(controller string) {
	DefaultRegistry.RegisterCounter(MetricNavMovesTotal, Labels{"controller": controller}).Inc()
}

// RecordSuppressedKey records a keypress ceded to the focused element.
func RecordSuppressedKey(controller string) {
	DefaultRegistry.RegisterCounter(MetricNavSuppressedTotal, Labels{"controller": controller}).Inc()
}

// RecordSuspension records an active-descendant suspension.
func RecordSuspension(controller string) {
	DefaultRegistry.RegisterCounter(MetricNavSuspensionsTotal, Labels{"controller": controller}).Inc()
}

// RecordResume records an active-descendant resume.
func RecordResume(controller string) {
	DefaultRegistry.RegisterCounter(MetricNavResumesTotal, Labels{"controller": controller}).Inc()
}

// SetTrackedElements sets the tracked element count for a controller.
func SetTrackedElements(controller string, count int64) {
	DefaultRegistry.RegisterGauge(MetricNavTrackedElements, Labels{"controller": controller}).Set(count)
}

// RecordDispatchDuration records how long a key dispatch took end to end.
func RecordDispatchDuration(duration time.Duration) {
	DefaultRegistry.RegisterHistogram(MetricDispatchSeconds, nil, nil).ObserveDuration(duration)
}

package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/pprof"
	"sync"
	"time"
)

var (
	cpuProfileMu     sync.Mutex
	cpuProfileWriter io.WriteCloser
)

// StartCPUProfile starts CPU profiling and writes to the given writer.
// Returns an error if profiling is already started.
func StartCPUProfile(w io.Writer) error {
	cpuProfileMu.Lock()
	defer cpuProfileMu.Unlock()

	if cpuProfileWriter != nil {
		return fmt.Errorf("cpu profiling already started")
	}

	wc, ok := w.(io.WriteCloser)
	if !ok {
		return fmt.Errorf("writer must implement io.WriteCloser")
	}

	cpuProfileWriter = wc
	if err := pprof.StartCPUProfile(w); err != nil {
		cpuProfileWriter = nil
		return fmt.Errorf("starting cpu profile: %w", err)
	}
	return nil
}

// StopCPUProfile stops the current CPU profiling.
func StopCPUProfile() {
	cpuProfileMu.Lock()
	defer cpuProfileMu.Unlock()

	if cpuProfileWriter != nil {
		pprof.StopCPUProfile()
		cpuProfileWriter.Close()
		cpuProfileWriter = nil
	}
}

// WriteHeapProfile writes the current heap profile to the given writer.
func WriteHeapProfile(w io.Writer) error {
	if err := pprof.WriteHeapProfile(w); err != nil {
		return fmt.Errorf("writing heap profile: %w", err)
	}
	return nil
}

// MemoryStats holds key memory statistics.
type MemoryStats struct {
	Alloc       uint64 `json:"alloc"`
	TotalAlloc  uint64 `json:"total_alloc"`
	Sys         uint64 `json:"sys"`
	NumGC       uint32 `json:"num_gc"`
	HeapAlloc   uint64 `json:"heap_alloc"`
	HeapSys     uint64 `json:"heap_sys"`
	HeapInuse   uint64 `json:"heap_inuse"`
	HeapObjects uint64 `json:"heap_objects"`
	StackInuse  uint64 `json:"stack_inuse"`
	Goroutines  int    `json:"goroutines"`
	Timestamp   int64  `json:"timestamp"`
}

// GetMemoryStats returns current memory statistics.
func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return MemoryStats{
		Alloc:       m.Alloc,
		TotalAlloc:  m.TotalAlloc,
		Sys:         m.Sys,
		NumGC:       m.NumGC,
		HeapAlloc:   m.HeapAlloc,
		HeapSys:     m.HeapSys,
		HeapInuse:   m.HeapInuse,
		HeapObjects: m.HeapObjects,
		StackInuse:  m.StackInuse,
		Goroutines:  runtime.NumGoroutine(),
		Timestamp:   time.Now().Unix(),
	}
}

// GetMemoryStatsJSON returns memory statistics as JSON.
func GetMemoryStatsJSON() ([]byte, error) {
	stats := GetMemoryStats()
	return json.Marshal(stats)
}

// RecordMemoryStats records current heap usage in the default registry.
func RecordMemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	DefaultRegistry.RegisterGauge(MetricMemoryUsageBytes, nil).Set(int64(m.Alloc))
}

// ProfileConfig holds configuration for continuous profiling.
type ProfileConfig struct {
	MemoryInterval time.Duration
}

// DefaultProfileConfig returns default profiling configuration.
func DefaultProfileConfig() *ProfileConfig {
	return &ProfileConfig{
		MemoryInterval: 30 * time.Second,
	}
}

// ProfileRecorder periodically samples memory usage into the default
// registry.
type ProfileRecorder struct {
	config *ProfileConfig
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewProfileRecorder creates a new profile recorder.
func NewProfileRecorder(config *ProfileConfig) *ProfileRecorder {
	if config == nil {
		config = DefaultProfileConfig()
	}
	return &ProfileRecorder{
		config: config,
		stopCh: make(chan struct{}),
	}
}

// Start begins continuous profiling.
func (pr *ProfileRecorder) Start() {
	if pr == nil {
		return
	}
	pr.wg.Add(1)
	go pr.recordLoop()
}

// Stop stops continuous profiling.
func (pr *ProfileRecorder) Stop() {
	if pr == nil {
		return
	}
	close(pr.stopCh)
	pr.wg.Wait()
}

func (pr *ProfileRecorder) recordLoop() {
	defer pr.wg.Done()

	ticker := time.NewTicker(pr.config.MemoryInterval)
	defer ticker.Stop()

	RecordMemoryStats()

	for {
		select {
		case <-pr.stopCh:
			return
		case <-ticker.C:
			RecordMemoryStats()
		}
	}
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a started timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Start resets and starts the timer.
func (t *Timer) Start() {
	if t == nil {
		return
	}
	t.start = time.Now()
}

// Elapsed returns the elapsed time.
func (t *Timer) Elapsed() time.Duration {
	if t == nil {
		return 0
	}
	return time.Since(t.start)
}

// Observe records the elapsed time in a histogram.
func (t *Timer) Observe(h *Histogram) {
	if t == nil || h == nil {
		return
	}
	h.ObserveDuration(t.Elapsed())
}

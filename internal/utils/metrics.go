// internal/utils/metrics.go
package utils

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector keeps in-process counters, gauges and histograms for the
// /api/metrics endpoint. Counters and gauges use atomics so the hot path
// only takes the map lock when a metric is first created.
type MetricsCollector struct {
	counters   map[string]*counter
	gauges     map[string]*gauge
	histograms map[string]*histogram

	mu sync.RWMutex
}

type counter struct {
	value int64
}

type gauge struct {
	value int64
}

type histogram struct {
	count int64
	sum   int64
	min   int64
	max   int64
	mu    sync.Mutex
}

var (
	globalMetrics *MetricsCollector
	metricsOnce   sync.Once
)

// GetMetricsCollector returns the process-wide collector.
func GetMetricsCollector() *MetricsCollector {
	metricsOnce.Do(func() {
		globalMetrics = &MetricsCollector{
			counters:   make(map[string]*counter),
			gauges:     make(map[string]*gauge),
			histograms: make(map[string]*histogram),
		}
	})
	return globalMetrics
}

// IncrementCounter adds one to a counter, creating it on first use.
func (m *MetricsCollector) IncrementCounter(name string) {
	m.AddCounter(name, 1)
}

// AddCounter adds value to a counter, creating it on first use.
func (m *MetricsCollector) AddCounter(name string, value int64) {
	m.mu.RLock()
	c, exists := m.counters[name]
	m.mu.RUnlock()

	if !exists {
		m.mu.Lock()
		c, exists = m.counters[name]
		if !exists {
			c = &counter{}
			m.counters[name] = c
		}
		m.mu.Unlock()
	}

	atomic.AddInt64(&c.value, value)
}

// GetCounterValue reads a counter; missing counters read as zero.
func (m *MetricsCollector) GetCounterValue(name string) int64 {
	m.mu.RLock()
	c, exists := m.counters[name]
	m.mu.RUnlock()

	if !exists {
		return 0
	}
	return atomic.LoadInt64(&c.value)
}

// SetGauge stores an absolute gauge value.
func (m *MetricsCollector) SetGauge(name string, value int64) {
	m.mu.RLock()
	g, exists := m.gauges[name]
	m.mu.RUnlock()

	if !exists {
		m.mu.Lock()
		g, exists = m.gauges[name]
		if !exists {
			g = &gauge{}
			m.gauges[name] = g
		}
		m.mu.Unlock()
	}

	atomic.StoreInt64(&g.value, value)
}

// AddGauge adjusts a gauge by delta (negative to decrement).
func (m *MetricsCollector) AddGauge(name string, delta int64) {
	m.mu.RLock()
	g, exists := m.gauges[name]
	m.mu.RUnlock()

	if !exists {
		m.mu.Lock()
		g, exists = m.gauges[name]
		if !exists {
			g = &gauge{}
			m.gauges[name] = g
		}
		m.mu.Unlock()
	}

	atomic.AddInt64(&g.value, delta)
}

// GetGauge reads a gauge; missing gauges read as zero.
func (m *MetricsCollector) GetGauge(name string) int64 {
	m.mu.RLock()
	g, exists := m.gauges[name]
	m.mu.RUnlock()

	if !exists {
		return 0
	}
	return atomic.LoadInt64(&g.value)
}

// RecordHistogram folds a sample into a histogram's count/sum/min/max.
func (m *MetricsCollector) RecordHistogram(name string, value int64) {
	m.mu.RLock()
	h, exists := m.histograms[name]
	m.mu.RUnlock()

	if !exists {
		m.mu.Lock()
		h, exists = m.histograms[name]
		if !exists {
			h = &histogram{min: value, max: value}
			m.histograms[name] = h
		}
		m.mu.Unlock()
	}

	h.mu.Lock()
	h.count++
	h.sum += value
	if value < h.min || h.count == 1 {
		h.min = value
	}
	if value > h.max {
		h.max = value
	}
	h.mu.Unlock()
}

// GetMetrics snapshots everything for the metrics endpoint.
func (m *MetricsCollector) GetMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counters := make(map[string]int64, len(m.counters))
	for name, c := range m.counters {
		counters[name] = atomic.LoadInt64(&c.value)
	}

	gauges := make(map[string]int64, len(m.gauges))
	for name, g := range m.gauges {
		gauges[name] = atomic.LoadInt64(&g.value)
	}

	histograms := make(map[string]map[string]int64, len(m.histograms))
	for name, h := range m.histograms {
		h.mu.Lock()
		entry := map[string]int64{
			"count": h.count,
			"sum":   h.sum,
			"min":   h.min,
			"max":   h.max,
		}
		if h.count > 0 {
			entry["avg"] = h.sum / h.count
		}
		h.mu.Unlock()
		histograms[name] = entry
	}

	return map[string]interface{}{
		"counters":   counters,
		"gauges":     gauges,
		"histograms": histograms,
	}
}

// EngineMetrics wraps the collector with the names used across the engine so
// call sites stay consistent.
type EngineMetrics struct {
	collector *MetricsCollector
}

func NewEngineMetrics() *EngineMetrics {
	return &EngineMetrics{collector: GetMetricsCollector()}
}

// RecordAPIRequest tracks a handled HTTP request and its latency.
func (em *EngineMetrics) RecordAPIRequest(endpoint, method string, statusCode int, duration time.Duration) {
	em.collector.IncrementCounter(fmt.Sprintf("api_requests_%s_%s", method, endpoint))
	em.collector.IncrementCounter(fmt.Sprintf("api_status_%d", statusCode))
	em.collector.RecordHistogram("api_request_duration_ms", duration.Milliseconds())
}

// RecordReorder tracks a committed block reorder by gesture kind.
func (em *EngineMetrics) RecordReorder(gesture string) {
	em.collector.IncrementCounter("reorders_total")
	em.collector.IncrementCounter("reorders_" + gesture)
}

// RecordAnalysisPass tracks a finished analysis or suggestion pass and
// whether its result was superseded.
func (em *EngineMetrics) RecordAnalysisPass(kind string, superseded bool) {
	em.collector.IncrementCounter("analysis_passes_" + kind)
	if superseded {
		em.collector.IncrementCounter("analysis_superseded_" + kind)
	}
}

// RecordLLMRequest tracks an upstream AI call.
func (em *EngineMetrics) RecordLLMRequest(provider string, tokensUsed int, duration time.Duration) {
	em.collector.IncrementCounter("llm_requests_" + provider)
	em.collector.AddCounter("llm_tokens_"+provider, int64(tokensUsed))
	em.collector.RecordHistogram("llm_request_duration_ms", duration.Milliseconds())
}

// RecordError tracks an error by component.
func (em *EngineMetrics) RecordError(component string) {
	em.collector.IncrementCounter("errors_" + component)
}

// SetWebSocketClients records the current notification hub population.
func (em *EngineMetrics) SetWebSocketClients(count int64) {
	em.collector.SetGauge("websocket_clients", count)
}

// StartRuntimeCollection samples runtime gauges until ctx is done.
func (em *EngineMetrics) StartRuntimeCollection(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var mem runtime.MemStats
				runtime.ReadMemStats(&mem)
				em.collector.SetGauge("runtime_goroutines", int64(runtime.NumGoroutine()))
				em.collector.SetGauge("runtime_heap_bytes", int64(mem.HeapAlloc))
			}
		}
	}()
}

// Package monitoring 预测服务运行指标
package monitoring

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Outcome 预测请求结果分类
type Outcome string

const (
	OutcomePositive             Outcome = "positive"
	OutcomeNegative             Outcome = "negative"
	OutcomeConversionError      Outcome = "conversion_error"
	OutcomeUnrecognizedRejected Outcome = "unrecognized_rejected"
	OutcomeModelError           Outcome = "model_error"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	startTime time.Time

	outcomes     sync.Map // Outcome -> *atomic.Int64
	unrecognized sync.Map // field -> *atomic.Int64
	latencyNanos atomic.Int64
	predictions  atomic.Int64
}

// NewMetricsCollector 创建指标收集器
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{startTime: time.Now()}
}

// RecordOutcome 记录一次预测结果; 仅成功预测计入耗时
func (mc *MetricsCollector) RecordOutcome(outcome Outcome, elapsed time.Duration) {
	counter(&mc.outcomes, outcome).Inc()
	if outcome == OutcomePositive || outcome == OutcomeNegative {
		mc.predictions.Inc()
		mc.latencyNanos.Add(elapsed.Nanoseconds())
	}
}

// RecordUnrecognized 记录被编码为全零的分类字段
func (mc *MetricsCollector) RecordUnrecognized(fields []string) {
	for _, field := range fields {
		counter(&mc.unrecognized, field).Inc()
	}
}

// Snapshot 指标快照
type Snapshot struct {
	Uptime           string           `json:"uptime"`
	Outcomes         map[string]int64 `json:"outcomes"`
	Unrecognized     map[string]int64 `json:"unrecognized"`
	Predictions      int64            `json:"predictions"`
	AvgLatencyMillis float64          `json:"avg_latency_ms"`
	Goroutines       int              `json:"goroutines"`
	HeapAlloc        uint64           `json:"heap_alloc"`
}

// GetSnapshot 获取当前指标
func (mc *MetricsCollector) GetSnapshot() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s := Snapshot{
		Uptime:       time.Since(mc.startTime).Round(time.Second).String(),
		Outcomes:     collect(&mc.outcomes),
		Unrecognized: collect(&mc.unrecognized),
		Predictions:  mc.predictions.Load(),
		Goroutines:   runtime.NumGoroutine(),
		HeapAlloc:    m.HeapAlloc,
	}
	if s.Predictions > 0 {
		s.AvgLatencyMillis = float64(mc.latencyNanos.Load()) / float64(s.Predictions) / 1e6
	}
	return s
}

// ExportPrometheus 导出Prometheus文本格式
func (mc *MetricsCollector) ExportPrometheus() string {
	s := mc.GetSnapshot()
	var b strings.Builder

	b.WriteString("# HELP prediction_requests_total Prediction requests by outcome\n")
	b.WriteString("# TYPE prediction_requests_total counter\n")
	for _, key := range sortedKeys(s.Outcomes) {
		fmt.Fprintf(&b, "prediction_requests_total{outcome=%q} %d\n", key, s.Outcomes[key])
	}

	b.WriteString("# HELP prediction_unrecognized_total Categorical fields encoded as all zeros\n")
	b.WriteString("# TYPE prediction_unrecognized_total counter\n")
	for _, key := range sortedKeys(s.Unrecognized) {
		fmt.Fprintf(&b, "prediction_unrecognized_total{field=%q} %d\n", key, s.Unrecognized[key])
	}

	b.WriteString("# HELP prediction_latency_seconds_sum Total time spent predicting\n")
	b.WriteString("# TYPE prediction_latency_seconds_sum counter\n")
	fmt.Fprintf(&b, "prediction_latency_seconds_sum %f\n", float64(mc.latencyNanos.Load())/1e9)

	b.WriteString("# HELP system_goroutines Number of goroutines\n")
	b.WriteString("# TYPE system_goroutines gauge\n")
	fmt.Fprintf(&b, "system_goroutines %d\n", s.Goroutines)
	return b.String()
}

func counter(m *sync.Map, key any) *atomic.Int64 {
	if v, ok := m.Load(key); ok {
		return v.(*atomic.Int64)
	}
	v, _ := m.LoadOrStore(key, atomic.NewInt64(0))
	return v.(*atomic.Int64)
}

func collect(m *sync.Map) map[string]int64 {
	out := make(map[string]int64)
	m.Range(func(key, value any) bool {
		out[fmt.Sprint(key)] = value.(*atomic.Int64).Load()
		return true
	})
	return out
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

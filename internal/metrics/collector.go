// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 编译指标收集器
// =============================================================================

// Collector 编译指标收集器，实现 compile.Metrics
type Collector struct {
	// 编译指标
	compilationsTotal  *prometheus.CounterVec
	compileDuration    prometheus.Histogram
	graphNodes         prometheus.Histogram
	graphEdges         prometheus.Histogram
	validationErrors   prometheus.Counter
	validationWarnings prometheus.Counter

	logger *zap.Logger
}

// NewCollector 创建指标收集器
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	// 编译指标
	c.compilationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compilations_total",
			Help:      "Total number of flow compilations",
		},
		[]string{"outcome"},
	)

	c.compileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Flow compilation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	c.graphNodes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes per compiled graph",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	c.graphEdges = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Number of edges per compiled graph",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	c.validationErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Total number of fatal validation errors",
		},
	)

	c.validationWarnings = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_warnings_total",
			Help:      "Total number of validation warnings",
		},
	)

	return c
}

// ObserveCompile 记录一次编译
func (c *Collector) ObserveCompile(d time.Duration, outcome string) {
	c.compilationsTotal.WithLabelValues(outcome).Inc()
	c.compileDuration.Observe(d.Seconds())
}

// ObserveGraph 记录图规模
func (c *Collector) ObserveGraph(nodes, edges int) {
	c.graphNodes.Observe(float64(nodes))
	c.graphEdges.Observe(float64(edges))
}

// ObserveValidation 记录校验结果
func (c *Collector) ObserveValidation(errors, warnings int) {
	c.validationErrors.Add(float64(errors))
	c.validationWarnings.Add(float64(warnings))
}

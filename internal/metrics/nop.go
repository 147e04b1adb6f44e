// Package metrics provides internal metrics utilities for restream.
package metrics

import "github.com/arloliu/restream/types"

// NopMetrics is a no-op metrics collector that discards all metrics.
//
// This is used as the default metrics collector when no collector is configured,
// avoiding nil checks throughout the codebase.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements types.MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNopMetrics creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A collector that discards all metrics
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// ----------------------
// Source Pulls
// ----------------------

// IncPullTotal discards the metric.
func (m *NopMetrics) IncPullTotal(_ string) {}

// IncPullError discards the metric.
func (m *NopMetrics) IncPullError(_ string) {}

// ObservePullDuration discards the metric.
func (m *NopMetrics) ObservePullDuration(_ string, _ float64) {}

// ----------------------
// Buffer
// ----------------------

// SetBufferLen discards the metric.
func (m *NopMetrics) SetBufferLen(_ string, _ int) {}

// IncForkTotal discards the metric.
func (m *NopMetrics) IncForkTotal(_ string) {}

// ----------------------
// Async Waiters
// ----------------------

// IncWaitTotal discards the metric.
func (m *NopMetrics) IncWaitTotal(_ string) {}

// IncWaitCancelled discards the metric.
func (m *NopMetrics) IncWaitCancelled(_ string) {}

// Package collector gathers Go runtime statistics as reportable metrics.
package collector

import (
	"runtime"
	"sync/atomic"

	"github.com/and161185/metrics-summary/metric"
)

var reportCount atomic.Int64

// CollectRuntimeMetrics snapshots runtime memory statistics into a metric
// set ready for flattening. Group nesting is deliberate: the flattened
// paths come out as "memory/heap/alloc", "gc/num" and so on.
func CollectRuntimeMetrics() map[string]metric.Metric {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	count := reportCount.Add(1)

	return map[string]metric.Metric{
		"memory": metric.Group{
			"alloc":       metric.NewLast(float64(m.Alloc)),
			"total_alloc": metric.NewLast(float64(m.TotalAlloc)),
			"sys":         metric.NewLast(float64(m.Sys)),
			"heap": metric.Group{
				"alloc":    metric.NewLast(float64(m.HeapAlloc)),
				"idle":     metric.NewLast(float64(m.HeapIdle)),
				"inuse":    metric.NewLast(float64(m.HeapInuse)),
				"objects":  metric.NewLast(float64(m.HeapObjects)),
				"released": metric.NewLast(float64(m.HeapReleased)),
			},
			"stack": metric.Group{
				"inuse": metric.NewLast(float64(m.StackInuse)),
				"sys":   metric.NewLast(float64(m.StackSys)),
			},
		},
		"gc": metric.Group{
			"num":            metric.NewLast(float64(m.NumGC)),
			"cpu_fraction":   metric.NewLast(m.GCCPUFraction),
			"pause_total_ns": metric.NewLast(float64(m.PauseTotalNs)),
			"next":           metric.NewLast(float64(m.NextGC)),
		},
		"goroutines":   metric.NewLast(float64(runtime.NumGoroutine())),
		"report_count": metric.NewLast(float64(count)),
	}
}

// ResetReportCount zeroes the collection counter.
func ResetReportCount() {
	reportCount.Store(0)
}

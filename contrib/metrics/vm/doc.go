// Package vm provides a VictoriaMetrics-based implementation of the MetricsCollector interface.
//
// This package uses github.com/VictoriaMetrics/metrics for lightweight,
// high-performance Prometheus-compatible metrics collection.
//
// # Basic Usage
//
// Create a collector with default prefix "restream":
//
//	collector := vm.New()
//	shared := restream.Share(src,
//	    restream.WithName("events"),
//	    restream.WithMetrics(collector),
//	)
//
// # Custom Prefix
//
// Use WithPrefix to customize the metric name prefix:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//
// This produces metrics like:
//   - myapp_pull_total{sequence="events"}
//   - myapp_pull_duration_seconds{sequence="events"}
//
// # Exposing Metrics
//
// Use the Handler method to expose metrics via HTTP:
//
//	http.HandleFunc("/metrics", collector.Handler)
//	http.ListenAndServe(":8080", nil)
//
// Or use WritePrometheus to write metrics to a custom writer:
//
//	collector.WritePrometheus(w)
//
// # Metrics Provided
//
// Source pulls:
//   - {prefix}_pull_total{sequence} - Counter of source pulls
//   - {prefix}_pull_errors_total{sequence} - Counter of pull faults
//   - {prefix}_pull_duration_seconds{sequence} - Histogram of pull latencies
//
// Buffer:
//   - {prefix}_buffer_len{sequence} - Gauge of buffered entries
//   - {prefix}_fork_total{sequence} - Counter of cursors minted
//
// Async waiters:
//   - {prefix}_wait_total{sequence} - Counter of callers suspended on an in-flight pull
//   - {prefix}_wait_cancelled_total{sequence} - Counter of waiters released by cancellation
//
// Metrics are created lazily per sequence name with GetOrCreateXXX, so a
// single collector serves any number of shared sequences. The metrics are
// registered with a dedicated Set that is registered globally, allowing
// standard Prometheus scraping.
package vm

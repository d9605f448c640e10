// Package metrics collects per-invocation metrics for the handler.
//
// Events flow through a buffered channel into a collector goroutine, so the
// handler never blocks on bookkeeping. The collector tracks:
//   - Invocations per route
//   - Response status codes and failure kinds
//   - Writes and failed writes per target (s3, dynamodb)
//   - Write latency with percentiles (P50, P95, P99)
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.EventChannel() <- metrics.MetricEvent{
//		Type:     metrics.EventWriteCompleted,
//		Target:   "s3",
//		Duration: 35 * time.Millisecond,
//		Success:  true,
//	}
//
//	snapshot := collector.Snapshot()
//
// On shutdown the collector drains whatever is still buffered.
package metrics

// Package metrics defines interfaces and implementations for collecting
// allocation metrics. Sinks like PromSink and InfluxSink record run results
// as well as individual placements, relocations and overflows, and can be
// combined with NewMultiSink. The factory helpers return a MultiSink
// automatically when multiple sinks are configured.
package metrics

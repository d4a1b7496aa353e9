// Package prometheus exposes engine metrics through client_golang.
//
// [Collector] turns each scrape into const metrics read from
// [sessionauth.Engine.MetricsSnapshot]. Counters are named
// sessionauth_*_total and the single histogram is
// sessionauth_resolve_latency_seconds. [Handler] mounts the collector on a
// private registry.
//
// # What this package must NOT do
//
//   - Register on the global default registry.
//   - Mutate engine state.
package prometheus

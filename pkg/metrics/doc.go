// Package metrics exposes warden's Prometheus instrumentation:
// resource status gauges, commit/audit counters, actor and initiator
// activity, and RPC latency, served over the standard promhttp
// handler. It also hosts a small dependency-free health checker used
// by the /healthz, /readyz and /livez HTTP endpoints.
package metrics

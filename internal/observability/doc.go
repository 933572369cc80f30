// Package observability provides structured logging and metrics for the
// FutureWise web gateway.
//
// Logging uses zap. Metrics are exported through a dedicated Prometheus
// registry so tests can create isolated instances.
package observability

// Package tracing wraps OpenTelemetry so that the rest of the module can open
// spans around hub calls, task waits and approvals without importing otel
// directly. Until Init or InitWithExporter is called spans are no-op.
package tracing

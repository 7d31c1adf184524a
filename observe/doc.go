// Package observe provides telemetry for lifecycle operations.
//
// It supplies a structured JSON logger, OpenTelemetry-backed metrics and
// tracing for retry cycles, staged publishes and resource mappings, and an
// Observer facade that wires the providers from configuration.
package observe

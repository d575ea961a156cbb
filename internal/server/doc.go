// Package server provides the MCP server context, health checks, and
// the metrics endpoint for the searchfewer application.
//
// # Key Components
//
// ServerContext wires the credential store to the token manager so that
// re-registering an account drops its cached Google API clients. It
// also carries the metrics recorder and audit logger shared by all
// tool handlers.
//
// HealthChecker exposes /healthz and /readyz endpoints for Kubernetes
// probes.
//
// MetricsServer serves Prometheus metrics on a dedicated port, keeping
// operational metrics off the main MCP transport.
package server

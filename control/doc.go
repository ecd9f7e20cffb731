// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and configuration for ring buffer tooling.
//
// Provides:
//   - MetricsRegistry: named ring stat probes sampled into a snapshot map
//   - Config: ring pipe settings loaded from file, environment and flags
package control

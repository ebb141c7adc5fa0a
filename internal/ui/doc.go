// Package ui provides helpers for formatting human-readable console output.
//
// The helpers translate API call lifecycle events into concise messages so that
// audit progress remains actionable for CLI users while detailed telemetry
// continues to flow through structured loggers.
package ui

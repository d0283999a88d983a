// Package metrics exposes prometheus instruments for the submit pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

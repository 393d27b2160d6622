// Package progress keeps per-approval transfer counters that callers can
// observe while destinations are processed concurrently.
package progress

// Package idgen wraps the UUID generator used for approval operation ids so
// that tests can stub it. Callers should treat identifiers as opaque strings.
package idgen

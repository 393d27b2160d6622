// Package hub defines the backend operations used by the task waiter and the
// approval orchestrator. The http sub-package provides the REST
// implementation; tests substitute in-memory fakes.
package hub

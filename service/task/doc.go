// Package task waits for asynchronous hub tasks to reach a terminal state.
//
// The waiter polls the task status with a fixed interval and a bounded number
// of attempts. A failing terminal state returns *FailedError, exhausting the
// attempt budget returns an error wrapping ErrGaveUp, and a fetch error is
// returned immediately without consuming the budget.
package task

// Package events carries usage events from the accounting services to
// observers such as the metrics collector.
//
// Services emit events after a state change has been committed. Emission is
// best effort: a failing handler is logged by the caller and never undoes the
// change that produced the event.
package events

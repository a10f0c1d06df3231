// Package delivery posts handler content to platform-supplied response URLs:
// automatic fallback deliveries when a handler settles after the synchronous
// deadline, and application-driven deferred responses. Deliveries are best
// effort, logged on failure, and never retried.
package delivery

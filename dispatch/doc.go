// Package dispatch contains the handler registry and the constraint matcher.
//
// The registry is append-only: entries are never mutated or removed, and
// reads operate on point-in-time snapshots so concurrent registration never
// corrupts an in-flight match.
package dispatch

// Package inbound contains the response coordinator and the HTTP ingestion
// surface.
//
// The coordinator drives one dispatch cycle per request:
// received -> verified -> normalized -> dispatched -> replied|timed_out ->
// closed. The deadline race between handler completion and the synchronous
// timeout is first-settles-wins with no cancellation of the loser; a late
// handler result is delivered out of band when fallback is enabled and
// dropped otherwise. Exactly one synchronous reply is produced per request.
package inbound

// Package verify authenticates raw inbound requests against the adapter's
// signing secret before any payload is decoded.
//
// Both the signature comparison and the replay-window check always run;
// either failing rejects the request.
package verify

// Package transport fetches runtime metadata from a node over JSON-RPC.
//
// A Client speaks to a single endpoint. HTTP and HTTPS endpoints use one
// POST request per call; WS and WSS endpoints dial a WebSocket and exchange
// a single request/response pair. The metadata payload arrives as a
// 0x-prefixed hex string and is returned as raw bytes for the decoder.
//
// The client never retries: decode and verify failures are deterministic
// functions of the fetched bytes, and transient transport failures are the
// caller's policy decision. Cancellation and timeouts come from the
// context passed to each call.
package transport

// Package metacheck decodes and verifies chain runtime metadata.
//
// A node describes its own runtime (modules, dispatchable calls, events,
// errors, and storage) as a compact, versioned binary blob. This module
// fetches that blob over JSON-RPC, decodes it according to one of the
// supported schema generations, and checks the result for structural
// consistency before any tooling relies on indexed lookups into it.
//
// # Architecture Overview
//
//	metacheck/           Root package documentation
//	├── scale/           Forward-only bounds-checked binary cursor
//	├── metadata/        Version dispatch, v1/v2/v3 decoders, document
//	│                    model and structural verifier
//	├── transport/       JSON-RPC metadata fetch (HTTP and WebSocket)
//	├── errors/          Structured stage/kind error types
//	└── cmd/verify/      CLI: fetch, decode, verify, browse
//
// # Quick Start
//
// Decode and verify a metadata blob:
//
//	doc, err := metadata.Decode(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := metadata.Verify(doc); err != nil {
//	    log.Fatal(err)
//	}
//
//	mod, _ := doc.Module("Balances")
//	call, _ := mod.Call(0)
package metacheck

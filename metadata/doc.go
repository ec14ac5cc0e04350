// Package metadata decodes versioned runtime metadata into a normalized
// document and verifies its structural invariants.
//
// A metadata blob starts with the 4-byte magic "meta" and a one-byte
// version discriminant selecting one of three schema generations. Decode
// dispatches on that discriminant; no other code inspects it. All three
// generations converge on the same Document shape, with fields absent in
// older formats left at neutral defaults.
//
// Type definitions reference each other by dense index into the document's
// flat type registry. Verify walks a decoded document and rejects dangling
// references, duplicate module names, non-contiguous local indices, and
// duplicate field names, returning the first violation found.
package metadata

// Package scale implements a forward-only cursor over SCALE-encoded bytes.
//
// A Reader borrows an immutable buffer and advances a position with every
// read; it never rewinds and never reads past the end of the buffer. All
// reads are bounds-checked and fail with a structured error carrying the
// byte offset of the failure.
//
// Compact integers use the SCALE convention: the low two bits of the first
// byte select a 1, 2, or 4 byte tier, or a big-integer tier of up to 8
// bytes. Length-prefixed collections are checked against the remaining
// buffer size before any allocation, bounding memory use by input size.
package scale

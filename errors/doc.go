// Package errors provides structured error types for the metacheck module.
//
// Errors are categorized by Stage (where in the pipeline the error occurred)
// and Kind (error category). The Error type includes rich context: an
// identifier path into the document, the byte offset at which decoding
// diverged, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.StageDecode, errors.KindUnexpectedEOF).
//		Path("Balances", "transfer").
//		Offset(142).
//		Detail("need 4 bytes, 1 remaining").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnexpectedEOF(offset, need, remaining)
//	err := errors.UnrecognizedVariant(errors.StageDecode, path, disc, offset)
//
// All errors implement the standard error interface; errors.Is matches on
// Stage and Kind so callers can classify failures without string parsing.
package errors

package errors

import (
	"fmt"
	"strings"
)

// Stage indicates where in the pipeline the error occurred
type Stage string

const (
	StageTransport Stage = "transport" // fetching bytes from the node
	StageDispatch  Stage = "dispatch"  // magic and version discriminant
	StageDecode    Stage = "decode"    // version-specific body decoding
	StageVerify    Stage = "verify"    // structural document checks
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownMagic       Kind = "unknown_magic"
	KindUnsupportedVersion Kind = "unsupported_version"
	KindUnexpectedEOF      Kind = "unexpected_eof"
	KindInvalidCompact     Kind = "invalid_compact"
	KindInvalidUTF8        Kind = "invalid_utf8"
	KindLengthOverflow     Kind = "length_overflow"
	KindUnrecognizedVar    Kind = "unrecognized_variant"
	KindDanglingTypeRef    Kind = "dangling_type_ref"
	KindDuplicateModule    Kind = "duplicate_module"
	KindNonContiguousIndex Kind = "non_contiguous_index"
	KindDuplicateField     Kind = "duplicate_field"
	KindRPC                Kind = "rpc"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Stage  Stage
	Kind   Kind
	Detail string
	Path   []string
	Off    int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Stage))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Off > 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Off)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two Errors match when
// their Stage and Kind agree, so sentinel values like
// &Error{Stage: StageDecode, Kind: KindUnexpectedEOF} classify failures.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Stage == t.Stage && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(stage Stage, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Stage: stage,
			Kind:  kind,
		},
	}
}

// Path sets the identifier path (module, call, field, ...)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the byte offset at which decoding diverged
func (b *Builder) Offset(off int) *Builder {
	b.err.Off = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnexpectedEOF creates an end-of-buffer error at the given offset
func UnexpectedEOF(offset, need, remaining int) *Error {
	return &Error{
		Stage:  StageDecode,
		Kind:   KindUnexpectedEOF,
		Off:    offset,
		Detail: fmt.Sprintf("need %d bytes, %d remaining", need, remaining),
	}
}

// InvalidCompact creates an invalid compact-integer encoding error
func InvalidCompact(offset int, detail string) *Error {
	return &Error{
		Stage:  StageDecode,
		Kind:   KindInvalidCompact,
		Off:    offset,
		Detail: detail,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error with a byte preview
func InvalidUTF8(offset int, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Stage:  StageDecode,
		Kind:   KindInvalidUTF8,
		Off:    offset,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// LengthOverflow creates an error for a declared length exceeding the
// remaining buffer size
func LengthOverflow(offset int, declared uint64, remaining int) *Error {
	return &Error{
		Stage:  StageDecode,
		Kind:   KindLengthOverflow,
		Off:    offset,
		Detail: fmt.Sprintf("declared length %d exceeds %d remaining bytes", declared, remaining),
		Value:  declared,
	}
}

// UnrecognizedVariant creates an error for an unknown enum discriminant
func UnrecognizedVariant(stage Stage, path []string, disc uint64, offset int) *Error {
	return &Error{
		Stage:  stage,
		Kind:   KindUnrecognizedVar,
		Path:   path,
		Off:    offset,
		Detail: fmt.Sprintf("unrecognized variant discriminant %d", disc),
		Value:  disc,
	}
}

// UnknownMagic creates a dispatch error for a bad magic prefix
func UnknownMagic(got uint32) *Error {
	return &Error{
		Stage:  StageDispatch,
		Kind:   KindUnknownMagic,
		Detail: fmt.Sprintf("magic prefix %#08x does not match expected constant", got),
		Value:  got,
	}
}

// UnsupportedVersion creates a dispatch error for an unknown version discriminant
func UnsupportedVersion(disc byte) *Error {
	return &Error{
		Stage:  StageDispatch,
		Kind:   KindUnsupportedVersion,
		Detail: fmt.Sprintf("version discriminant %d maps to no known decoder", disc),
		Value:  disc,
	}
}

// Violation creates a verification error naming the violated invariant
func Violation(kind Kind, path []string, detail string) *Error {
	return &Error{
		Stage:  StageVerify,
		Kind:   kind,
		Path:   path,
		Detail: detail,
	}
}

// Transport wraps a transport failure
func Transport(cause error, detail string) *Error {
	return &Error{
		Stage:  StageTransport,
		Kind:   KindRPC,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(stage Stage, kind Kind, cause error, detail string) *Error {
	return &Error{
		Stage:  stage,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

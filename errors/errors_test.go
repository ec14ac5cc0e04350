package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Stage:  StageDecode,
				Kind:   KindUnrecognizedVar,
				Path:   []string{"Balances", "transfer", "dest"},
				Off:    142,
				Detail: "unrecognized variant discriminant 9",
			},
			contains: []string{"[decode]", "unrecognized_variant", "Balances.transfer.dest", "offset 142", "discriminant 9"},
		},
		{
			name: "minimal error",
			err: &Error{
				Stage: StageDispatch,
				Kind:  KindUnknownMagic,
			},
			contains: []string{"[dispatch]", "unknown_magic"},
		},
		{
			name: "error with cause",
			err: &Error{
				Stage:  StageTransport,
				Kind:   KindRPC,
				Detail: "state_getMetadata",
				Cause:  errors.New("connection refused"),
			},
			contains: []string{"[transport]", "rpc", "state_getMetadata", "caused by", "connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Transport(cause, "fetch failed")
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_Is(t *testing.T) {
	eof := UnexpectedEOF(10, 4, 1)

	if !errors.Is(eof, &Error{Stage: StageDecode, Kind: KindUnexpectedEOF}) {
		t.Error("Is should match on stage and kind")
	}
	if errors.Is(eof, &Error{Stage: StageDecode, Kind: KindInvalidCompact}) {
		t.Error("Is should not match a different kind")
	}
	if errors.Is(eof, &Error{Stage: StageVerify, Kind: KindUnexpectedEOF}) {
		t.Error("Is should not match a different stage")
	}
	if errors.Is(eof, errors.New("plain")) {
		t.Error("Is should not match a non-structured error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("short read")
	err := New(StageDecode, KindUnexpectedEOF).
		Path("System", "events").
		Offset(7).
		Value(uint64(300)).
		Detail("need %d bytes", 300).
		Cause(cause).
		Build()

	if err.Stage != StageDecode || err.Kind != KindUnexpectedEOF {
		t.Errorf("stage/kind = %s/%s", err.Stage, err.Kind)
	}
	if len(err.Path) != 2 || err.Path[0] != "System" {
		t.Errorf("path = %v", err.Path)
	}
	if err.Off != 7 {
		t.Errorf("offset = %d", err.Off)
	}
	if err.Detail != "need 300 bytes" {
		t.Errorf("detail = %q", err.Detail)
	}
	if err.Cause != cause {
		t.Error("cause not set")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		err   *Error
		stage Stage
		kind  Kind
	}{
		{UnexpectedEOF(0, 1, 0), StageDecode, KindUnexpectedEOF},
		{InvalidCompact(3, "reserved tier"), StageDecode, KindInvalidCompact},
		{InvalidUTF8(5, []byte{0xff, 0xfe}), StageDecode, KindInvalidUTF8},
		{LengthOverflow(9, 1 << 40, 12), StageDecode, KindLengthOverflow},
		{UnrecognizedVariant(StageDecode, nil, 7, 2), StageDecode, KindUnrecognizedVar},
		{UnknownMagic(0xdeadbeef), StageDispatch, KindUnknownMagic},
		{UnsupportedVersion(9), StageDispatch, KindUnsupportedVersion},
		{Violation(KindDuplicateModule, []string{"System"}, "dup"), StageVerify, KindDuplicateModule},
		{Transport(errors.New("x"), "y"), StageTransport, KindRPC},
	}

	for _, tt := range tests {
		if tt.err.Stage != tt.stage || tt.err.Kind != tt.kind {
			t.Errorf("%v: stage/kind = %s/%s, want %s/%s",
				tt.err, tt.err.Stage, tt.err.Kind, tt.stage, tt.kind)
		}
	}
}

func TestInvalidUTF8Preview(t *testing.T) {
	long := make([]byte, 100)
	err := InvalidUTF8(0, long)
	// preview is clamped so huge corrupt strings do not flood logs
	if len(err.Detail) > 120 {
		t.Errorf("detail too long: %d chars", len(err.Detail))
	}
}

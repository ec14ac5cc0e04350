package metadata

import (
	stderrors "errors"
	"testing"

	"github.com/chainmeta/metacheck/errors"
)

// validDoc returns a small document that passes verification; tests mutate
// it to trigger individual violations.
func validDoc() *Document {
	return &Document{
		Version: V3,
		Types: []Type{
			Primitive(PrimU32),
			Composite{Fields: []Field{{Name: "from", Type: 0}, {Name: "to", Type: 0}}},
			Variant{Cases: []Case{
				{Name: "None"},
				{Name: "Some", Fields: []Field{{Name: "value", Type: 0}}},
			}},
		},
		Modules: []Module{
			{
				Name: "System",
				Calls: []Call{
					{Index: 0, Name: "remark", Args: []Arg{{Name: "data", Type: 0}}},
					{Index: 1, Name: "set_code"},
				},
				Events: []Event{{Index: 0, Name: "CodeUpdated"}},
			},
			{
				Name:   "Balances",
				Calls:  []Call{{Index: 0, Name: "transfer", Args: []Arg{{Name: "dest", Type: 1}}}},
				Errors: []ErrorDef{{Index: 0, Name: "InsufficientBalance"}},
				Storage: []StorageItem{
					{Name: "TotalIssuance", Kind: StoragePlain, Value: 0},
					{Name: "FreeBalance", Kind: StorageMap, Key: 0, Value: 2},
				},
			},
		},
	}
}

func verifyKind(t *testing.T, doc *Document, kind errors.Kind) *errors.Error {
	t.Helper()
	err := Verify(doc)
	if err == nil {
		t.Fatalf("expected %s violation, got nil", kind)
	}
	var verr *errors.Error
	if !stderrors.As(err, &verr) {
		t.Fatalf("untyped error: %v", err)
	}
	if verr.Stage != errors.StageVerify || verr.Kind != kind {
		t.Fatalf("got %s/%s, want verify/%s: %v", verr.Stage, verr.Kind, kind, verr)
	}
	return verr
}

func TestVerifyValid(t *testing.T) {
	if err := Verify(validDoc()); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestVerifyDanglingCallArg(t *testing.T) {
	doc := validDoc()
	doc.Modules[0].Calls[0].Args[0].Type = 99
	verr := verifyKind(t, doc, errors.KindDanglingTypeRef)
	want := []string{"System", "calls", "remark", "data"}
	for i, p := range want {
		if verr.Path[i] != p {
			t.Errorf("path = %v, want %v", verr.Path, want)
			break
		}
	}
}

func TestVerifyDanglingStorageKey(t *testing.T) {
	doc := validDoc()
	doc.Modules[1].Storage[1].Key = 50
	verifyKind(t, doc, errors.KindDanglingTypeRef)
}

func TestVerifyDanglingNestedType(t *testing.T) {
	doc := validDoc()
	doc.Types[2] = Variant{Cases: []Case{
		{Name: "Some", Fields: []Field{{Name: "value", Type: 77}}},
	}}
	verifyKind(t, doc, errors.KindDanglingTypeRef)
}

func TestVerifyDuplicateModuleName(t *testing.T) {
	doc := validDoc()
	doc.Modules[1].Name = "System"
	verr := verifyKind(t, doc, errors.KindDuplicateModule)
	if len(verr.Path) != 1 || verr.Path[0] != "System" {
		t.Errorf("path = %v", verr.Path)
	}
}

func TestVerifyNonContiguousIndex(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Document)
	}{
		{
			name: "gap in call indices",
			mutate: func(d *Document) {
				d.Modules[0].Calls[1].Index = 5
			},
		},
		{
			name: "duplicate call index",
			mutate: func(d *Document) {
				d.Modules[0].Calls[1].Index = 0
			},
		},
		{
			name: "event index out of range",
			mutate: func(d *Document) {
				d.Modules[0].Events[0].Index = 1
			},
		},
		{
			name: "error index out of range",
			mutate: func(d *Document) {
				d.Modules[1].Errors[0].Index = 3
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)
			verifyKind(t, doc, errors.KindNonContiguousIndex)
		})
	}
}

func TestVerifyDuplicateFieldName(t *testing.T) {
	doc := validDoc()
	doc.Types[1] = Composite{Fields: []Field{
		{Name: "from", Type: 0},
		{Name: "from", Type: 0},
	}}
	verifyKind(t, doc, errors.KindDuplicateField)
}

func TestVerifyDuplicateVariantCase(t *testing.T) {
	doc := validDoc()
	doc.Types[2] = Variant{Cases: []Case{
		{Name: "Some"},
		{Name: "Some"},
	}}
	verifyKind(t, doc, errors.KindDuplicateField)
}

func TestVerifyUnnamedFieldsAllowed(t *testing.T) {
	doc := validDoc()
	// tuple-like composites have no field names; they must not be
	// treated as duplicates of each other
	doc.Types[1] = Composite{Fields: []Field{
		{Name: "", Type: 0},
		{Name: "", Type: 0},
	}}
	if err := Verify(doc); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestVerifyCheckOrdering(t *testing.T) {
	// a document violating several invariants reports the dangling
	// reference first: the check order is fixed
	doc := validDoc()
	doc.Modules[1].Name = "System"
	doc.Modules[0].Calls[1].Index = 9
	doc.Modules[0].Calls[0].Args[0].Type = 99
	verifyKind(t, doc, errors.KindDanglingTypeRef)
}

func TestVerifyReadOnly(t *testing.T) {
	doc := validDoc()
	doc.Modules[0].Calls[1].Index = 9
	_ = Verify(doc)
	if doc.Modules[0].Calls[1].Index != 9 {
		t.Error("Verify must not modify the document")
	}
}

func TestVerifyEmptyDocument(t *testing.T) {
	if err := Verify(&Document{Version: V1}); err != nil {
		t.Errorf("empty document should verify: %v", err)
	}
}

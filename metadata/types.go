package metadata

import "fmt"

// Version identifies a metadata schema generation.
type Version byte

const (
	V1 Version = 0x01
	V2 Version = 0x02
	V3 Version = 0x03
)

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	case V3:
		return "v3"
	default:
		return fmt.Sprintf("unknown(%#02x)", byte(v))
	}
}

// Document is the normalized, version-independent metadata representation.
/// It is self-contained: once decoded it holds no references to the input
// buffer and may be retained independently of it.
type Document struct {
	Version Version
	Modules []Module
	// Types is the flat type registry; the slice index is the type id
	// referenced by Arg.Type, StorageItem and nested type definitions.
	Types []Type
}

// Module groups the dispatchable calls, events, errors and storage items
// declared by one runtime module.
type Module struct {
	Name    string
	Docs    []string
	Calls   []Call
	Events  []Event
	Errors  []ErrorDef
	Storage []StorageItem
}

// Call is a dispatchable operation. Index is the local index on-chain data
// uses to reference the call within its module.
type Call struct {
	Index uint32
	Name  string
	Args  []Arg
	Docs  []string
}

// Event is an emitted event definition with its local index.
type Event struct {
	Index uint32
	Name  string
	Args  []Arg
	Docs  []string
}

// ErrorDef is a module error definition with its local index.
type ErrorDef struct {
	Index uint32
	Name  string
	Docs  []string
}

// Arg is a named, typed argument. Name may be empty in generations that
// encode argument types without names.
type Arg struct {
	Name string
	Type uint32
}

// StorageModifier says whether a storage item has a default value.
type StorageModifier byte

const (
	StorageOptional StorageModifier = 0x00
	StorageDefault  StorageModifier = 0x01
)

// StorageKind distinguishes plain storage values from maps.
type StorageKind byte

const (
	StoragePlain StorageKind = 0x00
	StorageMap   StorageKind = 0x01
)

// Hasher is the key-hashing algorithm of a storage map.
type Hasher byte

const (
	HasherBlake2_128 Hasher = 0x00
	HasherBlake2_256 Hasher = 0x01
	HasherTwox64     Hasher = 0x02
)

// StorageItem describes one storage entry. Key and Hasher are only
// meaningful for StorageMap entries; Default only for StorageDefault.
type StorageItem struct {
	Name     string
	Modifier StorageModifier
	Default  []byte
	Kind     StorageKind
	Hasher   Hasher
	Key      uint32
	Value    uint32
	Docs     []string
}

// Type is the closed set of type definitions appearing in the registry.
type Type interface {
	isType()
}

// Primitive is a built-in scalar or string type.
type Primitive byte

const (
	PrimBool Primitive = 0x00
	PrimU8   Primitive = 0x01
	PrimU16  Primitive = 0x02
	PrimU32  Primitive = 0x03
	PrimU64  Primitive = 0x04
	PrimU128 Primitive = 0x05
	PrimI8   Primitive = 0x06
	PrimI16  Primitive = 0x07
	PrimI32  Primitive = 0x08
	PrimI64  Primitive = 0x09
	PrimI128 Primitive = 0x0a
	PrimStr  Primitive = 0x0b
)

func (Primitive) isType() {}

func (p Primitive) String() string {
	switch p {
	case PrimBool:
		return "bool"
	case PrimU8:
		return "u8"
	case PrimU16:
		return "u16"
	case PrimU32:
		return "u32"
	case PrimU64:
		return "u64"
	case PrimU128:
		return "u128"
	case PrimI8:
		return "i8"
	case PrimI16:
		return "i16"
	case PrimI32:
		return "i32"
	case PrimI64:
		return "i64"
	case PrimI128:
		return "i128"
	case PrimStr:
		return "str"
	default:
		return fmt.Sprintf("prim(%#02x)", byte(p))
	}
}

// Composite is a struct-like type with named fields.
type Composite struct {
	Fields []Field
}

func (Composite) isType() {}

// Field is a named reference to another type in the registry.
type Field struct {
	Name string
	Type uint32
}

// Variant is a tagged union; each case may carry associated fields.
type Variant struct {
	Cases []Case
}

func (Variant) isType() {}

// Case is one constructor of a Variant.
type Case struct {
	Name   string
	Fields []Field
}

// Sequence is a variable-length collection of one element type.
type Sequence struct {
	Elem uint32
}

func (Sequence) isType() {}

// Tuple is an ordered, fixed list of element types.
type Tuple struct {
	Elems []uint32
}

func (Tuple) isType() {}

// Compact wraps an integer type with compact encoding.
type Compact struct {
	Elem uint32
}

func (Compact) isType() {}

// Module returns the module with the given name.
func (d *Document) Module(name string) (*Module, bool) {
	for i := range d.Modules {
		if d.Modules[i].Name == name {
			return &d.Modules[i], true
		}
	}
	return nil, false
}

// Type returns the type definition with the given id.
func (d *Document) Type(id uint32) (Type, bool) {
	if uint64(id) >= uint64(len(d.Types)) {
		return nil, false
	}
	return d.Types[id], true
}

// Call returns the call with the given local index.
func (m *Module) Call(index uint32) (*Call, bool) {
	for i := range m.Calls {
		if m.Calls[i].Index == index {
			return &m.Calls[i], true
		}
	}
	return nil, false
}

// Event returns the event with the given local index.
func (m *Module) Event(index uint32) (*Event, bool) {
	for i := range m.Events {
		if m.Events[i].Index == index {
			return &m.Events[i], true
		}
	}
	return nil, false
}

// Error returns the error definition with the given local index.
func (m *Module) Error(index uint32) (*ErrorDef, bool) {
	for i := range m.Errors {
		if m.Errors[i].Index == index {
			return &m.Errors[i], true
		}
	}
	return nil, false
}

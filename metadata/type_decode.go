package metadata

import (
	"math"

	"github.com/chainmeta/metacheck/errors"
	"github.com/chainmeta/metacheck/scale"
)

// Type definition kind discriminants. The registry encoding is shared by
// all schema generations.
const (
	typeKindPrimitive byte = 0x00
	typeKindComposite byte = 0x01
	typeKindVariant   byte = 0x02
	typeKindSequence  byte = 0x03
	typeKindTuple     byte = 0x04
	typeKindCompact   byte = 0x05
)

func decodeTypeRegistry(r *scale.Reader) ([]Type, error) {
	return scale.ReadSequence(r, decodeType)
}

func decodeType(r *scale.Reader) (Type, error) {
	off := r.Position()
	kind, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	switch kind {
	case typeKindPrimitive:
		poff := r.Position()
		p, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if Primitive(p) > PrimStr {
			return nil, errors.UnrecognizedVariant(errors.StageDecode,
				[]string{"types", "primitive"}, uint64(p), poff)
		}
		return Primitive(p), nil

	case typeKindComposite:
		fields, err := decodeFields(r)
		if err != nil {
			return nil, err
		}
		return Composite{Fields: fields}, nil

	case typeKindVariant:
		cases, err := scale.ReadSequence(r, decodeCase)
		if err != nil {
			return nil, err
		}
		return Variant{Cases: cases}, nil

	case typeKindSequence:
		elem, err := readTypeID(r)
		if err != nil {
			return nil, err
		}
		return Sequence{Elem: elem}, nil

	case typeKindTuple:
		elems, err := scale.ReadSequence(r, readTypeID)
		if err != nil {
			return nil, err
		}
		return Tuple{Elems: elems}, nil

	case typeKindCompact:
		elem, err := readTypeID(r)
		if err != nil {
			return nil, err
		}
		return Compact{Elem: elem}, nil

	default:
		return nil, errors.UnrecognizedVariant(errors.StageDecode,
			[]string{"types"}, uint64(kind), off)
	}
}

func decodeFields(r *scale.Reader) ([]Field, error) {
	return scale.ReadSequence(r, func(r *scale.Reader) (Field, error) {
		name, err := r.ReadString()
		if err != nil {
			return Field{}, err
		}
		id, err := readTypeID(r)
		if err != nil {
			return Field{}, err
		}
		return Field{Name: name, Type: id}, nil
	})
}

func decodeCase(r *scale.Reader) (Case, error) {
	name, err := r.ReadString()
	if err != nil {
		return Case{}, err
	}
	fields, err := decodeFields(r)
	if err != nil {
		return Case{}, err
	}
	return Case{Name: name, Fields: fields}, nil
}

// readTypeID reads a compact type index. Indices are dense positions in
// the registry, so anything past u32 range can never resolve.
func readTypeID(r *scale.Reader) (uint32, error) {
	off := r.Position()
	id, err := r.ReadCompact()
	if err != nil {
		return 0, err
	}
	if id > math.MaxUint32 {
		return 0, errors.InvalidCompact(off, "type index exceeds u32 range")
	}
	return uint32(id), nil
}

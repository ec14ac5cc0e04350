package metadata

import (
	"math"

	"github.com/chainmeta/metacheck/errors"
	"github.com/chainmeta/metacheck/scale"
)

// The third schema generation tags calls, events and errors with explicit
// local indices instead of relying on declaration order, documents the
// module itself, and extends storage entries with modifiers, default
// values and hashed maps.

func decodeV3(r *scale.Reader) (*Document, error) {
	types, err := decodeTypeRegistry(r)
	if err != nil {
		return nil, err
	}
	modules, err := scale.ReadSequence(r, decodeModuleV3)
	if err != nil {
		return nil, err
	}
	return &Document{Version: V3, Modules: modules, Types: types}, nil
}

func decodeModuleV3(r *scale.Reader) (Module, error) {
	name, err := r.ReadString()
	if err != nil {
		return Module{}, err
	}
	docs, err := decodeDocs(r)
	if err != nil {
		return Module{}, err
	}

	calls, err := scale.ReadSequence(r, func(r *scale.Reader) (Call, error) {
		index, err := readLocalIndex(r)
		if err != nil {
			return Call{}, err
		}
		name, err := r.ReadString()
		if err != nil {
			return Call{}, err
		}
		args, err := decodeArgs(r)
		if err != nil {
			return Call{}, err
		}
		docs, err := decodeDocs(r)
		if err != nil {
			return Call{}, err
		}
		return Call{Index: index, Name: name, Args: args, Docs: docs}, nil
	})
	if err != nil {
		return Module{}, err
	}

	events, err := scale.ReadSequence(r, func(r *scale.Reader) (Event, error) {
		index, err := readLocalIndex(r)
		if err != nil {
			return Event{}, err
		}
		name, err := r.ReadString()
		if err != nil {
			return Event{}, err
		}
		args, err := decodeArgs(r)
		if err != nil {
			return Event{}, err
		}
		docs, err := decodeDocs(r)
		if err != nil {
			return Event{}, err
		}
		return Event{Index: index, Name: name, Args: args, Docs: docs}, nil
	})
	if err != nil {
		return Module{}, err
	}

	errDefs, err := scale.ReadSequence(r, func(r *scale.Reader) (ErrorDef, error) {
		index, err := readLocalIndex(r)
		if err != nil {
			return ErrorDef{}, err
		}
		name, err := r.ReadString()
		if err != nil {
			return ErrorDef{}, err
		}
		docs, err := decodeDocs(r)
		if err != nil {
			return ErrorDef{}, err
		}
		return ErrorDef{Index: index, Name: name, Docs: docs}, nil
	})
	if err != nil {
		return Module{}, err
	}

	storage, err := decodeStorageV3(r, name)
	if err != nil {
		return Module{}, err
	}

	return Module{
		Name:    name,
		Docs:    docs,
		Calls:   calls,
		Events:  events,
		Errors:  errDefs,
		Storage: storage,
	}, nil
}

func decodeStorageV3(r *scale.Reader, module string) ([]StorageItem, error) {
	off := r.Position()
	present, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch present {
	case 0x00:
		return nil, nil
	case 0x01:
	default:
		return nil, errors.UnrecognizedVariant(errors.StageDecode,
			[]string{module, "storage"}, uint64(present), off)
	}

	return scale.ReadSequence(r, func(r *scale.Reader) (StorageItem, error) {
		return decodeStorageItemV3(r, module)
	})
}

func decodeStorageItemV3(r *scale.Reader, module string) (StorageItem, error) {
	name, err := r.ReadString()
	if err != nil {
		return StorageItem{}, err
	}
	item := StorageItem{Name: name}

	off := r.Position()
	mod, err := r.ReadByte()
	if err != nil {
		return StorageItem{}, err
	}
	switch StorageModifier(mod) {
	case StorageOptional:
		item.Modifier = StorageOptional
	case StorageDefault:
		item.Modifier = StorageDefault
		def, err := r.ReadByteSlice()
		if err != nil {
			return StorageItem{}, err
		}
		item.Default = def
	default:
		return StorageItem{}, errors.UnrecognizedVariant(errors.StageDecode,
			[]string{module, "storage", name, "modifier"}, uint64(mod), off)
	}

	off = r.Position()
	kind, err := r.ReadByte()
	if err != nil {
		return StorageItem{}, err
	}
	switch StorageKind(kind) {
	case StoragePlain:
		item.Kind = StoragePlain
		value, err := readTypeID(r)
		if err != nil {
			return StorageItem{}, err
		}
		item.Value = value

	case StorageMap:
		item.Kind = StorageMap
		hoff := r.Position()
		hasher, err := r.ReadByte()
		if err != nil {
			return StorageItem{}, err
		}
		if Hasher(hasher) > HasherTwox64 {
			return StorageItem{}, errors.UnrecognizedVariant(errors.StageDecode,
				[]string{module, "storage", name, "hasher"}, uint64(hasher), hoff)
		}
		item.Hasher = Hasher(hasher)
		key, err := readTypeID(r)
		if err != nil {
			return StorageItem{}, err
		}
		value, err := readTypeID(r)
		if err != nil {
			return StorageItem{}, err
		}
		item.Key = key
		item.Value = value

	default:
		return StorageItem{}, errors.UnrecognizedVariant(errors.StageDecode,
			[]string{module, "storage", name, "kind"}, uint64(kind), off)
	}

	docs, err := decodeDocs(r)
	if err != nil {
		return StorageItem{}, err
	}
	item.Docs = docs
	return item, nil
}

// readLocalIndex reads an explicit compact local index.
func readLocalIndex(r *scale.Reader) (uint32, error) {
	off := r.Position()
	index, err := r.ReadCompact()
	if err != nil {
		return 0, err
	}
	if index > math.MaxUint32 {
		return 0, errors.InvalidCompact(off, "local index exceeds u32 range")
	}
	return uint32(index), nil
}

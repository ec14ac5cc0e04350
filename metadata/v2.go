package metadata

import (
	"github.com/chainmeta/metacheck/errors"
	"github.com/chainmeta/metacheck/scale"
)

// The second schema generation adds documentation strings on calls and
// events, names event arguments, introduces error definitions, and adds
// an optional plain storage section. Local indices remain positional.

func decodeV2(r *scale.Reader) (*Document, error) {
	types, err := decodeTypeRegistry(r)
	if err != nil {
		return nil, err
	}
	modules, err := scale.ReadSequence(r, decodeModuleV2)
	if err != nil {
		return nil, err
	}
	return &Document{Version: V2, Modules: modules, Types: types}, nil
}

func decodeModuleV2(r *scale.Reader) (Module, error) {
	name, err := r.ReadString()
	if err != nil {
		return Module{}, err
	}

	calls, err := scale.ReadSequence(r, func(r *scale.Reader) (Call, error) {
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
		return Call{Name: name, Args: args, Docs: docs}, nil
	})
	if err != nil {
		return Module{}, err
	}

	events, err := scale.ReadSequence(r, func(r *scale.Reader) (Event, error) {
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
		return Event{Name: name, Args: args, Docs: docs}, nil
	})
	if err != nil {
		return Module{}, err
	}

	errDefs, err := scale.ReadSequence(r, func(r *scale.Reader) (ErrorDef, error) {
		name, err := r.ReadString()
		if err != nil {
			return ErrorDef{}, err
		}
		docs, err := decodeDocs(r)
		if err != nil {
			return ErrorDef{}, err
		}
		return ErrorDef{Name: name, Docs: docs}, nil
	})
	if err != nil {
		return Module{}, err
	}

	storage, err := decodeStorageV2(r, name)
	if err != nil {
		return Module{}, err
	}

	m := Module{Name: name, Calls: calls, Events: events, Errors: errDefs, Storage: storage}
	assignPositionalIndices(&m)
	return m, nil
}

// decodeStorageV2 reads the optional storage section: a presence byte
// followed by plain entries. v2 has no modifiers, defaults or maps.
func decodeStorageV2(r *scale.Reader, module string) ([]StorageItem, error) {
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
		name, err := r.ReadString()
		if err != nil {
			return StorageItem{}, err
		}
		value, err := readTypeID(r)
		if err != nil {
			return StorageItem{}, err
		}
		docs, err := decodeDocs(r)
		if err != nil {
			return StorageItem{}, err
		}
		return StorageItem{Name: name, Kind: StoragePlain, Value: value, Docs: docs}, nil
	})
}

func decodeDocs(r *scale.Reader) ([]string, error) {
	return scale.ReadSequence(r, func(r *scale.Reader) (string, error) {
		return r.ReadString()
	})
}

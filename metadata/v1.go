package metadata

import (
	"github.com/chainmeta/metacheck/scale"
)

// The first schema generation: modules carry calls and events only.
// Error definitions, storage and documentation do not exist on the wire
// and stay at their neutral defaults in the normalized document.

func decodeV1(r *scale.Reader) (*Document, error) {
	types, err := decodeTypeRegistry(r)
	if err != nil {
		return nil, err
	}
	modules, err := scale.ReadSequence(r, decodeModuleV1)
	if err != nil {
		return nil, err
	}
	return &Document{Version: V1, Modules: modules, Types: types}, nil
}

func decodeModuleV1(r *scale.Reader) (Module, error) {
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
		return Call{Name: name, Args: args}, nil
	})
	if err != nil {
		return Module{}, err
	}

	// v1 events reference argument types without names
	events, err := scale.ReadSequence(r, func(r *scale.Reader) (Event, error) {
		name, err := r.ReadString()
		if err != nil {
			return Event{}, err
		}
		ids, err := scale.ReadSequence(r, readTypeID)
		if err != nil {
			return Event{}, err
		}
		args := make([]Arg, len(ids))
		for i, id := range ids {
			args[i] = Arg{Type: id}
		}
		return Event{Name: name, Args: args}, nil
	})
	if err != nil {
		return Module{}, err
	}

	m := Module{Name: name, Calls: calls, Events: events}
	assignPositionalIndices(&m)
	return m, nil
}

// decodeArgs reads a sequence of named, typed arguments. Shared by every
// generation that names its arguments.
func decodeArgs(r *scale.Reader) ([]Arg, error) {
	return scale.ReadSequence(r, func(r *scale.Reader) (Arg, error) {
		name, err := r.ReadString()
		if err != nil {
			return Arg{}, err
		}
		id, err := readTypeID(r)
		if err != nil {
			return Arg{}, err
		}
		return Arg{Name: name, Type: id}, nil
	})
}

// assignPositionalIndices numbers calls, events and errors by declaration
// order. Generations before v3 do not encode local indices explicitly.
func assignPositionalIndices(m *Module) {
	for i := range m.Calls {
		m.Calls[i].Index = uint32(i)
	}
	for i := range m.Events {
		m.Events[i].Index = uint32(i)
	}
	for i := range m.Errors {
		m.Errors[i].Index = uint32(i)
	}
}

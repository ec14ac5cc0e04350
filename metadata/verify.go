package metadata

import (
	"fmt"

	"github.com/chainmeta/metacheck/errors"
)

// Verify checks the structural invariants of a decoded document and
// returns the first violation found. Checks run in a fixed order so the
// reported violation is deterministic for identical input:
//
//  1. every type reference resolves within the registry
//  2. module names are unique
//  3. call/event/error local indices are contiguous from 0
//  4. field names are unique within each composite and variant case
//
// Verification is read-only; the document is never modified.
func Verify(doc *Document) error {
	if err := checkTypeReferences(doc); err != nil {
		return err
	}
	if err := checkModuleNames(doc); err != nil {
		return err
	}
	if err := checkLocalIndices(doc); err != nil {
		return err
	}
	return checkFieldNames(doc)
}

func checkTypeReferences(doc *Document) error {
	resolve := func(id uint32, path ...string) error {
		if uint64(id) < uint64(len(doc.Types)) {
			return nil
		}
		return errors.Violation(errors.KindDanglingTypeRef, path,
			fmt.Sprintf("type %d not in registry of %d types", id, len(doc.Types)))
	}

	for _, m := range doc.Modules {
		for _, c := range m.Calls {
			for _, a := range c.Args {
				if err := resolve(a.Type, m.Name, "calls", c.Name, a.Name); err != nil {
					return err
				}
			}
		}
		for _, e := range m.Events {
			for _, a := range e.Args {
				if err := resolve(a.Type, m.Name, "events", e.Name, a.Name); err != nil {
					return err
				}
			}
		}
		for _, s := range m.Storage {
			if s.Kind == StorageMap {
				if err := resolve(s.Key, m.Name, "storage", s.Name, "key"); err != nil {
					return err
				}
			}
			if err := resolve(s.Value, m.Name, "storage", s.Name, "value"); err != nil {
				return err
			}
		}
	}

	for id, t := range doc.Types {
		path := func(rest ...string) []string {
			return append([]string{"types", fmt.Sprint(id)}, rest...)
		}
		switch t := t.(type) {
		case Composite:
			for _, f := range t.Fields {
				if err := resolve(f.Type, path(f.Name)...); err != nil {
					return err
				}
			}
		case Variant:
			for _, c := range t.Cases {
				for _, f := range c.Fields {
					if err := resolve(f.Type, path(c.Name, f.Name)...); err != nil {
						return err
					}
				}
			}
		case Sequence:
			if err := resolve(t.Elem, path("elem")...); err != nil {
				return err
			}
		case Tuple:
			for i, e := range t.Elems {
				if err := resolve(e, path(fmt.Sprint(i))...); err != nil {
					return err
				}
			}
		case Compact:
			if err := resolve(t.Elem, path("elem")...); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkModuleNames(doc *Document) error {
	seen := make(map[string]struct{}, len(doc.Modules))
	for _, m := range doc.Modules {
		if _, dup := seen[m.Name]; dup {
			return errors.Violation(errors.KindDuplicateModule,
				[]string{m.Name}, "module name declared more than once")
		}
		seen[m.Name] = struct{}{}
	}
	return nil
}

// checkLocalIndices verifies that each module's call, event and error
// indices cover 0..n-1 exactly once. Gaps or duplicates would make
// index-based decoding of on-chain data ambiguous.
func checkLocalIndices(doc *Document) error {
	check := func(module, section string, indices []uint32) error {
		seen := make(map[uint32]struct{}, len(indices))
		for _, idx := range indices {
			if uint64(idx) >= uint64(len(indices)) {
				return errors.Violation(errors.KindNonContiguousIndex,
					[]string{module, section},
					fmt.Sprintf("index %d out of range for %d entries", idx, len(indices)))
			}
			if _, dup := seen[idx]; dup {
				return errors.Violation(errors.KindNonContiguousIndex,
					[]string{module, section},
					fmt.Sprintf("index %d declared more than once", idx))
			}
			seen[idx] = struct{}{}
		}
		return nil
	}

	for _, m := range doc.Modules {
		calls := make([]uint32, len(m.Calls))
		for i, c := range m.Calls {
			calls[i] = c.Index
		}
		if err := check(m.Name, "calls", calls); err != nil {
			return err
		}

		events := make([]uint32, len(m.Events))
		for i, e := range m.Events {
			events[i] = e.Index
		}
		if err := check(m.Name, "events", events); err != nil {
			return err
		}

		errs := make([]uint32, len(m.Errors))
		for i, e := range m.Errors {
			errs[i] = e.Index
		}
		if err := check(m.Name, "errors", errs); err != nil {
			return err
		}
	}
	return nil
}

func checkFieldNames(doc *Document) error {
	unique := func(fields []Field, path ...string) error {
		seen := make(map[string]struct{}, len(fields))
		for _, f := range fields {
			if f.Name == "" {
				continue
			}
			if _, dup := seen[f.Name]; dup {
				return errors.Violation(errors.KindDuplicateField,
					append(path, f.Name), "field name declared more than once")
			}
			seen[f.Name] = struct{}{}
		}
		return nil
	}

	for id, t := range doc.Types {
		switch t := t.(type) {
		case Composite:
			if err := unique(t.Fields, "types", fmt.Sprint(id)); err != nil {
				return err
			}
		case Variant:
			cases := make(map[string]struct{}, len(t.Cases))
			for _, c := range t.Cases {
				if _, dup := cases[c.Name]; dup {
					return errors.Violation(errors.KindDuplicateField,
						[]string{"types", fmt.Sprint(id), c.Name},
						"variant case declared more than once")
				}
				cases[c.Name] = struct{}{}
				if err := unique(c.Fields, "types", fmt.Sprint(id), c.Name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

package nature

import "slices"

// Group tags the named Fields, or every Field when names is empty.
func (s *Schema) Group(group string, names ...string) error {
	fields, err := s.selectFields(names)
	for _, f := range fields {
		f.addGroups(group)
	}
	return err
}

// Ungroup removes the tag from the named Fields, or from every Field.
func (s *Schema) Ungroup(group string, names ...string) error {
	fields, err := s.selectFields(names)
	for _, f := range fields {
		f.removeGroup(group)
	}
	return err
}

// selectFields resolves names to Fields. Unknown names are structural errors;
// the known ones are still returned.
func (s *Schema) selectFields(names []string) ([]*Field, error) {
	if len(names) == 0 {
		return s.Fields(), nil
	}
	out := make([]*Field, 0, len(names))
	var firstErr error
	for _, name := range names {
		f, ok := s.Field(name)
		if !ok {
			if err := s.fail(structural(CodeUnknownField, name, "field does not exist: %q", name)); err != nil && firstErr == nil {
				firstErr = err
			}
			continue
		}
		out = append(out, f)
	}
	return out, firstErr
}

// Filter selects Fields for Where. Zero values do not filter.
type Filter struct {
	Group        string   // keep Fields tagged with Group
	ExcludeNames []string // drop Fields with these names
}

func (flt Filter) match(f *Field) bool {
	if flt.Group != "" && !f.HasGroup(flt.Group) {
		return false
	}
	return !slices.Contains(flt.ExcludeNames, f.name)
}

// Where returns a new Schema holding the Fields that match filter. The result
// is a live view: it shares Field objects with s, so values set through the
// view are visible on s and vice versa. Use Clone on the result for an
// independent copy.
func (s *Schema) Where(filter Filter) *Schema {
	view := New(s.options()...)
	for _, name := range s.order {
		if f := s.fields[name]; filter.match(f) {
			view.insert(f)
		}
	}
	return view
}

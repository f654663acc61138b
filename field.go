package nature

import (
	"fmt"
	"slices"

	"github.com/reoring/nature/internal/kind"
)

// Field is a single named, typed slot. Its validity is recomputed by every
// mutating method, so Valid and Messages always describe the current state.
type Field struct {
	name          string
	alias         string
	typ           Type
	value         any
	def           any
	tests         []ValueTest
	required      bool
	invalidMsg    string
	groups        []string
	defaultOption bool

	policy OnInvalid
	owner  *Schema

	issues     Issues
	typeValid  bool
	valueValid bool
}

// FieldOption customizes a Field at construction.
type FieldOption func(*Field)

// FieldOnInvalid sets the OnInvalid policy of a standalone field. Fields
// registered on a Schema take the Schema's policy.
func FieldOnInvalid(p OnInvalid) FieldOption {
	return func(f *Field) { f.policy = p }
}

// NewField builds a Field from def. An empty name is a StructuralError. Under
// InvalidRaise an invalid initial value returns a *ValidationFailure.
func NewField(def Definition, opts ...FieldOption) (*Field, error) {
	if def.Name == "" {
		return nil, structural(CodeMissingName, "", "must specify a name on the field")
	}
	f := &Field{
		name:          def.Name,
		alias:         def.Alias,
		typ:           def.Type,
		def:           def.Default,
		tests:         slices.Clone(def.ValueTests),
		required:      def.Required,
		invalidMsg:    def.InvalidMsg,
		defaultOption: def.DefaultOption,
	}
	f.addGroups(def.Groups...)
	for _, opt := range opts {
		opt(f)
	}
	initial := def.Value
	if initial == nil {
		initial = def.Default
	}
	if err := f.SetValue(initial); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Field) Name() string            { return f.name }
func (f *Field) Alias() string           { return f.alias }
func (f *Field) Type() Type              { return f.typ }
func (f *Field) Value() any              { return f.value }
func (f *Field) Default() any            { return f.def }
func (f *Field) Required() bool          { return f.required }
func (f *Field) InvalidMsg() string      { return f.invalidMsg }
func (f *Field) DefaultOption() bool     { return f.defaultOption }
func (f *Field) ValueTests() []ValueTest { return slices.Clone(f.tests) }
func (f *Field) Groups() []string        { return slices.Clone(f.groups) }
func (f *Field) HasGroup(g string) bool  { return slices.Contains(f.groups, g) }
func (f *Field) HasValue() bool          { return f.value != nil }
func (f *Field) Valid() bool             { return f.typeValid && f.valueValid }
func (f *Field) Issues() Issues          { return slices.Clone(f.issues) }
func (f *Field) Messages() []string      { return f.issues.Messages() }
func (f *Field) setPolicy(p OnInvalid)   { f.policy = p }

// SetValue coerces v according to the declared type, stores it and
// revalidates. A nil v clears the value.
func (f *Field) SetValue(v any) error {
	f.value = f.typ.coerce(v)
	return f.validate()
}

// Unset clears the value.
func (f *Field) Unset() error { return f.SetValue(nil) }

// SetType replaces the declared type and revalidates the current value
// without coercing it again.
func (f *Field) SetType(t Type) error {
	f.typ = t
	return f.validate()
}

// SetValueTests replaces the value tests and revalidates.
func (f *Field) SetValueTests(tests ...ValueTest) error {
	f.tests = slices.Clone(tests)
	return f.validate()
}

// SetRequired toggles requiredness and revalidates.
func (f *Field) SetRequired(required bool) error {
	f.required = required
	return f.validate()
}

// SetInvalidMsg replaces the default failure text and revalidates.
func (f *Field) SetInvalidMsg(msg string) error {
	f.invalidMsg = msg
	return f.validate()
}

// Definition returns a snapshot of the field's declaration with the current
// value as Value.
func (f *Field) Definition() Definition {
	return Definition{
		Name:          f.name,
		Alias:         f.alias,
		Type:          f.typ,
		Value:         kind.Copy(f.value),
		Default:       f.def,
		ValueTests:    slices.Clone(f.tests),
		Required:      f.required,
		InvalidMsg:    f.invalidMsg,
		Groups:        slices.Clone(f.groups),
		DefaultOption: f.defaultOption,
	}
}

// clone returns a detached copy without an owner. Validation state is copied
// rather than recomputed so value tests do not run against a missing owner.
func (f *Field) clone() *Field {
	cp := *f
	cp.value = kind.Copy(f.value)
	cp.tests = slices.Clone(f.tests)
	cp.groups = slices.Clone(f.groups)
	cp.issues = slices.Clone(f.issues)
	cp.owner = nil
	return &cp
}

func (f *Field) addGroups(groups ...string) {
	for _, g := range groups {
		if !slices.Contains(f.groups, g) {
			f.groups = append(f.groups, g)
		}
	}
}

func (f *Field) removeGroup(g string) {
	f.groups = slices.DeleteFunc(f.groups, func(x string) bool { return x == g })
}

func (f *Field) failMsg(fallback string) string {
	if f.invalidMsg != "" {
		return f.invalidMsg
	}
	return fallback
}

func (f *Field) validate() error {
	f.issues = nil

	f.typeValid = f.typ.Check(f.value)
	if !f.typeValid {
		f.issues = AppendIssues(f.issues, issueAt(f.name, CodeInvalidType,
			f.failMsg("Invalid type: "+kind.Format(f.value)),
			map[string]any{"expected": f.typ.String()}))
	}

	if f.value == nil {
		f.valueValid = !f.required
		if f.required {
			f.issues = AppendIssues(f.issues, issueAt(f.name, CodeRequired, f.failMsg("Missing required value"), nil))
		}
	} else {
		f.valueValid = f.runValueTests()
		if !f.valueValid {
			f.issues = AppendIssues(f.issues, issueAt(f.name, CodeInvalidValue,
				f.failMsg("Invalid value: "+kind.Format(f.value)), nil))
		}
	}

	if f.policy == InvalidRaise && !f.Valid() {
		return &ValidationFailure{Field: f.name, Issues: f.Issues()}
	}
	return nil
}

// runValueTests runs every test, so that messages from all predicates are
// collected, and reports whether all of them passed.
func (f *Field) runValueTests() bool {
	ok := true
	for _, t := range f.tests {
		if t == nil {
			continue
		}
		h := &Helper{field: f}
		passed, panicked := runValueTest(t, f.value, h)
		for i, msg := range h.messages {
			it := issueAt(f.name, CodeCustom, msg, nil)
			it.Cause = h.causes[i]
			f.issues = AppendIssues(f.issues, it)
		}
		if panicked != nil {
			it := issueAt(f.name, CodeValueTestPanic,
				fmt.Sprintf("value test panicked: %v", panicked), map[string]any{"panic": panicked})
			if err, ok := panicked.(error); ok {
				it.Cause = err
			}
			f.issues = AppendIssues(f.issues, it)
		}
		if !passed {
			ok = false
		}
	}
	return ok
}

func runValueTest(t ValueTest, v any, h *Helper) (passed bool, panicked any) {
	defer func() {
		if r := recover(); r != nil {
			passed, panicked = false, r
		}
	}()
	return t.Test(v, h), nil
}

package nature

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/reoring/nature/internal/kind"
)

// Schema is an ordered collection of Fields keyed by name, with a separate
// alias index. A Schema is owned by one caller at a time; it has no locking.
type Schema struct {
	order   []string
	fields  map[string]*Field
	aliases map[string]string // alias -> field name

	errs    []error
	policy  OnInvalid
	onError func(error)
	logger  zerolog.Logger
}

// Option configures a Schema.
type Option func(*Schema)

// WithOnInvalid sets the policy propagated to every Field the Schema owns.
func WithOnInvalid(p OnInvalid) Option {
	return func(s *Schema) { s.policy = p }
}

// WithErrorListener attaches a listener for structural errors. While a
// listener is attached, structural errors are still recorded in Errors but are
// delivered to fn instead of being returned.
func WithErrorListener(fn func(error)) Option {
	return func(s *Schema) { s.onError = fn }
}

// WithLogger sets the logger used for define and ingestion events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Schema) { s.logger = l }
}

// New returns an empty Schema.
func New(opts ...Option) *Schema {
	s := &Schema{
		fields:  map[string]*Field{},
		aliases: map[string]string{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Schema) options() []Option {
	return []Option{WithOnInvalid(s.policy), WithErrorListener(s.onError), WithLogger(s.logger)}
}

// OnInvalid returns the Schema's policy.
func (s *Schema) OnInvalid() OnInvalid { return s.policy }

// SetOnInvalid changes the policy on the Schema and every Field it holds. It
// does not revalidate.
func (s *Schema) SetOnInvalid(p OnInvalid) {
	s.policy = p
	for _, f := range s.fields {
		f.setPolicy(p)
	}
}

// fail records a structural error and returns it unless a listener is attached.
func (s *Schema) fail(err *StructuralError) error {
	s.errs = append(s.errs, err)
	s.logger.Warn().Str("code", err.Code).Str("name", err.Name).Msg(err.Message)
	if s.onError != nil {
		s.onError(err)
		return nil
	}
	return err
}

// Define creates one Field per definition, replacing any Field with the same
// name. It stops at the first error returned. Initial values never raise, even
// under InvalidRaise: a required Field without a default is registered invalid.
func (s *Schema) Define(defs ...Definition) error {
	return s.DefineInGroups(nil, defs...)
}

// DefineInGroups is Define with every new Field tagged with groups.
func (s *Schema) DefineInGroups(groups []string, defs ...Definition) error {
	if len(defs) == 0 {
		return s.fail(structural(CodeInvalidDefinition, "", "missing definition"))
	}
	for _, def := range defs {
		if len(groups) > 0 {
			def.Groups = append(slices.Clone(def.Groups), groups...)
		}
		// The initial value is recorded, never raised; only later mutations
		// follow the Schema's policy.
		f, err := NewField(def, FieldOnInvalid(InvalidRecord), withOwner(s))
		if err != nil {
			var se *StructuralError
			if errors.As(err, &se) {
				if err := s.fail(se); err != nil {
					return err
				}
				continue
			}
			return err
		}
		f.setPolicy(s.policy)
		if err := s.register(f); err != nil {
			return err
		}
	}
	return nil
}

func withOwner(s *Schema) FieldOption {
	return func(f *Field) { f.owner = s }
}

// register adds f, replacing a same-named Field and its alias. A conflicting
// alias (or a name already used as an alias) leaves the Schema untouched.
func (s *Schema) register(f *Field) error {
	name := f.name
	if f.alias != "" {
		if owner, taken := s.resolve(f.alias); taken && owner != name {
			return s.fail(structural(CodeAliasConflict, f.alias,
				"cannot define %q: alias %q already used by %q", name, f.alias, owner))
		}
	}
	if owner, taken := s.aliases[name]; taken && owner != name {
		return s.fail(structural(CodeAliasConflict, name,
			"cannot define %q: name already used as an alias of %q", name, owner))
	}
	existing, redefined := s.fields[name]
	if redefined {
		if existing.alias != "" {
			delete(s.aliases, existing.alias)
		}
	}
	s.insert(f)
	s.logger.Debug().Str("field", name).Str("alias", f.alias).Bool("redefined", redefined).Msg("defined field")
	return nil
}

// insert adds f and its alias without any conflict checks.
func (s *Schema) insert(f *Field) {
	if _, ok := s.fields[f.name]; !ok {
		s.order = append(s.order, f.name)
	}
	if f.alias != "" {
		s.aliases[f.alias] = f.name
	}
	s.fields[f.name] = f
}

// resolve maps a name or alias to the owning field name.
func (s *Schema) resolve(nameOrAlias string) (string, bool) {
	if _, ok := s.fields[nameOrAlias]; ok {
		return nameOrAlias, true
	}
	name, ok := s.aliases[nameOrAlias]
	return name, ok
}

// Field looks up a Field by name or alias.
func (s *Schema) Field(nameOrAlias string) (*Field, bool) {
	name, ok := s.resolve(nameOrAlias)
	if !ok {
		return nil, false
	}
	return s.fields[name], true
}

// Fields returns the Fields in registration order.
func (s *Schema) Fields() []*Field {
	out := make([]*Field, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.fields[name])
	}
	return out
}

// Names returns the field names in registration order.
func (s *Schema) Names() []string { return slices.Clone(s.order) }

// Len returns the number of Fields.
func (s *Schema) Len() int { return len(s.order) }

// Get returns the value of the named (or aliased) Field, or nil.
func (s *Schema) Get(nameOrAlias string) any {
	if f, ok := s.Field(nameOrAlias); ok {
		return f.value
	}
	return nil
}

// Set assigns value to the named (or aliased) Field. An unknown name is a
// structural error.
func (s *Schema) Set(nameOrAlias string, value any) error {
	f, ok := s.Field(nameOrAlias)
	if !ok {
		return s.fail(structural(CodeUnknownField, nameOrAlias, "cannot set unknown field %q", nameOrAlias))
	}
	return f.SetValue(value)
}

// SetValues assigns every entry of values, in sorted key order.
func (s *Schema) SetValues(values map[string]any) error {
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if err := s.Set(key, values[key]); err != nil {
			return err
		}
	}
	return nil
}

// SetFrom copies the value of every Field defined on src onto the Field of
// the same name. Slice and map values are copied, not shared.
func (s *Schema) SetFrom(src *Schema) error {
	if src == nil {
		return s.fail(structural(CodeInvalidDefinition, "", "cannot set values from a nil schema"))
	}
	for _, name := range src.order {
		if err := s.Set(name, kind.Copy(src.fields[name].value)); err != nil {
			return err
		}
	}
	return nil
}

// Unset clears the value of the named Field; the Field and its alias stay.
func (s *Schema) Unset(nameOrAlias string) error {
	f, ok := s.Field(nameOrAlias)
	if !ok {
		return s.fail(structural(CodeUnknownField, nameOrAlias, "cannot unset unknown field %q", nameOrAlias))
	}
	return f.Unset()
}

// HasValue reports whether at least one of the named Fields holds a value.
func (s *Schema) HasValue(names ...string) bool {
	for _, name := range names {
		if f, ok := s.Field(name); ok && f.HasValue() {
			return true
		}
	}
	return false
}

// Valid reports whether no structural error was recorded and every Field is
// valid. It is computed on every call.
func (s *Schema) Valid() bool {
	if len(s.errs) > 0 {
		return false
	}
	for _, f := range s.fields {
		if !f.Valid() {
			return false
		}
	}
	return true
}

// Errors returns the recorded structural errors.
func (s *Schema) Errors() []error { return slices.Clone(s.errs) }

// FieldMessages holds the validation messages of one Field.
type FieldMessages struct {
	Field    string
	Messages []string
}

// FieldMessagesList is the per-field message report of a Schema.
type FieldMessagesList []FieldMessages

// String renders one "name:\tmessage" line per message.
func (l FieldMessagesList) String() string {
	b := &strings.Builder{}
	for _, fm := range l {
		for _, msg := range fm.Messages {
			b.WriteString(fm.Field)
			b.WriteString(":\t")
			b.WriteString(msg)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ValidationMessages lists every Field that currently has messages, in
// registration order.
func (s *Schema) ValidationMessages() FieldMessagesList {
	var out FieldMessagesList
	for _, name := range s.order {
		if msgs := s.fields[name].Messages(); len(msgs) > 0 {
			out = append(out, FieldMessages{Field: name, Messages: msgs})
		}
	}
	return out
}

// Issues returns structural errors followed by per-field validation issues.
func (s *Schema) Issues() Issues {
	var out Issues
	for _, err := range s.errs {
		collectIssues(err, &out)
	}
	for _, name := range s.order {
		out = AppendIssues(out, s.fields[name].issues...)
	}
	return out
}

// Err returns nil when the Schema is valid and its Issues otherwise.
func (s *Schema) Err() error {
	if s.Valid() {
		return nil
	}
	return s.Issues()
}

// Clone returns a Schema holding independent copies of every Field. Recorded
// structural errors are carried over so the copy reports the same validity.
func (s *Schema) Clone() *Schema {
	c := New(s.options()...)
	for _, name := range s.order {
		f := s.fields[name].clone()
		f.owner = c
		c.insert(f)
	}
	c.errs = slices.Clone(s.errs)
	return c
}

// MixIn defines a copy of every Field of other on s, tagging the copies with
// groups. Name and alias rules are the same as Define.
func (s *Schema) MixIn(other *Schema, groups ...string) error {
	if other == nil {
		return s.fail(structural(CodeInvalidDefinition, "", "mixIn: must pass a schema"))
	}
	for _, f := range other.Fields() {
		if err := s.DefineInGroups(groups, f.Definition()); err != nil {
			return err
		}
	}
	return nil
}

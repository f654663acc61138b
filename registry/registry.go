// Package registry keeps named Schemas so that an application can classify,
// load and pass validated sets of configuration around.
package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/reoring/nature"
)

// ErrNotFound is returned when no Schema is registered under a name.
var ErrNotFound = errors.New("registry: schema not found")

// ErrDuplicate is returned when adding under a name that is already taken.
var ErrDuplicate = errors.New("registry: name already registered")

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger for registry events and for Schemas the registry
// builds itself (merged entries).
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// Registry manages named Schemas. Like Schema it is meant for a single owner
// and is not safe for concurrent use.
type Registry struct {
	schemas map[string]*nature.Schema
	order   []string
	logger  zerolog.Logger
}

// New creates a new empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{schemas: map[string]*nature.Schema{}, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers s under name. The Schema is stored as is, not copied.
func (r *Registry) Add(name string, s *nature.Schema) error {
	if s == nil {
		return fmt.Errorf("registry: add %q: nil schema", name)
	}
	return r.put(name, s)
}

// AddClone registers an independent copy of the Schema registered as from.
func (r *Registry) AddClone(name, from string) error {
	src, err := r.Get(from)
	if err != nil {
		return err
	}
	return r.put(name, src.Clone())
}

// AddMerged registers a new Schema holding copies of every Field of the
// Schemas registered under from. Each imported Field is grouped by the name it
// came from, so Where(nature.Filter{Group: from[i]}) selects it again.
func (r *Registry) AddMerged(name string, from ...string) error {
	if len(from) == 0 {
		return fmt.Errorf("registry: add %q: no schemas to merge", name)
	}
	merged := nature.New(nature.WithLogger(r.logger))
	for _, src := range from {
		s, err := r.Get(src)
		if err != nil {
			return err
		}
		if err := merged.MixIn(s, src); err != nil {
			return fmt.Errorf("registry: merge %q into %q: %w", src, name, err)
		}
	}
	return r.put(name, merged)
}

func (r *Registry) put(name string, s *nature.Schema) error {
	if name == "" {
		return fmt.Errorf("registry: empty name")
	}
	if _, ok := r.schemas[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.schemas[name] = s
	r.order = append(r.order, name)
	r.logger.Debug().Str("schema", name).Int("fields", s.Len()).Msg("registered schema")
	return nil
}

// Get returns the Schema registered under name.
func (r *Registry) Get(name string) (*nature.Schema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s, nil
}

// GetWithValues returns the registered Schema after assigning values to it.
// The registered instance is modified.
func (r *Registry) GetWithValues(name string, values map[string]any) (*nature.Schema, error) {
	s, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if err := s.SetValues(values); err != nil {
		return nil, err
	}
	return s, nil
}

// GetWithSchema returns the registered Schema after copying every value of
// from into it. Fields of from unknown to the registered Schema are an error.
func (r *Registry) GetWithSchema(name string, from *nature.Schema) (*nature.Schema, error) {
	s, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if err := s.SetFrom(from); err != nil {
		return nil, err
	}
	return s, nil
}

// GetWithArgs returns the registered Schema after ingesting a token vector.
func (r *Registry) GetWithArgs(name string, tokens []string) (*nature.Schema, error) {
	s, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if err := s.SetArgs(tokens); err != nil {
		return nil, err
	}
	return s, nil
}

// Names returns the registered names in the order they were added.
func (r *Registry) Names() []string { return slices.Clone(r.order) }

// Remove drops a registered Schema.
func (r *Registry) Remove(name string) error {
	if _, ok := r.schemas[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(r.schemas, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return nil
}

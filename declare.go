package nature

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/mitchellh/mapstructure"
)

// DefinitionSpec is the declarative (map/YAML/JSON) form of a Definition.
// Value tests are limited to what can be written as data: patterns, a literal
// and an enumeration.
type DefinitionSpec struct {
	Name          string   `mapstructure:"name" yaml:"name" json:"name"`
	Alias         string   `mapstructure:"alias" yaml:"alias,omitempty" json:"alias,omitempty"`
	Type          string   `mapstructure:"type" yaml:"type,omitempty" json:"type,omitempty"`
	Default       any      `mapstructure:"default" yaml:"default,omitempty" json:"default,omitempty"`
	Required      bool     `mapstructure:"required" yaml:"required,omitempty" json:"required,omitempty"`
	InvalidMsg    string   `mapstructure:"invalidMsg" yaml:"invalidMsg,omitempty" json:"invalidMsg,omitempty"`
	Groups        []string `mapstructure:"groups" yaml:"groups,omitempty" json:"groups,omitempty"`
	DefaultOption bool     `mapstructure:"defaultOption" yaml:"defaultOption,omitempty" json:"defaultOption,omitempty"`
	Pattern       []string `mapstructure:"pattern" yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Equals        any      `mapstructure:"equals" yaml:"equals,omitempty" json:"equals,omitempty"`
	OneOf         []any    `mapstructure:"oneOf" yaml:"oneOf,omitempty" json:"oneOf,omitempty"`
}

// Definition compiles the declarative form into a Definition.
func (ds DefinitionSpec) Definition() (Definition, error) {
	typ, err := ParseType(ds.Type)
	if err != nil {
		return Definition{}, structural(CodeInvalidDefinition, ds.Name, "field %q: %v", ds.Name, err)
	}
	def := Definition{
		Name:          ds.Name,
		Alias:         ds.Alias,
		Type:          typ,
		Default:       ds.Default,
		Required:      ds.Required,
		InvalidMsg:    ds.InvalidMsg,
		Groups:        slices.Clone(ds.Groups),
		DefaultOption: ds.DefaultOption,
	}
	for _, expr := range ds.Pattern {
		re, err := regexp.Compile(expr)
		if err != nil {
			return Definition{}, structural(CodeInvalidDefinition, ds.Name, "field %q: bad pattern %q: %v", ds.Name, expr, err)
		}
		def.ValueTests = append(def.ValueTests, Pattern(re))
	}
	if ds.Equals != nil {
		def.ValueTests = append(def.ValueTests, Equals(ds.Equals))
	}
	if len(ds.OneOf) > 0 {
		def.ValueTests = append(def.ValueTests, OneOf(ds.OneOf...))
	}
	return def, nil
}

// DecodeDefinitions decodes declarative definitions, typically read from YAML
// or JSON. raw is either a list of definition maps or a map keyed by field
// name (applied in sorted name order).
func DecodeDefinitions(raw any) ([]Definition, error) {
	var specs []DefinitionSpec
	switch r := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		for _, name := range slices.Sorted(maps.Keys(r)) {
			var ds DefinitionSpec
			if err := decodeSpec(r[name], &ds); err != nil {
				return nil, fmt.Errorf("nature: decode definition %q: %w", name, err)
			}
			if ds.Name == "" {
				ds.Name = name
			}
			specs = append(specs, ds)
		}
	default:
		if err := decodeSpec(raw, &specs); err != nil {
			return nil, fmt.Errorf("nature: decode definitions: %w", err)
		}
	}
	defs := make([]Definition, 0, len(specs))
	for _, ds := range specs {
		def, err := ds.Definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func decodeSpec(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

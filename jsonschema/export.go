package jsonschema

import (
	"reflect"
	"regexp"

	json "github.com/goccy/go-json"

	"github.com/reoring/nature"
)

// Draft is the dialect written to $schema.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// FromSchema projects the field declarations of s into an object schema.
// Defaults are published after the same conversion SetValue applies.
// Value tests that are data (patterns, literals, enumerations) are carried
// over; predicate tests cannot be expressed and are skipped. Unknown
// properties are rejected, mirroring SetValues.
func FromSchema(s *nature.Schema) *Schema {
	out := &Schema{
		Schema:               Draft,
		Type:                 "object",
		Properties:           map[string]*Schema{},
		AdditionalProperties: false,
	}
	for _, f := range s.Fields() {
		out.Properties[f.Name()] = fromField(f)
		if f.Required() {
			out.Required = append(out.Required, f.Name())
		}
	}
	return out
}

// Marshal renders the projection of s as indented JSON.
func Marshal(s *nature.Schema) ([]byte, error) {
	return json.MarshalIndent(FromSchema(s), "", "  ")
}

func fromField(f *nature.Field) *Schema {
	p := &Schema{}
	switch f.Type().Kind {
	case nature.TypeString:
		p.Type = "string"
	case nature.TypeNumber:
		p.Type = "number"
	case nature.TypeBoolean:
		p.Type = "boolean"
	case nature.TypeObject:
		p.Type = "object"
	case nature.TypeCollection:
		p.Type = "array"
		p.Items = &Schema{}
	case nature.TypePattern:
		p.Type = "string"
		p.Format = "regex"
	case nature.TypeInstance:
		p.Description = "instance of " + f.Type().String()
	}
	if f.Alias() != "" {
		p.Description = joinDesc(p.Description, "alias: "+f.Alias())
	}
	if f.InvalidMsg() != "" {
		p.Description = joinDesc(p.Description, f.InvalidMsg())
	}
	p.Default = exportable(f.Type().Coerce(f.Default()))

	var patterns []string
	for _, t := range f.ValueTests() {
		switch vt := t.(type) {
		case interface{ Regexp() *regexp.Regexp }:
			patterns = append(patterns, vt.Regexp().String())
		case interface{ Want() any }:
			p.Const = exportable(vt.Want())
		case interface{ Allowed() []any }:
			p.Enum = vt.Allowed()
		}
	}
	if len(patterns) > 0 {
		p.Pattern = patterns[0]
		for _, extra := range patterns[1:] {
			p.AllOf = append(p.AllOf, &Schema{Pattern: extra})
		}
	}
	return p
}

func joinDesc(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}

// exportable drops values JSON cannot carry and renders patterns by source.
func exportable(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case *regexp.Regexp:
		return t.String()
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil
	}
	return v
}

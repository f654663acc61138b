package nature

import (
	"reflect"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/reoring/nature/internal/kind"
)

// ToJSON returns name -> value for every Field holding a value.
func (s *Schema) ToJSON() map[string]any {
	out := make(map[string]any, len(s.order))
	for _, name := range s.order {
		if v := s.fields[name].value; v != nil {
			out[name] = v
		}
	}
	return out
}

// MarshalJSON encodes ToJSON. Function values cannot be encoded and are left
// out.
func (s *Schema) MarshalJSON() ([]byte, error) {
	values := s.ToJSON()
	for name, v := range values {
		if reflect.ValueOf(v).Kind() == reflect.Func {
			delete(values, name)
		}
	}
	return json.Marshal(values)
}

// ToArray flattens the set values into "--name value" pairs ("-n" for
// single-character names) that SetArgs can ingest again. Boolean Fields emit
// the bare flag when true and nothing when false. With quote, values are
// wrapped in double quotes.
//
// A false boolean has no token form, so it does not survive the round trip:
// SetArgs on the output leaves that Field unset.
func (s *Schema) ToArray(quote bool) []string {
	var out []string
	for _, name := range s.order {
		f := s.fields[name]
		if f.value == nil {
			continue
		}
		flag := "--" + name
		if utf8.RuneCountInString(name) == 1 {
			flag = "-" + name
		}
		if b, ok := f.value.(bool); ok && f.typ.Kind == TypeBoolean {
			if b {
				out = append(out, flag)
			}
			continue
		}
		val := kind.Format(f.value)
		if quote {
			val = `"` + val + `"`
		}
		out = append(out, flag, val)
	}
	return out
}

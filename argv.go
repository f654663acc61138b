package nature

import (
	"os"
	"regexp"
	"slices"
)

var flagPrefix = regexp.MustCompile(`^-{1,2}`)

// SetArgs ingests a command-line style token vector.
//
// Tokens starting with one or two dashes are flags naming a Field by name or
// alias. A boolean Field is set to true; any other Field consumes the next
// token as its value, even when that token looks like a flag. Remaining tokens
// are positional and go to every Field marked DefaultOption: the whole list
// for collection Fields, the first token otherwise.
//
// When tokens is the process's os.Args slice the program path is skipped.
func (s *Schema) SetArgs(tokens []string) error {
	items := tokens
	if isProcessArgs(tokens) {
		items = tokens[1:]
	}
	var positional []string
	for i := 0; i < len(items); i++ {
		tok := items[i]
		if !flagPrefix.MatchString(tok) {
			positional = append(positional, tok)
			continue
		}
		name := flagPrefix.ReplaceAllString(tok, "")
		f, ok := s.Field(name)
		if !ok {
			if err := s.fail(structural(CodeUnknownField, name, "unknown flag %q", tok)); err != nil {
				return err
			}
			continue
		}
		if f.typ.Kind == TypeBoolean {
			if err := f.SetValue(true); err != nil {
				return err
			}
			continue
		}
		if i+1 < len(items) {
			i++
			if err := f.SetValue(items[i]); err != nil {
				return err
			}
		}
	}
	if len(positional) > 0 {
		for _, name := range s.order {
			f := s.fields[name]
			if !f.defaultOption {
				continue
			}
			var v any = positional[0]
			if f.typ.Kind == TypeCollection {
				v = slices.Clone(positional)
			}
			if err := f.SetValue(v); err != nil {
				return err
			}
		}
	}
	s.logger.Debug().Int("tokens", len(items)).Int("positional", len(positional)).Msg("ingested token vector")
	return nil
}

// SetProcessArgs ingests os.Args.
func (s *Schema) SetProcessArgs() error { return s.SetArgs(os.Args) }

func isProcessArgs(tokens []string) bool {
	return len(tokens) > 0 && len(tokens) == len(os.Args) && &tokens[0] == &os.Args[0]
}

// Package source reads field values from documents and the environment and
// applies them to a nature.Schema.
package source

import (
	"context"
	"fmt"

	"github.com/reoring/nature"
)

// Source yields name -> value pairs. Names may be field names or aliases.
type Source interface {
	Values(ctx context.Context) (map[string]any, error)
	Name() string
}

// Apply loads every source in order and assigns its values to s. Later
// sources override earlier ones. Loading stops at the first error.
func Apply(ctx context.Context, s *nature.Schema, srcs ...Source) error {
	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return err
		}
		values, err := src.Values(ctx)
		if err != nil {
			return fmt.Errorf("source %s: %w", src.Name(), err)
		}
		if err := s.SetValues(values); err != nil {
			return fmt.Errorf("source %s: %w", src.Name(), err)
		}
	}
	return nil
}

// Map is a Source over an in-memory map.
type Map map[string]any

func (m Map) Values(context.Context) (map[string]any, error) { return m, nil }
func (Map) Name() string                                     { return "map" }

package source

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlSource struct{ data []byte }

// YAML reads a YAML mapping. An empty document yields no values.
func YAML(data []byte) Source { return yamlSource{data: data} }

func (yamlSource) Name() string { return "yaml" }

func (y yamlSource) Values(context.Context) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(y.data, &doc); err != nil {
		return nil, err
	}
	switch t := doc.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return t, nil
	default:
		return nil, fmt.Errorf("top-level value must be a mapping, got %T", doc)
	}
}

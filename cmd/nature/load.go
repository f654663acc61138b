package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/nature"
	"github.com/reoring/nature/source"
)

var errInvalid = errors.New("schema is invalid")

// loadSchema reads the definitions file and builds a Schema from it.
func (o *rootOptions) loadSchema() (*nature.Schema, error) {
	if o.defs == "" {
		return nil, errors.New("--defs is required")
	}
	data, err := os.ReadFile(o.defs)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", o.defs, err)
	}
	defs, err := nature.DecodeDefinitions(raw)
	if err != nil {
		return nil, err
	}
	policy := nature.InvalidRecord
	if o.raise {
		policy = nature.InvalidRaise
	}
	// Structural problems are collected and reported together with the
	// validation messages instead of aborting ingestion.
	s := nature.New(
		nature.WithLogger(o.logger),
		nature.WithOnInvalid(policy),
		nature.WithErrorListener(func(err error) {
			o.logger.Debug().Err(err).Msg("structural error")
		}),
	)
	if len(defs) > 0 {
		if err := s.Define(defs...); err != nil {
			return nil, err
		}
	}
	o.logger.Debug().Str("file", o.defs).Int("fields", s.Len()).Msg("loaded definitions")
	return s, nil
}

// sources returns the value files followed by the environment source.
func (o *rootOptions) sources() ([]source.Source, error) {
	var out []source.Source
	for _, path := range o.values {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read values: %w", err)
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			out = append(out, source.JSONBytes(data))
		} else {
			out = append(out, source.YAML(data))
		}
	}
	if o.envPrefix != "" {
		out = append(out, source.Env(os.Environ(), o.envPrefix))
	}
	return out, nil
}

// fill builds the Schema and applies value files, the environment and tokens
// in that order.
func (o *rootOptions) fill(ctx context.Context, tokens []string) (*nature.Schema, error) {
	s, err := o.loadSchema()
	if err != nil {
		return nil, err
	}
	srcs, err := o.sources()
	if err != nil {
		return nil, err
	}
	if err := source.Apply(ctx, s, srcs...); err != nil {
		return nil, err
	}
	if len(tokens) > 0 {
		if err := s.SetArgs(tokens); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// report writes validation messages and returns errInvalid when s is invalid.
func (o *rootOptions) report(s *nature.Schema) error {
	if s.Valid() {
		return nil
	}
	for _, err := range s.Errors() {
		fmt.Fprintln(o.errOut, err)
	}
	fmt.Fprint(o.errOut, s.ValidationMessages().String())
	o.logger.Warn().Int("errors", len(s.Errors())).Int("invalid", len(s.ValidationMessages())).Msg("validation failed")
	return errInvalid
}

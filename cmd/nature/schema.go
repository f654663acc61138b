package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/nature/jsonschema"
)

func newSchemaCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the definitions as a JSON Schema document",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.loadSchema()
			if err != nil {
				return err
			}
			b, err := jsonschema.Marshal(s)
			if err != nil {
				return err
			}
			fmt.Fprintln(o.out, string(b))
			return nil
		},
	}
}

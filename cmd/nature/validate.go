package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [flags] -- [tokens...]",
		Short: "Check values against the schema",
		Long:  `Fills the schema like parse does and reports the validation messages of every invalid field.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.fill(cmd.Context(), args)
			if err != nil {
				return err
			}
			if err := o.report(s); err != nil {
				return err
			}
			fmt.Fprintln(o.out, "valid")
			return nil
		},
	}
}

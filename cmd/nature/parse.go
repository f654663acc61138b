package main

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newParseCmd(o *rootOptions) *cobra.Command {
	var format string
	var quote bool
	cmd := &cobra.Command{
		Use:   "parse [flags] -- [tokens...]",
		Short: "Fill the schema and print the resulting values",
		Long: `Builds the schema from --defs, applies --values files, the environment and
the tokens after "--", then prints the values as JSON or as a token vector.
Exits non-zero when the result is invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.fill(cmd.Context(), args)
			if err != nil {
				return err
			}
			switch format {
			case "json":
				b, err := json.MarshalIndent(s, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(o.out, string(b))
			case "args":
				fmt.Fprintln(o.out, strings.Join(s.ToArray(quote), " "))
			default:
				return fmt.Errorf("unknown --format %q", format)
			}
			return o.report(s)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "json", "output format: json or args")
	cmd.Flags().BoolVar(&quote, "quote", false, "quote values in args output")
	return cmd
}

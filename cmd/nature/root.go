package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	defs      string
	logLevel  string
	envPrefix string
	values    []string
	raise     bool

	out    io.Writer
	errOut io.Writer
	logger zerolog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	o := &rootOptions{out: out, errOut: errOut}
	cmd := &cobra.Command{
		Use:   "nature",
		Short: "Declare, load and validate typed settings",
		Long: `nature builds a schema from a YAML or JSON definitions file, fills it from
value files, the environment and command-line tokens, and reports whether the
result is valid.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := zerolog.ParseLevel(o.logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			o.logger = zerolog.New(zerolog.ConsoleWriter{Out: o.errOut, NoColor: true}).
				Level(lvl).With().Timestamp().Logger()
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&o.defs, "defs", "d", "", "definitions file (YAML or JSON)")
	pf.StringVar(&o.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&o.envPrefix, "env-prefix", "", "read values from environment variables with this prefix")
	pf.StringSliceVarP(&o.values, "values", "f", nil, "value files applied in order (YAML or JSON)")
	pf.BoolVar(&o.raise, "raise", false, "stop at the first invalid value")

	cmd.AddCommand(newParseCmd(o), newValidateCmd(o), newSchemaCmd(o), newVersionCmd(o))
	return cmd
}

func newVersionCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of nature",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(o.out, "nature version %s\n", version)
		},
	}
}

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var configFile string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "dental-api",
		Short:         "Dental clinic back-office API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file (default: config.yaml in ., ./config, /app/config)")

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newReportCommand(),
		newListenCommand(),
	)
	return root
}

func main() {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/dentalcare-api/internal/repository/postgres"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if a.db == nil {
				return errors.New("migrate requires the postgres driver")
			}
			if err := postgres.Migrate(cmd.Context(), a.db); err != nil {
				return err
			}
			a.log.Info().Msg("schema is up to date")
			return nil
		},
	}
}

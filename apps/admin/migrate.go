package main

import (
	"github.com/spf13/cobra"

	"github.com/ourson-app/backend/core"
	"github.com/ourson-app/backend/storage/database"
)

func migrateCmd(cli *commandLine) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database if needed and apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.CreateIfNotExist(core.Conf); err != nil {
				return err
			}
			if err := cli.setup(); err != nil {
				return err
			}
			defer cli.teardown()

			return database.Migrate(cli.db)
		},
	}
}

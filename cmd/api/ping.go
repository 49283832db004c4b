package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/justsurfingit/jobly/internal/database"
	"github.com/justsurfingit/jobly/internal/logging"
)

func newPingCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the database is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel, cfg.LogPretty)

			db, err := database.Connect(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "database OK")
			return nil
		},
	}
}

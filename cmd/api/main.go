// Command api runs the jobly HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/justsurfingit/jobly/internal/config"
)

// Version is set by the build.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Variables already in the environment win over .env.
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	v := config.New()
	rootCmd := &cobra.Command{
		Use:           "api",
		Short:         "Jobly job board API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "config file (default ./jobly.yaml)")

	rootCmd.AddCommand(newServeCommand(v))
	rootCmd.AddCommand(newPingCommand(v))
	return rootCmd.Execute()
}

// loadConfig reads the configuration, honouring --config.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

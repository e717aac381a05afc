package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/taxodex/internal/version"
)

// globalFlags are shared by all commands.
type globalFlags struct {
	configPath string
	env        string
	remote     string
	logLevel   string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "taxodex",
		Short:         "Browse literature, taxonomy and sample records",
		Version:       version.Version + " (" + version.Commit + ")",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default: config/<env>.yaml)")
	cmd.PersistentFlags().StringVar(&flags.env, "env", "", "environment name (default: $ENV or local)")
	cmd.PersistentFlags().StringVar(&flags.remote, "remote", "", "query a remote taxodex server instead of loading records")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override: debug, info, warn, error")

	cmd.AddCommand(serveCmd(flags))
	cmd.AddCommand(searchCmd(flags))
	cmd.AddCommand(browseCmd(flags))
	cmd.AddCommand(risCmd(flags))

	return cmd
}

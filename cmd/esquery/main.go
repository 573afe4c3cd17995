package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/esquery/internal/config"
	"github.com/kailas-cloud/esquery/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "esquery",
		Short:         "Compile filters and aggregation pipelines to Elasticsearch queries",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the esquery HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, _ := cmd.Flags().GetString("env")
			if env == "" {
				env = config.GetEnv()
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return serve(ctx, env)
		},
	}
	serveCmd.Flags().String("env", "", "config environment (default: $ENV or local)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}

	rootCmd.AddCommand(serveCmd, newCompileCmd(), newDecodeCmd(), versionCmd)
	rootCmd.SetContext(context.Background())
	return rootCmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/upskill-backend/internal/platform/envutil"
)

const appName = "upskill"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Learning plan generator and lead capture service",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			envutil.LoadDotEnv(envFiles...)
		},
		SilenceUsage: true,
		// Bare invocation serves, like "upskill serve".
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	cmd.AddCommand(serveCmd(), planCmd(), migrateCmd())
	return cmd
}

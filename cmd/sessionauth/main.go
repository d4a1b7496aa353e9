// Command sessionauth serves the session API and carries the operator
// tooling around it.
//
// Run:
//
//	go run ./cmd/sessionauth serve --users users.json
//
// Configuration comes from the environment, after an optional .env file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sessionauth",
		Short:         "Session authentication service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var envFile string
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return loadEnvFile(envFile)
	}

	rootCmd.AddCommand(
		serveCmd(),
		loadtestCmd(),
		hashPasswordCmd(),
		reportCmd(),
		benchcmpCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

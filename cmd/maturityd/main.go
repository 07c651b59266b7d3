// Command maturityd serves the legal-IT maturity self-assessment API and
// exports reports from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "maturityd"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Legal IT maturity self-assessment service",
		Long: `maturityd rates a legal organization's IT function across eight
domains and five dimensions, classifies the result into maturity bands
and produces PDF or Excel reports with recommended next steps.

Configuration comes from environment variables, optionally layered over
a YAML file named by MATURITY_CONFIG.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(serveCmd(), exportCmd(), hashPasswordCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}

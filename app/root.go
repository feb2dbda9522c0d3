// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dns-manager",
	Short: "dns-manager is a self-hosted DNS zone management service",
	Long: `dns-manager is a self-hosted DNS zone management service that speaks
the Route 53 XML protocol for hosted zones, resource record sets, and
change tracking, backed by plain zone files on disk.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

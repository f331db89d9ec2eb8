// Package main provides the entry point for the gitbloat CLI tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/gitbloat/cmd/gitbloat/commands"
	"github.com/Sumatoshi-tech/gitbloat/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "gitbloat",
		Short: "Find the largest blobs in a git object database",
		Long: `gitbloat lists the largest blob objects stored in a git repository,
reachable or not, as candidates for history rewriting.

Commands:
  scan      Rank blobs by size
  schema    Print the JSON report schema`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewSchemaCommand())
	rootCmd.AddCommand(versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gitbloat %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}

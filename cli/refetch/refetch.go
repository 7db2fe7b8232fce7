package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/glorpus-work/refetch/internal/cli"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refetch",
		Short: "Keep downloaded files in sync with their sources",
		Long: `refetch keeps locally cached files in sync with their remote sources
while tolerating local edits:
- sync: fetch every tracked file and update unmodified local copies
- status: list files where remote and local changes collide
- resolve: settle a conflict by taking one side`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: .refetch.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Set up CLI pkg variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose

	// Add subcommands
	cmd.AddCommand(
		cli.NewSyncCmd(),
		cli.NewStatusCmd(),
		cli.NewResolveCmd(),
		cli.NewConfigCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}

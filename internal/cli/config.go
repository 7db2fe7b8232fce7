package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/glorpus-work/refetch/internal/logger"
	"github.com/glorpus-work/refetch/pkg/config"
	"github.com/glorpus-work/refetch/pkg/errors"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View and modify refetch configuration settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigInitCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current configuration settings",
		RunE:  runConfigShow,
	}

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long:  "Create a default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration file")

	return cmd
}

func runConfigShow(*cobra.Command, []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tabWriter := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "SETTING\tVALUE")
	_, _ = fmt.Fprintln(tabWriter, "-------\t-----")
	_, _ = fmt.Fprintf(tabWriter, "base_dir\t%s\n", cfg.Settings.BaseDir)
	_, _ = fmt.Fprintf(tabWriter, "state_dir\t%s\n", cfg.Settings.StateDir)
	_, _ = fmt.Fprintf(tabWriter, "hooks_dir\t%s\n", cfg.Settings.HooksDir)
	_, _ = fmt.Fprintf(tabWriter, "http_timeout\t%s\n", cfg.Settings.HTTPTimeout)
	_, _ = fmt.Fprintf(tabWriter, "max_concurrent_syncs\t%d\n", cfg.Settings.MaxConcurrent)
	_, _ = fmt.Fprintf(tabWriter, "user_agent\t%s\n", cfg.Settings.UserAgent)
	_, _ = fmt.Fprintf(tabWriter, "digest_algorithm\t%s\n", cfg.Settings.DigestAlgorithm)
	_, _ = fmt.Fprintf(tabWriter, "log_level\t%s\n", cfg.Settings.LogLevel)
	_, _ = fmt.Fprintf(tabWriter, "log_file\t%s\n", cfg.Settings.LogFile)
	_ = tabWriter.Flush()

	fmt.Printf("\nTracked files (%d):\n", len(cfg.Files))
	for _, file := range cfg.Files {
		fmt.Printf("  %s: %s\n", file.Name, file.URL)
	}

	return nil
}

func runConfigInit(force bool) error {
	configPath := getConfigPath()

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite): %w", configPath, errors.ErrConfigValidation)
	}

	defaultConfig := config.DefaultConfig()
	if err := defaultConfig.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save default configuration: %w", err)
	}

	logger.Success("Configuration file created", logger.Fields{"path": configPath})
	return nil
}

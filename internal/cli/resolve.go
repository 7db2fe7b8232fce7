package cli

import (
	"fmt"

	"github.com/glorpus-work/refetch/internal/logger"
	"github.com/glorpus-work/refetch/pkg/errors"
	"github.com/spf13/cobra"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	var (
		takeRemote bool
		keepLocal  bool
	)

	cmd := &cobra.Command{
		Use:   "resolve FILE...",
		Short: "Resolve conflicted files",
		Long: `Resolve one or more conflicted files, either by replacing the local
copy with the parked remote version (--take-remote) or by keeping the
local copy and discarding the parked version (--keep-local).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if takeRemote == keepLocal {
				return fmt.Errorf("exactly one of --take-remote or --keep-local is required: %w", errors.ErrConfigValidation)
			}
			return runResolve(args, takeRemote)
		},
	}

	cmd.Flags().BoolVar(&takeRemote, "take-remote", false, "Replace the local copy with the parked remote version")
	cmd.Flags().BoolVar(&keepLocal, "keep-local", false, "Keep the local copy and discard the parked remote version")

	return cmd
}

func runResolve(names []string, takeRemote bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	exec := loadExecutor(cfg, reg)
	digestFn, err := loadDigest(cfg)
	if err != nil {
		return err
	}

	for _, name := range names {
		if takeRemote {
			err = exec.ResolveTakeRemote(name, digestFn)
		} else {
			err = exec.ResolveKeepLocal(name)
		}
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", name, err)
		}
	}

	// Taking the remote version records its digest, so the registry has to
	// be flushed for the next sync to see it.
	if takeRemote {
		if err := reg.Save(cfg.RegistryPath()); err != nil {
			return fmt.Errorf("failed to save registry: %w", err)
		}
	}

	logger.Success("Conflicts resolved", logger.Fields{"files": len(names)})
	return nil
}

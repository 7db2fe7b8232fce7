package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/glorpus-work/refetch/internal/logger"
	"github.com/glorpus-work/refetch/pkg/model"
	"github.com/glorpus-work/refetch/pkg/orchestrator"
	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize tracked files with their remote sources",
		Long: `Synchronize all tracked files by fetching the latest copy from
each source URL. Files you have not touched are updated in place; files
with local edits are left alone and the new remote copy is parked in the
conflict cache for manual review.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd.Context(), concurrency)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of parallel fetches (0=config)")

	return cmd
}

func runSync(ctx context.Context, concurrency int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	entries, err := cfg.Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		logger.Info("No files tracked; add entries to the config first")
		return nil
	}

	dl := loadDownloadManager(cfg)
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	exec := loadExecutor(cfg, reg)
	digestFn, err := loadDigest(cfg)
	if err != nil {
		return err
	}
	hookMgr, err := loadHookManager(cfg)
	if err != nil {
		return err
	}

	if concurrency <= 0 {
		concurrency = cfg.Settings.MaxConcurrent
	}

	orch := &orchestrator.Orchestrator{
		DL:       dl,
		Exec:     exec,
		Registry: reg,
		Digest:   digestFn,
		Hooks: orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
			logger.Debug("sync event", logger.Fields{"phase": e.Phase, "file": e.ID, "msg": e.Msg})
		}},
	}
	if hookMgr != nil {
		orch.HookMgr = hookMgr
	}

	logger.Debugf("Synchronizing %d tracked files...", len(entries))

	results, err := orch.Run(ctx, entries, orchestrator.Options{
		RegistryPath: cfg.RegistryPath(),
		Concurrency:  concurrency,
	})
	if err != nil {
		return fmt.Errorf("failed to sync files: %w", err)
	}

	return reportResults(exec, results)
}

// reportResults prints one line per file that needs attention. Files that
// synced without surprises stay quiet unless debug logging is on.
func reportResults(exec conflictPather, results []model.Result) error {
	var errs []error
	for _, res := range results {
		if res.Status.Quiet() {
			logger.Debug(res.Status.String(), logger.Fields{"file": res.Name})
			continue
		}
		switch res.Status {
		case model.StatusConflict:
			cachePath, _ := exec.ConflictPath(res.Name)
			logger.Warnf("%s: update available under %s but local copy has already been modified", res.Name, cachePath)
		case model.StatusFetchFailedLocalExists:
			logger.Warnf("%s: not remotely available but found local copy; is the Internet connected? or is the URL changed?", res.Name)
		case model.StatusFetchFailedNoLocal:
			logger.Errorf("%s: not available remotely and no local copy exists", res.Name)
		case model.StatusIOError:
			logger.Errorf("%s: %v", res.Name, res.Err)
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d files failed: %w", len(errs), len(results), errors.Join(errs...))
	}
	logger.Success("Tracked files synchronized", logger.Fields{"files": len(results)})
	return nil
}

// conflictPather is the slice of the executor the reporter needs.
type conflictPather interface {
	ConflictPath(name string) (string, error)
}

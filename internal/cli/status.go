package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/glorpus-work/refetch/pkg/digest"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "List files with unresolved conflicts",
		Long: `List tracked files whose remote copy changed while the local copy
had edits of its own. Each entry shows the digest of the local file, the
parked remote copy and the last version recorded as downloaded.`,
		RunE: runStatus,
	}

	return cmd
}

func runStatus(*cobra.Command, []string) error {
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

	names, err := exec.Conflicts()
	if err != nil {
		return fmt.Errorf("failed to scan conflict cache: %w", err)
	}
	if len(names) == 0 {
		fmt.Println("No conflicts.")
		return nil
	}

	tabWriter := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "FILE\tLOCAL\tREMOTE\tRECORDED")
	_, _ = fmt.Fprintln(tabWriter, "----\t-----\t------\t--------")

	for _, name := range names {
		localPath, err := exec.LocalPath(name)
		if err != nil {
			return err
		}
		cachePath, err := exec.ConflictPath(name)
		if err != nil {
			return err
		}
		local, err := digest.File(localPath, digestFn)
		if err != nil {
			return fmt.Errorf("failed to digest %s: %w", localPath, err)
		}
		remote, err := digest.File(cachePath, digestFn)
		if err != nil {
			return fmt.Errorf("failed to digest %s: %w", cachePath, err)
		}
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\t%s\t%s\n",
			name, shortDigest(local), shortDigest(remote), shortDigest(reg.Get(name)))
	}

	_ = tabWriter.Flush()

	fmt.Printf("\n%d conflict(s); run 'refetch resolve' to settle them\n", len(names))
	return nil
}

// shortDigest truncates a digest for tabular display.
func shortDigest(d *string) string {
	const shown = 12
	if d == nil {
		return "-"
	}
	if len(*d) <= shown {
		return *d
	}
	return (*d)[:shown]
}

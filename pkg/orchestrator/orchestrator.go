// Package orchestrator ties the fetcher, digest function, reconciliation
// engine, executor and registry together for one batch run.
package orchestrator

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/glorpus-work/refetch/pkg/digest"
	pkgerrors "github.com/glorpus-work/refetch/pkg/errors"
	"github.com/glorpus-work/refetch/pkg/hooks"
	"github.com/glorpus-work/refetch/pkg/model"
	"github.com/glorpus-work/refetch/pkg/reconcile"
)

// Orchestrator drives one batch run: for each tracked file it fetches the
// remote copy, reconciles it against the recorded and local digests, and
// applies the decision. Individual failures never stop the batch.
type Orchestrator struct {
	DL       Downloader
	Exec     Applier
	Registry Registry
	Digest   digest.Func
	HookMgr  HookRunner // optional
	Hooks    Hooks      // Hooks for progress and event notifications

	saveMu sync.Mutex // serializes registry flushes across workers
}

// Run reconciles all entries and returns one result per entry, in input
// order. It returns an error only for whole-run problems (no fetcher,
// duplicate names); per-file failures are reported in the results.
func (o *Orchestrator) Run(ctx context.Context, entries []model.FileEntry, opts Options) ([]model.Result, error) {
	if o.DL == nil {
		return nil, fmt.Errorf("download manager is not configured")
	}
	if o.Exec == nil {
		return nil, fmt.Errorf("executor is not configured")
	}
	if o.Registry == nil {
		return nil, fmt.Errorf("registry is not configured")
	}
	if o.Digest == nil {
		o.Digest = digest.SHA256
	}
	if err := checkUniqueNames(entries); err != nil {
		return nil, err
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = max(2, runtime.NumCPU()/2)
	}

	results := make([]model.Result, len(entries))

	tasks := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				results[i] = o.processOne(ctx, entries[i], opts)
			}
		}()
	}
	for i := range entries {
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	o.runHook(hooks.PostSync, model.FileEntry{}, "")
	emit(o.Hooks, Event{Phase: "done"})
	return results, nil
}

// checkUniqueNames rejects batches where two entries share a name: the same
// file must not be reconciled concurrently by two workers.
func checkUniqueNames(entries []model.FileEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("%w: duplicate file name %q", pkgerrors.ErrConfigValidation, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

// processOne runs the full fetch-decide-apply sequence for a single entry.
func (o *Orchestrator) processOne(ctx context.Context, entry model.FileEntry, opts Options) model.Result {
	emit(o.Hooks, Event{Phase: "fetching", ID: entry.Name})
	o.runHook(hooks.PreSync, entry, "")

	recorded := o.Registry.Get(entry.Name)

	localPath, err := o.Exec.LocalPath(entry.Name)
	if err != nil {
		return o.failure(entry, err)
	}
	local, err := digest.File(localPath, o.Digest)
	if err != nil {
		return o.failure(entry, err)
	}

	var outcome model.FetchOutcome
	var data []byte
	if entry.URL == nil {
		outcome.Failed = true
	} else {
		data, err = o.DL.Fetch(ctx, entry.URL)
		if err != nil {
			emit(o.Hooks, Event{Phase: "fetching", ID: entry.Name, Msg: err.Error()})
			outcome.Failed = true
		} else {
			// The fetched digest is computed exactly once, before deciding.
			outcome.Digest = o.Digest(data)
		}
	}

	action, status := reconcile.Decide(recorded, outcome, local)
	emit(o.Hooks, Event{Phase: "applying", ID: entry.Name, Msg: string(action)})

	if err := o.Exec.Apply(entry.Name, action, data, outcome.Digest); err != nil {
		return o.failure(entry, err)
	}

	// Flush the registry after each successful mutation so a mid-batch
	// abort loses nothing already applied.
	if action == model.ActionAdoptNew || action == model.ActionSilentUpdate {
		if err := o.saveRegistry(opts.RegistryPath); err != nil {
			return o.failure(entry, err)
		}
	}

	switch status {
	case model.StatusFirstDownload, model.StatusUpdated:
		o.runHook(hooks.PostUpdate, entry, status.String())
	case model.StatusConflict:
		o.runHook(hooks.OnConflict, entry, status.String())
	}

	return model.Result{Name: entry.Name, Status: status}
}

func (o *Orchestrator) saveRegistry(path string) error {
	o.saveMu.Lock()
	defer o.saveMu.Unlock()
	return o.Registry.Save(path)
}

func (o *Orchestrator) failure(entry model.FileEntry, err error) model.Result {
	emit(o.Hooks, Event{Phase: "error", ID: entry.Name, Msg: err.Error()})
	return model.Result{Name: entry.Name, Status: model.StatusIOError, Err: err}
}

// runHook executes an event hook, reporting failures as events only.
func (o *Orchestrator) runHook(hookType hooks.HookType, entry model.FileEntry, status string) {
	if o.HookMgr == nil {
		return
	}
	var sourceURL string
	if entry.URL != nil {
		sourceURL = entry.URL.String()
	}
	localPath, _ := o.Exec.LocalPath(entry.Name)
	cachePath, _ := o.Exec.ConflictPath(entry.Name)
	hctx := hooks.HookContext{
		FileName:  entry.Name,
		SourceURL: sourceURL,
		Status:    status,
		LocalPath: localPath,
		CachePath: cachePath,
	}
	if err := o.HookMgr.Execute(hookType, hctx); err != nil {
		emit(o.Hooks, Event{Phase: "hook", ID: entry.Name, Msg: err.Error()})
	}
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

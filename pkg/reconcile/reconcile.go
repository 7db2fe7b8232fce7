// Package reconcile contains the pure decision engine at the heart of
// refetch. Given the last recorded digest, the outcome of a fetch and the
// digest of the current local file, it decides which action to take and
// which status to report. It performs no I/O and consults nothing but its
// inputs, so every branch is unit-testable without a filesystem or network.
package reconcile

import "github.com/glorpus-work/refetch/pkg/model"

// Decide maps one reconciliation attempt to an action and status code.
//
// recorded is the digest last accepted for this file, or nil if the file has
// never been synced. outcome describes the fetch: Failed, or the digest of
// the fetched bytes. local is the digest of the file currently on disk, or
// nil if it does not exist.
//
// Digest equality is the only signal used. Timestamps and file sizes never
// participate, which keeps decisions independent of clocks and filesystems.
func Decide(recorded *string, outcome model.FetchOutcome, local *string) (model.Action, model.StatusCode) {
	if outcome.Failed {
		if local != nil {
			return model.ActionNone, model.StatusFetchFailedLocalExists
		}
		return model.ActionNone, model.StatusFetchFailedNoLocal
	}

	// First-ever sync: adopt whatever the remote has, regardless of any
	// unrecorded local file.
	if recorded == nil {
		return model.ActionAdoptNew, model.StatusFirstDownload
	}

	if outcome.Digest == *recorded {
		return model.ActionDiscard, model.StatusUpToDate
	}

	// Remote changed. The local file is safe to replace only if it is absent
	// or still matches the last accepted version.
	if local == nil || *local == *recorded {
		return model.ActionSilentUpdate, model.StatusUpdated
	}

	return model.ActionConflict, model.StatusConflict
}

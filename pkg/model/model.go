// Package model provides data structures and types for representing tracked
// files, reconciliation decisions and per-file results in refetch.
package model

import "net/url"

// Action is the reconciliation engine's chosen operation for one file.
type Action string

const (
	// ActionAdoptNew saves the fetched bytes as the local file and records
	// the new digest. Chosen on first-ever sync for a file.
	ActionAdoptNew Action = "adopt-new"
	// ActionDiscard drops the fetched bytes; the remote copy is unchanged.
	ActionDiscard Action = "discard"
	// ActionSilentUpdate overwrites (or creates) the local file with the
	// fetched bytes and records the new digest.
	ActionSilentUpdate Action = "silent-update"
	// ActionConflict stores the fetched bytes in the conflict cache and
	// leaves the local file and registry untouched.
	ActionConflict Action = "conflict"
	// ActionNone performs no mutation; used when the fetch failed.
	ActionNone Action = "none"
)

// StatusCode is the per-file outcome surfaced to the batch driver and CLI.
type StatusCode string

const (
	// StatusFirstDownload means the file was downloaded for the first time.
	StatusFirstDownload StatusCode = "FIRST_DOWNLOAD"
	// StatusUpToDate means the remote copy matches the last accepted digest.
	StatusUpToDate StatusCode = "UP_TO_DATE"
	// StatusUpdated means the local file was replaced with a newer remote copy.
	StatusUpdated StatusCode = "UPDATED"
	// StatusConflict means both the remote and local copies diverged from the
	// last accepted digest; the download went to the conflict cache.
	StatusConflict StatusCode = "LOCAL_CHANGE_REMOTE_CHANGE"
	// StatusFetchFailedLocalExists means the fetch failed but a local copy
	// exists; connectivity or the URL should be checked.
	StatusFetchFailedLocalExists StatusCode = "FETCH_FAILED_LOCAL_EXISTS"
	// StatusFetchFailedNoLocal means the fetch failed and there is no local
	// copy to fall back to.
	StatusFetchFailedNoLocal StatusCode = "FETCH_FAILED_NO_LOCAL"
	// StatusIOError means applying the decision failed with a filesystem or
	// registry error; the accompanying Result carries the cause.
	StatusIOError StatusCode = "IO_ERROR"
)

// Quiet reports whether the status produces no output at the default log
// level. Quiet statuses are the uneventful successes.
func (s StatusCode) Quiet() bool {
	switch s {
	case StatusFirstDownload, StatusUpToDate, StatusUpdated:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status code.
func (s StatusCode) String() string {
	return string(s)
}

// FileEntry is one tracked file: a logical name (relative path under the
// base directory) and the URL it is fetched from.
type FileEntry struct {
	Name string
	URL  *url.URL
}

// FetchOutcome is the engine-facing summary of one fetch attempt. Digest is
// the digest of the fetched bytes and is computed exactly once per fetch;
// it is empty when Failed is true.
type FetchOutcome struct {
	Digest string
	Failed bool
}

// Result is the per-file outcome of one batch run entry.
type Result struct {
	Name   string
	Status StatusCode
	Err    error
}

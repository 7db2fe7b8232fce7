package reconcile

import (
	"testing"

	"github.com/glorpus-work/refetch/pkg/model"
	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		recorded   *string
		outcome    model.FetchOutcome
		local      *string
		wantAction model.Action
		wantStatus model.StatusCode
	}{
		{
			name:       "first sync, no local file",
			recorded:   nil,
			outcome:    model.FetchOutcome{Digest: "d1"},
			local:      nil,
			wantAction: model.ActionAdoptNew,
			wantStatus: model.StatusFirstDownload,
		},
		{
			name:       "first sync adopts even with unrecorded local file",
			recorded:   nil,
			outcome:    model.FetchOutcome{Digest: "d1"},
			local:      strptr("d3"),
			wantAction: model.ActionAdoptNew,
			wantStatus: model.StatusFirstDownload,
		},
		{
			name:       "remote unchanged",
			recorded:   strptr("d1"),
			outcome:    model.FetchOutcome{Digest: "d1"},
			local:      strptr("d1"),
			wantAction: model.ActionDiscard,
			wantStatus: model.StatusUpToDate,
		},
		{
			name:       "remote unchanged, local edited",
			recorded:   strptr("d1"),
			outcome:    model.FetchOutcome{Digest: "d1"},
			local:      strptr("d3"),
			wantAction: model.ActionDiscard,
			wantStatus: model.StatusUpToDate,
		},
		{
			name:       "remote unchanged, local missing",
			recorded:   strptr("d1"),
			outcome:    model.FetchOutcome{Digest: "d1"},
			local:      nil,
			wantAction: model.ActionDiscard,
			wantStatus: model.StatusUpToDate,
		},
		{
			name:       "remote updated, local pristine",
			recorded:   strptr("d1"),
			outcome:    model.FetchOutcome{Digest: "d2"},
			local:      strptr("d1"),
			wantAction: model.ActionSilentUpdate,
			wantStatus: model.StatusUpdated,
		},
		{
			name:       "remote updated, local missing",
			recorded:   strptr("d1"),
			outcome:    model.FetchOutcome{Digest: "d2"},
			local:      nil,
			wantAction: model.ActionSilentUpdate,
			wantStatus: model.StatusUpdated,
		},
		{
			name:       "remote updated and local edited",
			recorded:   strptr("d1"),
			outcome:    model.FetchOutcome{Digest: "d2"},
			local:      strptr("d3"),
			wantAction: model.ActionConflict,
			wantStatus: model.StatusConflict,
		},
		{
			name:       "local edited to match incoming remote still conflicts",
			recorded:   strptr("d1"),
			outcome:    model.FetchOutcome{Digest: "d2"},
			local:      strptr("d2"),
			wantAction: model.ActionConflict,
			wantStatus: model.StatusConflict,
		},
		{
			name:       "fetch failed, local exists",
			recorded:   strptr("d1"),
			outcome:    model.FetchOutcome{Failed: true},
			local:      strptr("d1"),
			wantAction: model.ActionNone,
			wantStatus: model.StatusFetchFailedLocalExists,
		},
		{
			name:       "fetch failed, local exists without recorded digest",
			recorded:   nil,
			outcome:    model.FetchOutcome{Failed: true},
			local:      strptr("d3"),
			wantAction: model.ActionNone,
			wantStatus: model.StatusFetchFailedLocalExists,
		},
		{
			name:       "fetch failed, no local file",
			recorded:   nil,
			outcome:    model.FetchOutcome{Failed: true},
			local:      nil,
			wantAction: model.ActionNone,
			wantStatus: model.StatusFetchFailedNoLocal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, status := Decide(tt.recorded, tt.outcome, tt.local)

			assert.Equal(t, tt.wantAction, action)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

// Decide must be a pure function: same inputs, same outputs, inputs untouched.
func TestDecideIsPure(t *testing.T) {
	recorded := strptr("d1")
	local := strptr("d3")
	outcome := model.FetchOutcome{Digest: "d2"}

	a1, s1 := Decide(recorded, outcome, local)
	a2, s2 := Decide(recorded, outcome, local)

	assert.Equal(t, a1, a2)
	assert.Equal(t, s1, s2)
	assert.Equal(t, "d1", *recorded)
	assert.Equal(t, "d3", *local)
}

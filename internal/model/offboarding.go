package model

import "time"

// Status values for an offboarding request. Status is derived from the step
// index and the rejection flag, never set directly by a form.
const (
	StatusNew        = "new"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

// OffboardingRequest is the only persisted entity. Data holds the form and
// per-stage approval fields, merged additively as the request moves on.
type OffboardingRequest struct {
	ID          string            `json:"id"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Status      string            `json:"status"`
	CurrentStep int               `json:"currentStep"`
	Data        map[string]string `json:"data"`
	History     []HistoryEntry    `json:"history"`
}

// HistoryEntry is one audit line. Entries are appended, never edited.
type HistoryEntry struct {
	At     time.Time `json:"at"`
	By     string    `json:"by"`
	Action string    `json:"action"`
	Notes  string    `json:"notes"`
}

// Field returns a data field or "" when the request never collected it.
func (r *OffboardingRequest) Field(name string) string {
	if r.Data == nil {
		return ""
	}
	return r.Data[name]
}

// Clone returns a deep copy so transitions can work on a scratch record and
// leave the caller's value untouched when they fail.
func (r OffboardingRequest) Clone() OffboardingRequest {
	out := r
	if r.Data != nil {
		out.Data = make(map[string]string, len(r.Data))
		for k, v := range r.Data {
			out.Data[k] = v
		}
	}
	if r.History != nil {
		out.History = make([]HistoryEntry, len(r.History))
		copy(out.History, r.History)
	}
	return out
}

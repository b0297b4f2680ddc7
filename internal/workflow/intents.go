package workflow

import "offboarding-backend/internal/model"

type IntentKind string

const (
	IntentShowPanel IntentKind = "show-panel"
	IntentProgress  IntentKind = "progress"
	IntentLockForm  IntentKind = "lock-form"
	IntentMessage   IntentKind = "message"
)

const (
	MarkDone    = "done"
	MarkCurrent = "current"
	MarkPending = "pending"
)

// Intent tells the presentation layer what to draw after a transition. The
// engine never touches a view itself.
type Intent struct {
	Kind     IntentKind     `json:"kind"`
	Panel    string         `json:"panel,omitempty"`
	Progress []ProgressMark `json:"progress,omitempty"`
	Message  string         `json:"message,omitempty"`
}

type ProgressMark struct {
	Stage string `json:"stage"`
	Label string `json:"label"`
	Mark  string `json:"mark"`
}

// Notification is an outbound message for the notification dispatcher.
// Delivery happens outside the engine.
type Notification struct {
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	RequestID string `json:"requestId"`
	Stage     string `json:"stage"`
}

// Result is what every transition hands back: the new record plus the
// intents and notifications it produced.
type Result struct {
	Request       model.OffboardingRequest `json:"request"`
	Intents       []Intent                 `json:"intents"`
	Notifications []Notification           `json:"notifications,omitempty"`
}

// Panel returns the panel of the first show-panel intent.
func (r Result) Panel() string {
	for _, in := range r.Intents {
		if in.Kind == IntentShowPanel {
			return in.Panel
		}
	}
	return ""
}

// Message returns the text of the first message intent.
func (r Result) Message() string {
	for _, in := range r.Intents {
		if in.Kind == IntentMessage {
			return in.Message
		}
	}
	return ""
}

// Progress builds the progress indicator for a step.
func (t Table) Progress(current int) []ProgressMark {
	marks := make([]ProgressMark, len(t.Stages))
	for i, s := range t.Stages {
		mark := MarkPending
		switch {
		case i < current:
			mark = MarkDone
		case i == current:
			mark = MarkCurrent
		}
		marks[i] = ProgressMark{Stage: s.Key, Label: s.Label, Mark: mark}
	}
	return marks
}

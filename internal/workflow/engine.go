package workflow

import (
	"fmt"
	"offboarding-backend/internal/model"
	"strings"
	"time"
)

// Engine is the offboarding state machine. Every method is a pure function
// of its arguments: the request being worked on is passed in and a new one
// comes back. Callers persist the result.
type Engine struct {
	table Table
}

func NewEngine(table Table) *Engine {
	return &Engine{table: table}
}

func (e *Engine) Table() Table {
	return e.table
}

// Submit validates the HR form and builds a new request waiting on the line
// manager.
func (e *Engine) Submit(id string, form map[string]string, now time.Time) (Result, error) {
	intake := e.table.Intake
	values := pickFields(form, intake.Fields())
	if missing := missingFields(values, intake.Required); len(missing) > 0 {
		return Result{}, &ValidationError{Stage: StageNew, Missing: missing}
	}

	now = now.UTC()
	req := model.OffboardingRequest{
		ID:          id,
		CreatedAt:   now,
		UpdatedAt:   now,
		Status:      model.StatusNew,
		CurrentStep: StepNew,
		Data:        values,
		History: []model.HistoryEntry{
			{At: now, By: intake.Actor, Action: intake.Action, Notes: values[intake.CommentsField]},
		},
	}

	res, err := e.GoToStep(req, StepManager, now)
	if err != nil {
		return Result{}, err
	}

	next := e.table.Stages[StepManager]
	res.Intents = append([]Intent{
		{Kind: IntentLockForm},
		{Kind: IntentMessage, Message: fmt.Sprintf("Request %s created. Sent to %s stage.", id, next.Actor)},
	}, res.Intents...)
	res.Notifications = e.approvalNeeded(res.Request, next, req.Data[intake.NotifyField])
	return res, nil
}

// GoToStep moves a request to target, refreshes updatedAt and derives the
// status. A rejected request stays rejected when it lands on the terminal
// step.
func (e *Engine) GoToStep(req model.OffboardingRequest, target int, now time.Time) (Result, error) {
	if target < StepNew || target > StepCompleted {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidStep, target)
	}
	if target < req.CurrentStep {
		return Result{}, fmt.Errorf("%w: %d -> %d", ErrBackwardStep, req.CurrentStep, target)
	}

	out := req.Clone()
	out.CurrentStep = target
	out.UpdatedAt = now.UTC()
	switch {
	case target == StepCompleted && out.Status == model.StatusRejected:
	case target == StepCompleted:
		out.Status = model.StatusCompleted
	default:
		out.Status = model.StatusInProgress
	}

	return Result{
		Request: out,
		Intents: []Intent{
			{Kind: IntentShowPanel, Panel: e.panelFor(out)},
			{Kind: IntentProgress, Progress: e.table.Progress(target)},
		},
	}, nil
}

// Approve records a stage approval and advances to the stage's next step.
// Missing required fields leave the request untouched.
func (e *Engine) Approve(req model.OffboardingRequest, stageKey string, fields map[string]string, now time.Time) (Result, error) {
	stage, err := e.actingStage(req, stageKey)
	if err != nil {
		return Result{}, err
	}

	values := pickFields(fields, stage.Fields())
	if missing := missingFields(values, stage.Required); len(missing) > 0 {
		return Result{}, &ValidationError{Stage: stage.Key, Missing: missing}
	}

	now = now.UTC()
	out := req.Clone()
	mergeFields(&out, values)
	if stage.StampOnApprove != "" {
		out.Data[stage.StampOnApprove] = now.Format(time.RFC3339)
	}
	out.History = append(out.History, model.HistoryEntry{
		At: now, By: stage.Actor, Action: stage.ApproveAction, Notes: values[stage.CommentsField],
	})

	res, err := e.GoToStep(out, stage.Next, now)
	if err != nil {
		return Result{}, err
	}

	if stage.Next == StepCompleted {
		res.Intents = append(res.Intents, Intent{Kind: IntentMessage, Message: "Offboarding completed successfully."})
		res.Notifications = e.closed(res.Request, stage, "completed")
		return res, nil
	}

	next := e.table.Stages[stage.Next]
	res.Intents = append(res.Intents, Intent{
		Kind:    IntentMessage,
		Message: fmt.Sprintf("%s approved. Moving to %s.", stage.Actor, next.Actor),
	})
	res.Notifications = e.approvalNeeded(res.Request, next, res.Request.Field(next.ApproverField))
	return res, nil
}

// Reject closes the request from any decision stage. Comments are optional.
func (e *Engine) Reject(req model.OffboardingRequest, stageKey string, fields map[string]string, now time.Time) (Result, error) {
	stage, err := e.actingStage(req, stageKey)
	if err != nil {
		return Result{}, err
	}

	values := pickFields(fields, append(stage.Fields(), stage.CommentsField))
	notes := values[stage.CommentsField]
	if notes == "" {
		notes = NoComments
		values[stage.CommentsField] = notes
	}

	now = now.UTC()
	out := req.Clone()
	mergeFields(&out, values)
	out.History = append(out.History, model.HistoryEntry{
		At: now, By: stage.Actor, Action: ActionRejected, Notes: notes,
	})
	out.Status = model.StatusRejected

	res, err := e.GoToStep(out, StepCompleted, now)
	if err != nil {
		return Result{}, err
	}
	res.Intents = append(res.Intents, Intent{
		Kind:    IntentMessage,
		Message: fmt.Sprintf("Rejected by %s. Flow stopped.", stage.Actor),
	})
	res.Notifications = e.closed(res.Request, stage, "rejected")
	return res, nil
}

// Open hydrates a stored request for read-only display. Nothing changes.
func (e *Engine) Open(req model.OffboardingRequest) Result {
	header := fmt.Sprintf("Request %s | Created: %s | Status: %s | Stage: %s",
		req.ID, req.CreatedAt.Format("2006-01-02 15:04"), req.Status, e.table.Label(req.CurrentStep))
	step := req.CurrentStep
	if step < StepNew || step > StepCompleted {
		step = StepNew
	}
	return Result{
		Request: req.Clone(),
		Intents: []Intent{
			{Kind: IntentLockForm},
			{Kind: IntentMessage, Message: header},
			{Kind: IntentShowPanel, Panel: e.panelFor(req)},
			{Kind: IntentProgress, Progress: e.table.Progress(step)},
		},
	}
}

// IsClosed reports whether no further decisions can be taken.
func IsClosed(req model.OffboardingRequest) bool {
	return req.CurrentStep >= StepCompleted ||
		req.Status == model.StatusCompleted ||
		req.Status == model.StatusRejected
}

func (e *Engine) actingStage(req model.OffboardingRequest, key string) (Stage, error) {
	stage, ok := e.table.Stage(key)
	if !ok || !stage.IsDecision() {
		return Stage{}, fmt.Errorf("%w: %q", ErrUnknownStage, key)
	}
	if IsClosed(req) {
		return Stage{}, fmt.Errorf("%w: %s is %s", ErrTerminal, req.ID, req.Status)
	}
	if req.CurrentStep != stage.Index {
		return Stage{}, fmt.Errorf("%w: %s is at %q, not %q", ErrStageMismatch, req.ID, e.keyAt(req.CurrentStep), key)
	}
	return stage, nil
}

func (e *Engine) panelFor(req model.OffboardingRequest) string {
	if IsClosed(req) {
		return PanelSummary
	}
	return e.keyAt(req.CurrentStep)
}

func (e *Engine) keyAt(step int) string {
	if step < StepNew || step >= len(e.table.Stages) {
		return StageNew
	}
	return e.table.Stages[step].Key
}

func (e *Engine) approvalNeeded(req model.OffboardingRequest, next Stage, to string) []Notification {
	if to == "" {
		return nil
	}
	body := fmt.Sprintf("Offboarding request %s for %s (%s) is waiting for your review.\n\nStage: %s\nDepartment: %s\nLast working day: %s\nReason: %s\n",
		req.ID, req.Field("employeeName"), req.Field("employeeId"),
		next.Label, req.Field("department"), req.Field("lastWorkingDay"), req.Field("reason"))
	return []Notification{{
		To:        to,
		Subject:   fmt.Sprintf("[Offboarding] %s approval needed: %s", next.Actor, req.Field("employeeName")),
		Body:      body,
		RequestID: req.ID,
		Stage:     next.Key,
	}}
}

func (e *Engine) closed(req model.OffboardingRequest, by Stage, outcome string) []Notification {
	to := req.Field(e.table.OwnerField)
	if to == "" {
		return nil
	}
	last := req.History[len(req.History)-1]
	body := fmt.Sprintf("Offboarding request %s for %s (%s) was %s by %s.\n\nNotes: %s\n",
		req.ID, req.Field("employeeName"), req.Field("employeeId"), outcome, by.Actor, last.Notes)
	return []Notification{{
		To:        to,
		Subject:   fmt.Sprintf("[Offboarding] Request %s %s", req.ID, outcome),
		Body:      body,
		RequestID: req.ID,
		Stage:     by.Key,
	}}
}

// pickFields keeps the allowed fields, trimmed. Anything else the caller sent
// is ignored so one panel cannot overwrite another panel's data.
func pickFields(in map[string]string, allowed []string) map[string]string {
	out := make(map[string]string, len(allowed))
	for _, name := range allowed {
		if v, ok := in[name]; ok {
			out[name] = strings.TrimSpace(v)
		}
	}
	return out
}

func missingFields(values map[string]string, required []string) []string {
	var missing []string
	for _, name := range required {
		if values[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// mergeFields adds non-empty values. Data is never removed.
func mergeFields(req *model.OffboardingRequest, values map[string]string) {
	if req.Data == nil {
		req.Data = make(map[string]string, len(values))
	}
	for k, v := range values {
		if v != "" {
			req.Data[k] = v
		}
	}
}

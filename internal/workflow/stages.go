package workflow

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Stage keys in their fixed order. The index of a key is its step number.
const (
	StageNew       = "new"
	StageManager   = "manager"
	StageFinance   = "finance"
	StageIT        = "it"
	StageAdmin     = "admin"
	StageHRFinal   = "hr-final"
	StageCompleted = "completed"
)

const (
	StepNew       = 0
	StepManager   = 1
	StepCompleted = 6
)

// PanelSummary is the panel shown once a request reaches the terminal step.
const PanelSummary = "summary"

const (
	ActionApproved = "Approved"
	ActionRejected = "Rejected"
	NoComments     = "(No comments)"
)

var stageOrder = []string{StageNew, StageManager, StageFinance, StageIT, StageAdmin, StageHRFinal, StageCompleted}

//go:embed stages.yaml
var defaultStagesYAML []byte

// Stage is one row of the stage table. Decision stages (manager..hr-final)
// carry an actor and the fields their panel collects.
type Stage struct {
	Key            string   `yaml:"key" json:"key"`
	Label          string   `yaml:"label" json:"label"`
	Actor          string   `yaml:"actor" json:"actor,omitempty"`
	ApproverField  string   `yaml:"approverField" json:"approverField,omitempty"`
	CommentsField  string   `yaml:"commentsField" json:"commentsField,omitempty"`
	Required       []string `yaml:"required" json:"required,omitempty"`
	Optional       []string `yaml:"optional" json:"optional,omitempty"`
	ApproveAction  string   `yaml:"approveAction" json:"approveAction,omitempty"`
	StampOnApprove string   `yaml:"stampOnApprove" json:"stampOnApprove,omitempty"`
	Next           int      `yaml:"next" json:"next,omitempty"`
	Index          int      `yaml:"-" json:"index"`
}

// IsDecision reports whether approvers act on this stage.
func (s Stage) IsDecision() bool {
	return s.Actor != ""
}

// Fields lists every field the stage panel may submit, required first.
func (s Stage) Fields() []string {
	out := make([]string, 0, len(s.Required)+len(s.Optional))
	out = append(out, s.Required...)
	return append(out, s.Optional...)
}

// Intake describes the HR creation form.
type Intake struct {
	Actor         string   `yaml:"actor" json:"actor"`
	Action        string   `yaml:"action" json:"action"`
	CommentsField string   `yaml:"commentsField" json:"commentsField"`
	NotifyField   string   `yaml:"notifyField" json:"notifyField"`
	Required      []string `yaml:"required" json:"required"`
	Optional      []string `yaml:"optional" json:"optional"`
}

func (in Intake) Fields() []string {
	out := make([]string, 0, len(in.Required)+len(in.Optional))
	out = append(out, in.Required...)
	return append(out, in.Optional...)
}

// Table is the whole stage configuration.
type Table struct {
	OwnerField string  `yaml:"ownerField" json:"ownerField"`
	Intake     Intake  `yaml:"intake" json:"intake"`
	Stages     []Stage `yaml:"stages" json:"stages"`
}

// DefaultTable returns the built-in stage table.
func DefaultTable() Table {
	table, err := ParseTableYAML(defaultStagesYAML)
	if err != nil {
		panic(fmt.Sprintf("workflow: embedded stage table: %v", err))
	}
	return table
}

// ParseTableYAML decodes and validates a stage table.
func ParseTableYAML(data []byte) (Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, fmt.Errorf("workflow: stage table is empty")
	}
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return Table{}, fmt.Errorf("workflow: decode stage table: %w", err)
	}
	return table.Normalized()
}

// LoadTableFile reads a stage table from disk.
func LoadTableFile(path string) (Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("workflow: read %s: %w", path, err)
	}
	table, err := ParseTableYAML(content)
	if err != nil {
		return Table{}, fmt.Errorf("workflow: %s: %w", path, err)
	}
	return table, nil
}

// Normalized fills defaults and checks the table against the fixed stage
// sequence.
func (t Table) Normalized() (Table, error) {
	if len(t.Stages) != len(stageOrder) {
		return Table{}, fmt.Errorf("workflow: expected %d stages, got %d", len(stageOrder), len(t.Stages))
	}
	if len(t.Intake.Required) == 0 {
		return Table{}, fmt.Errorf("workflow: intake has no required fields")
	}
	if t.Intake.Actor == "" {
		t.Intake.Actor = "HR"
	}
	if t.Intake.Action == "" {
		t.Intake.Action = "Created"
	}

	stages := make([]Stage, len(t.Stages))
	for i, s := range t.Stages {
		if s.Key != stageOrder[i] {
			return Table{}, fmt.Errorf("workflow: stage %d must be %q, got %q", i, stageOrder[i], s.Key)
		}
		if s.Label == "" {
			s.Label = s.Key
		}
		s.Index = i

		decision := i > StepNew && i < StepCompleted
		switch {
		case decision && s.Actor == "":
			return Table{}, fmt.Errorf("workflow: stage %q needs an actor", s.Key)
		case !decision && s.Actor != "":
			return Table{}, fmt.Errorf("workflow: stage %q cannot take decisions", s.Key)
		}
		if decision {
			if s.CommentsField == "" {
				return Table{}, fmt.Errorf("workflow: stage %q needs a commentsField", s.Key)
			}
			if s.Next <= i || s.Next > StepCompleted {
				return Table{}, fmt.Errorf("workflow: stage %q has next step %d outside %d..%d", s.Key, s.Next, i+1, StepCompleted)
			}
			if s.ApproveAction == "" {
				s.ApproveAction = ActionApproved
			}
		}
		stages[i] = s
	}
	t.Stages = stages
	return t, nil
}

// Stage looks a stage up by key.
func (t Table) Stage(key string) (Stage, bool) {
	for _, s := range t.Stages {
		if s.Key == key {
			return s, true
		}
	}
	return Stage{}, false
}

// Label returns the display label of a step, or "" when out of range.
func (t Table) Label(step int) string {
	if step < 0 || step >= len(t.Stages) {
		return ""
	}
	return t.Stages[step].Label
}

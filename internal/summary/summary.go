package summary

import (
	"fmt"
	"offboarding-backend/internal/model"
	"offboarding-backend/internal/workflow"
	"strings"
	"unicode"
)

const StatusPending = "Pending"

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Section struct {
	Title  string  `json:"title"`
	Status string  `json:"status,omitempty"`
	Fields []Field `json:"fields"`
}

// Summary is the printable report of one request.
type Summary struct {
	RequestID string    `json:"requestId"`
	Status    string    `json:"status"`
	Stage     string    `json:"stage"`
	Employee  Section   `json:"employee"`
	Roles     []Section `json:"roles"`
	History   []string  `json:"history"`
}

// Build projects a request into a Summary. It reads only; calling it twice
// gives the same result.
func Build(table workflow.Table, req model.OffboardingRequest) Summary {
	s := Summary{
		RequestID: req.ID,
		Status:    req.Status,
		Stage:     table.Label(req.CurrentStep),
		Employee:  Section{Title: "Employee"},
	}

	// 1. Employee details: every intake field except approver addresses
	s.Employee.Fields = append(s.Employee.Fields, Field{Label: "Request ID", Value: req.ID})
	for _, name := range table.Intake.Fields() {
		if strings.HasSuffix(name, "Email") {
			continue
		}
		s.Employee.Fields = append(s.Employee.Fields, Field{Label: Humanize(name), Value: req.Field(name)})
	}

	// 2. One section per approver role
	for _, stage := range table.Stages {
		if !stage.IsDecision() {
			continue
		}
		sec := Section{Title: stage.Actor, Status: RoleStatus(req, stage.Actor)}
		if stage.ApproverField != "" {
			sec.Fields = append(sec.Fields, Field{Label: "Approver", Value: req.Field(stage.ApproverField)})
		}
		for _, name := range stage.Fields() {
			sec.Fields = append(sec.Fields, Field{Label: Humanize(name), Value: req.Field(name)})
		}
		if stage.StampOnApprove != "" {
			sec.Fields = append(sec.Fields, Field{Label: Humanize(stage.StampOnApprove), Value: req.Field(stage.StampOnApprove)})
		}
		s.Roles = append(s.Roles, sec)
	}

	// 3. Audit trail
	for _, h := range req.History {
		s.History = append(s.History, fmt.Sprintf("%s | %s: %s\n%s", h.At.Format("2006-01-02 15:04:05"), h.By, h.Action, h.Notes))
	}
	return s
}

// RoleStatus is the action of the first history entry made by actor, or
// "Pending" when that role has not acted.
func RoleStatus(req model.OffboardingRequest, actor string) string {
	for _, h := range req.History {
		if h.By == actor {
			return h.Action
		}
	}
	return StatusPending
}

// Text renders the summary as plain text for printing.
func (s Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "OFFBOARDING SUMMARY %s\n", s.RequestID)
	fmt.Fprintf(&b, "Status: %s | Stage: %s\n", s.Status, s.Stage)

	writeSection(&b, s.Employee)
	for _, sec := range s.Roles {
		writeSection(&b, sec)
	}

	b.WriteString("\nHistory\n")
	b.WriteString(strings.Join(s.History, "\n\n"))
	b.WriteString("\n")
	return b.String()
}

func writeSection(b *strings.Builder, sec Section) {
	b.WriteString("\n")
	if sec.Status != "" {
		fmt.Fprintf(b, "%s [%s]\n", sec.Title, sec.Status)
	} else {
		fmt.Fprintf(b, "%s\n", sec.Title)
	}
	for _, f := range sec.Fields {
		fmt.Fprintf(b, "  %s: %s\n", f.Label, f.Value)
	}
}

var acronyms = map[string]string{"It": "IT", "Hr": "HR", "Id": "ID", "Vpn": "VPN"}

// Humanize turns a camelCase field name into a label: "pendingSalary" ->
// "Pending Salary", "itComments" -> "IT Comments".
func Humanize(name string) string {
	var words []string
	var cur []rune
	for _, r := range name {
		if unicode.IsUpper(r) && len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		words = append(words, string(cur))
	}
	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		w = string(rs)
		if a, ok := acronyms[w]; ok {
			w = a
		}
		words[i] = w
	}
	return strings.Join(words, " ")
}

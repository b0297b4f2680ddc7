package summary

import (
	"fmt"
	"offboarding-backend/internal/workflow"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	markStyles = map[string]lipgloss.Style{
		workflow.MarkDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950")),
		workflow.MarkCurrent: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0B429")),
		workflow.MarkPending: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
	statusStyles = map[string]lipgloss.Style{
		"Pending":  lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		"Rejected": lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
)

var markGlyph = map[string]string{
	workflow.MarkDone:    "●",
	workflow.MarkCurrent: "◉",
	workflow.MarkPending: "○",
}

// RenderProgress draws the stage progress indicator on one line.
func RenderProgress(marks []workflow.ProgressMark) string {
	parts := make([]string, 0, len(marks))
	for _, m := range marks {
		style, ok := markStyles[m.Mark]
		if !ok {
			style = lipgloss.NewStyle()
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s %s", markGlyph[m.Mark], m.Stage)))
	}
	return strings.Join(parts, "  ")
}

// RenderTerminal draws the summary as bordered boxes for offboardctl.
func RenderTerminal(s Summary, marks []workflow.ProgressMark) string {
	header := titleStyle.Render(fmt.Sprintf("OFFBOARDING · %s", s.RequestID))
	meta := labelStyle.Render(fmt.Sprintf("Status: %s | Stage: %s", s.Status, s.Stage))

	blocks := []string{header, meta}
	if len(marks) > 0 {
		blocks = append(blocks, RenderProgress(marks))
	}
	blocks = append(blocks, renderBox(s.Employee))
	for _, sec := range s.Roles {
		blocks = append(blocks, renderBox(sec))
	}
	if len(s.History) > 0 {
		blocks = append(blocks, boxStyle.Render(titleStyle.Render("History")+"\n"+strings.Join(s.History, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func renderBox(sec Section) string {
	title := titleStyle.Render(sec.Title)
	if sec.Status != "" {
		style, ok := statusStyles[sec.Status]
		if !ok {
			style = markStyles[workflow.MarkDone]
		}
		title += " " + style.Render("["+sec.Status+"]")
	}
	lines := []string{title}
	for _, f := range sec.Fields {
		lines = append(lines, labelStyle.Render(f.Label+":")+" "+f.Value)
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

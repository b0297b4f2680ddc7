package dashboard

import (
	"offboarding-backend/internal/model"
	"offboarding-backend/internal/workflow"
	"strings"
	"time"
)

// Status filters offered by the dashboard. "open" means in progress.
const (
	FilterAll       = "all"
	FilterOpen      = "open"
	FilterCompleted = "completed"
	FilterRejected  = "rejected"
)

// Row is one dashboard table line.
type Row struct {
	ID             string    `json:"id"`
	EmployeeName   string    `json:"employeeName"`
	EmployeeID     string    `json:"employeeId"`
	Department     string    `json:"department"`
	LastWorkingDay string    `json:"lastWorkingDay"`
	Stage          string    `json:"stage"`
	Status         string    `json:"status"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Filter keeps requests whose employee name or id contains query (case
// insensitive) and whose status matches the filter. Store order is kept.
// An unknown filter behaves like "all".
func Filter(list []model.OffboardingRequest, query, status string) []model.OffboardingRequest {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.OffboardingRequest, 0, len(list))
	for _, req := range list {
		hit := strings.Contains(strings.ToLower(req.Field("employeeName")), q) ||
			strings.Contains(strings.ToLower(req.Field("employeeId")), q)
		if !hit {
			continue
		}
		if !matchStatus(req, status) {
			continue
		}
		out = append(out, req)
	}
	return out
}

func matchStatus(req model.OffboardingRequest, filter string) bool {
	switch filter {
	case FilterOpen:
		return req.Status == model.StatusInProgress
	case FilterCompleted:
		return req.Status == model.StatusCompleted
	case FilterRejected:
		return req.Status == model.StatusRejected
	default:
		return true
	}
}

// Rows projects requests into table rows with the stage label.
func Rows(table workflow.Table, list []model.OffboardingRequest) []Row {
	rows := make([]Row, 0, len(list))
	for _, req := range list {
		rows = append(rows, Row{
			ID:             req.ID,
			EmployeeName:   req.Field("employeeName"),
			EmployeeID:     req.Field("employeeId"),
			Department:     req.Field("department"),
			LastWorkingDay: req.Field("lastWorkingDay"),
			Stage:          table.Label(req.CurrentStep),
			Status:         req.Status,
			UpdatedAt:      req.UpdatedAt,
		})
	}
	return rows
}

package database

import (
	"offboarding-backend/internal/dashboard"
	"offboarding-backend/internal/usecase"
	"offboarding-backend/internal/workflow"

	"github.com/rs/zerolog"
)

type seedDecision struct {
	stage   string
	approve bool
	fields  map[string]string
}

type seedRequest struct {
	form      map[string]string
	decisions []seedDecision
}

func demoForm(name, empID, dept, job, lwd, reason string) map[string]string {
	return map[string]string{
		"employeeName":         name,
		"employeeId":           empID,
		"department":           dept,
		"jobTitle":             job,
		"lastWorkingDay":       lwd,
		"reason":               reason,
		"lineManagerEmail":     "manager@example.com",
		"financeApproverEmail": "finance@example.com",
		"itApproverEmail":      "it@example.com",
		"adminApproverEmail":   "admin@example.com",
		"hrFinalApproverEmail": "hr@example.com",
		"assets":               "Laptop, badge",
	}
}

var (
	managerOK = seedDecision{workflow.StageManager, true, map[string]string{"managerComments": "Handover plan agreed"}}
	financeOK = seedDecision{workflow.StageFinance, true, map[string]string{
		"pendingSalary": "2 weeks", "recoveryAmount": "0", "finalSettlement": "4200", "financeComments": "Settlement calculated",
	}}
	itOK = seedDecision{workflow.StageIT, true, map[string]string{
		"laptopReturned": "Yes", "emailDisabled": "Yes", "vpnDisabled": "Yes", "itComments": "All access revoked",
	}}
	adminOK = seedDecision{workflow.StageAdmin, true, map[string]string{
		"idCardReturned": "Yes", "parkingDisabled": "Yes", "deskCleared": "Yes", "adminComments": "Desk cleared",
	}}
	hrOK = seedDecision{workflow.StageHRFinal, true, map[string]string{
		"expLetter": "Issued", "exitInterview": "Done", "finalHrComments": "Closed",
	}}
)

var demoRequests = []seedRequest{
	{
		form:      demoForm("A. Lee", "E100", "Engineering", "Backend Engineer", "2026-11-30", "Resignation"),
		decisions: []seedDecision{managerOK},
	},
	{
		form:      demoForm("B. Santoso", "E101", "Sales", "Account Manager", "2026-10-31", "Contract end"),
		decisions: []seedDecision{managerOK, financeOK, itOK, adminOK, hrOK},
	},
	{
		form: demoForm("C. Wijaya", "E102", "Operations", "Analyst", "2026-12-15", "Relocation"),
		decisions: []seedDecision{
			managerOK,
			{workflow.StageFinance, false, map[string]string{"financeComments": "Outstanding advance not settled"}},
		},
	},
}

// SeedAll creates demo requests in progress, completed and rejected. A
// request whose employee id already exists is skipped.
func SeedAll(uc *usecase.OffboardingUsecase, log zerolog.Logger) {
	for _, demo := range demoRequests {
		empID := demo.form["employeeId"]
		if hasEmployee(uc, empID) {
			log.Info().Str("employee_id", empID).Msg("seed: already present, skipping")
			continue
		}

		res, err := uc.Create(demo.form)
		if err != nil {
			log.Error().Err(err).Str("employee_id", empID).Msg("seed: create failed")
			continue
		}

		id := res.Request.ID
		for _, d := range demo.decisions {
			if d.approve {
				res, err = uc.Approve(id, d.stage, d.fields)
			} else {
				res, err = uc.Reject(id, d.stage, d.fields)
			}
			if err != nil {
				log.Error().Err(err).Str("request_id", id).Str("stage", d.stage).Msg("seed: decision failed")
				break
			}
		}

		log.Info().
			Str("request_id", id).
			Str("employee_id", empID).
			Str("status", res.Request.Status).
			Msg("seed: request ready")
	}
}

// hasEmployee matches the employee id exactly; the dashboard search alone
// would also hit E1000 or a name containing the id.
func hasEmployee(uc *usecase.OffboardingUsecase, empID string) bool {
	for _, row := range uc.List(empID, dashboard.FilterAll) {
		if row.EmployeeID == empID {
			return true
		}
	}
	return false
}

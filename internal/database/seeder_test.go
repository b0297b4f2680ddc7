package database

import (
	"offboarding-backend/internal/dashboard"
	"offboarding-backend/internal/notify"
	"offboarding-backend/internal/repository"
	"offboarding-backend/internal/usecase"
	"offboarding-backend/internal/workflow"
	"testing"

	"github.com/rs/zerolog"
)

func newSeedUsecase() *usecase.OffboardingUsecase {
	log := zerolog.Nop()
	repo := repository.NewOffboardingRepository(repository.NewMemoryKVRepository(), "offboardingRequests", log)
	return usecase.NewOffboardingUsecase(repo, workflow.NewEngine(workflow.DefaultTable()), notify.NewLogDispatcher(log), log,
		usecase.WithSyncNotifications())
}

func TestSeedAllCoversEveryOutcomeOnce(t *testing.T) {
	log := zerolog.Nop()
	uc := newSeedUsecase()

	SeedAll(uc, log)
	SeedAll(uc, log)

	if n := len(uc.List("", dashboard.FilterAll)); n != 3 {
		t.Fatalf("expected 3 seeded requests after two runs, got %d", n)
	}
	for filter, want := range map[string]string{
		dashboard.FilterOpen:      "E100",
		dashboard.FilterCompleted: "E101",
		dashboard.FilterRejected:  "E102",
	} {
		rows := uc.List("", filter)
		if len(rows) != 1 || rows[0].EmployeeID != want {
			t.Fatalf("filter %s: expected %s, got %+v", filter, want, rows)
		}
	}
}

func TestSeedAllMatchesEmployeeIDExactly(t *testing.T) {
	log := zerolog.Nop()
	uc := newSeedUsecase()

	// E1000 contains "E100"; "Jane E101son" contains "E101" in the name.
	for _, f := range []map[string]string{
		existingForm("R. Tan", "E1000"),
		existingForm("Jane E101son", "X7"),
	} {
		if _, err := uc.Create(f); err != nil {
			t.Fatalf("create existing: %v", err)
		}
	}

	SeedAll(uc, log)

	if n := len(uc.List("", dashboard.FilterAll)); n != 5 {
		t.Fatalf("expected 2 existing + 3 seeded requests, got %d", n)
	}
	for _, empID := range []string{"E100", "E101", "E102"} {
		if !hasEmployee(uc, empID) {
			t.Fatalf("expected demo employee %s to be seeded", empID)
		}
	}
}

func existingForm(name, empID string) map[string]string {
	return demoForm(name, empID, "Finance", "Clerk", "2026-09-30", "Retirement")
}

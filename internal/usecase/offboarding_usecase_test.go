package usecase

import (
	"context"
	"errors"
	"fmt"
	"offboarding-backend/internal/dashboard"
	"offboarding-backend/internal/model"
	"offboarding-backend/internal/repository"
	"offboarding-backend/internal/workflow"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []workflow.Notification
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n workflow.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
	return nil
}

func (d *recordingDispatcher) recipients() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.sent))
	for i, n := range d.sent {
		out[i] = n.To
	}
	return out
}

type harness struct {
	uc    *OffboardingUsecase
	repo  repository.OffboardingRepository
	notes *recordingDispatcher
}

func newHarness(t *testing.T) harness {
	t.Helper()
	log := zerolog.Nop()
	repo := repository.NewOffboardingRepository(repository.NewMemoryKVRepository(), "offboardingRequests", log)
	notes := &recordingDispatcher{}

	clock := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	seq := 0
	uc := NewOffboardingUsecase(repo, workflow.NewEngine(workflow.DefaultTable()), notes, log,
		WithSyncNotifications(),
		WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("REQ-%d", seq)
		}),
	)
	return harness{uc: uc, repo: repo, notes: notes}
}

func form(name, empID string) map[string]string {
	return map[string]string{
		"employeeName":         name,
		"employeeId":           empID,
		"department":           "Engineering",
		"jobTitle":             "Engineer",
		"lastWorkingDay":       "2026-05-29",
		"reason":               "Resignation",
		"lineManagerEmail":     "manager@example.com",
		"financeApproverEmail": "finance@example.com",
		"itApproverEmail":      "it@example.com",
		"adminApproverEmail":   "admin@example.com",
		"hrFinalApproverEmail": "hr@example.com",
	}
}

func TestCreateStoresAndNotifies(t *testing.T) {
	h := newHarness(t)
	res, err := h.uc.Create(form("A. Lee", "E100"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Request.ID != "REQ-1" {
		t.Fatalf("expected generated id REQ-1, got %s", res.Request.ID)
	}
	stored, ok := h.repo.GetOne("REQ-1")
	if !ok || stored.CurrentStep != workflow.StepManager || stored.Status != model.StatusInProgress {
		t.Fatalf("unexpected stored request: %+v", stored)
	}
	if got := h.notes.recipients(); len(got) != 1 || got[0] != "manager@example.com" {
		t.Fatalf("expected manager notification, got %v", got)
	}
}

func TestCreateValidationStoresNothing(t *testing.T) {
	h := newHarness(t)
	f := form("A. Lee", "E100")
	delete(f, "lastWorkingDay")
	if _, err := h.uc.Create(f); !workflow.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := len(h.repo.LoadAll()); n != 0 {
		t.Fatalf("expected empty store, got %d", n)
	}
}

func TestManagerApprovalThenDashboard(t *testing.T) {
	h := newHarness(t)
	if _, err := h.uc.Create(form("A. Lee", "E100")); err != nil {
		t.Fatalf("create: %v", err)
	}
	res, err := h.uc.Approve("REQ-1", workflow.StageManager, map[string]string{"managerComments": "ok"})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if res.Request.CurrentStep != 2 || len(res.Request.History) != 2 {
		t.Fatalf("expected step 2 with 2 entries, got %d / %d", res.Request.CurrentStep, len(res.Request.History))
	}

	rows := h.uc.List("lee", dashboard.FilterOpen)
	if len(rows) != 1 || rows[0].Stage != "Pending Finance Approval" {
		t.Fatalf("unexpected dashboard rows: %+v", rows)
	}
	if got := h.notes.recipients(); len(got) != 2 || got[1] != "finance@example.com" {
		t.Fatalf("expected finance to be notified, got %v", got)
	}
}

func TestFailedApprovalLeavesStoreUntouched(t *testing.T) {
	h := newHarness(t)
	if _, err := h.uc.Create(form("A. Lee", "E100")); err != nil {
		t.Fatalf("create: %v", err)
	}
	before, _ := h.repo.GetOne("REQ-1")

	if _, err := h.uc.Approve("REQ-1", workflow.StageManager, map[string]string{"managerComments": " "}); !workflow.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	after, _ := h.repo.GetOne("REQ-1")
	if !after.UpdatedAt.Equal(before.UpdatedAt) || len(after.History) != len(before.History) {
		t.Fatalf("store changed on failed approval")
	}
}

func TestRejectAndClosedRequest(t *testing.T) {
	h := newHarness(t)
	if _, err := h.uc.Create(form("C. Wijaya", "E102")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := h.uc.Approve("REQ-1", workflow.StageManager, map[string]string{"managerComments": "ok"}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	res, err := h.uc.Reject("REQ-1", workflow.StageFinance, nil)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if res.Request.Status != model.StatusRejected || res.Request.CurrentStep != workflow.StepCompleted {
		t.Fatalf("expected rejected at 6, got %s at %d", res.Request.Status, res.Request.CurrentStep)
	}
	if _, err := h.uc.Approve("REQ-1", workflow.StageFinance, nil); !errors.Is(err, workflow.ErrTerminal) {
		t.Fatalf("expected terminal error, got %v", err)
	}
	if rows := h.uc.List("", dashboard.FilterRejected); len(rows) != 1 {
		t.Fatalf("expected one rejected row, got %d", len(rows))
	}
	got := h.notes.recipients()
	if got[len(got)-1] != "hr@example.com" {
		t.Fatalf("expected owner notified on rejection, got %v", got)
	}
}

func TestUnknownIDs(t *testing.T) {
	h := newHarness(t)
	if _, err := h.uc.Approve("REQ-404", workflow.StageManager, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("approve: expected not found, got %v", err)
	}
	if _, err := h.uc.Open("REQ-404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("open: expected not found, got %v", err)
	}
	if _, err := h.uc.Summary("REQ-404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("summary: expected not found, got %v", err)
	}
	if err := h.uc.Delete("REQ-404"); err != nil {
		t.Fatalf("delete unknown: %v", err)
	}
}

func TestDeleteRemovesRequest(t *testing.T) {
	h := newHarness(t)
	for _, f := range []map[string]string{form("A. Lee", "E100"), form("B. Santoso", "E101")} {
		if _, err := h.uc.Create(f); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := h.uc.Delete("REQ-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows := h.uc.List("", dashboard.FilterAll)
	if len(rows) != 1 || rows[0].ID != "REQ-2" {
		t.Fatalf("expected only REQ-2 left, got %+v", rows)
	}
}

func TestConcurrentDecisionsOnlyOneLands(t *testing.T) {
	h := newHarness(t)
	if _, err := h.uc.Create(form("A. Lee", "E100")); err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.uc.Approve("REQ-1", workflow.StageManager, map[string]string{"managerComments": "ok"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, workflow.ErrStageMismatch):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("expected exactly one approval, got %d", ok)
	}
	req, _ := h.repo.GetOne("REQ-1")
	if len(req.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(req.History))
	}
}

// gatedRepository holds the next GetOne until release is closed.
type gatedRepository struct {
	repository.OffboardingRepository
	armed   chan struct{}
	loaded  chan struct{}
	release chan struct{}
}

func (r *gatedRepository) GetOne(id string) (*model.OffboardingRequest, bool) {
	req, ok := r.OffboardingRepository.GetOne(id)
	select {
	case <-r.armed:
		close(r.loaded)
		<-r.release
	default:
	}
	return req, ok
}

func TestDeleteDuringApprovalStaysDeleted(t *testing.T) {
	h := newHarness(t)
	if _, err := h.uc.Create(form("A. Lee", "E100")); err != nil {
		t.Fatalf("create: %v", err)
	}

	gate := &gatedRepository{
		OffboardingRepository: h.repo,
		armed:                 make(chan struct{}, 1),
		loaded:                make(chan struct{}),
		release:               make(chan struct{}),
	}
	h.uc.repo = gate
	gate.armed <- struct{}{}

	approved := make(chan error, 1)
	go func() {
		_, err := h.uc.Approve("REQ-1", workflow.StageManager, map[string]string{"managerComments": "ok"})
		approved <- err
	}()
	<-gate.loaded

	deleted := make(chan error, 1)
	go func() { deleted <- h.uc.Delete("REQ-1") }()

	// Give the delete a chance to run before the approval saves.
	time.Sleep(20 * time.Millisecond)
	close(gate.release)

	if err := <-approved; err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := <-deleted; err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := h.repo.GetOne("REQ-1"); ok {
		t.Fatalf("deleted request REQ-1 came back after the approval saved")
	}
	if n := len(h.repo.LoadAll()); n != 0 {
		t.Fatalf("expected empty store, got %d requests", n)
	}
}

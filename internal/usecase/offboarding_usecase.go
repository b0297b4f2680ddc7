package usecase

import (
	"context"
	"errors"
	"fmt"
	"offboarding-backend/internal/dashboard"
	"offboarding-backend/internal/model"
	"offboarding-backend/internal/notify"
	"offboarding-backend/internal/repository"
	"offboarding-backend/internal/summary"
	"offboarding-backend/internal/workflow"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("offboarding request not found")

// OffboardingUsecase binds the workflow engine to the record store and the
// notification dispatcher. Each call loads the request it works on, so no
// record is held open between calls.
type OffboardingUsecase struct {
	repo     repository.OffboardingRepository
	engine   *workflow.Engine
	notifier notify.Dispatcher
	log      zerolog.Logger

	// mu serialises every store write: create, load-decide-save and delete.
	// A decision cannot land twice or bring a deleted request back.
	mu sync.Mutex

	now   func() time.Time
	newID func() string
	async bool
}

type Option func(*OffboardingUsecase)

func WithClock(now func() time.Time) Option {
	return func(u *OffboardingUsecase) { u.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(u *OffboardingUsecase) { u.newID = newID }
}

func WithSyncNotifications() Option {
	return func(u *OffboardingUsecase) { u.async = false }
}

func NewOffboardingUsecase(repo repository.OffboardingRepository, engine *workflow.Engine, notifier notify.Dispatcher, log zerolog.Logger, opts ...Option) *OffboardingUsecase {
	u := &OffboardingUsecase{
		repo:     repo,
		engine:   engine,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		newID:    func() string { return "REQ-" + uuid.NewString() },
		async:    true,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *OffboardingUsecase) Table() workflow.Table {
	return u.engine.Table()
}

// Create validates the HR form and stores a new request at the manager stage.
func (u *OffboardingUsecase) Create(form map[string]string) (workflow.Result, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	res, err := u.engine.Submit(u.newID(), form, u.now())
	if err != nil {
		return workflow.Result{}, err
	}
	if err := u.repo.SaveOne(res.Request); err != nil {
		return workflow.Result{}, err
	}

	u.log.Info().
		Str("request_id", res.Request.ID).
		Str("employee_id", res.Request.Field("employeeId")).
		Msg("offboarding request created")

	u.dispatch(res.Notifications)
	return res, nil
}

// Approve applies a stage approval to the stored request.
func (u *OffboardingUsecase) Approve(id, stage string, fields map[string]string) (workflow.Result, error) {
	return u.decide(id, stage, fields, u.engine.Approve)
}

// Reject closes the stored request from the given stage.
func (u *OffboardingUsecase) Reject(id, stage string, fields map[string]string) (workflow.Result, error) {
	return u.decide(id, stage, fields, u.engine.Reject)
}

type decision func(model.OffboardingRequest, string, map[string]string, time.Time) (workflow.Result, error)

func (u *OffboardingUsecase) decide(id, stage string, fields map[string]string, apply decision) (workflow.Result, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	req, ok := u.repo.GetOne(id)
	if !ok {
		return workflow.Result{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	res, err := apply(*req, stage, fields, u.now())
	if err != nil {
		return workflow.Result{}, err
	}
	if err := u.repo.SaveOne(res.Request); err != nil {
		return workflow.Result{}, err
	}

	u.log.Info().
		Str("request_id", id).
		Str("stage", stage).
		Int("step", res.Request.CurrentStep).
		Str("status", res.Request.Status).
		Msg("offboarding decision recorded")

	u.dispatch(res.Notifications)
	return res, nil
}

// Open returns a stored request with its display intents. Read only.
func (u *OffboardingUsecase) Open(id string) (workflow.Result, error) {
	req, ok := u.repo.GetOne(id)
	if !ok {
		return workflow.Result{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return u.engine.Open(*req), nil
}

// Delete removes a request for good. Unknown ids are a no-op.
func (u *OffboardingUsecase) Delete(id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.repo.DeleteOne(id); err != nil {
		return err
	}
	u.log.Info().Str("request_id", id).Msg("offboarding request deleted")
	return nil
}

// List is the dashboard query.
func (u *OffboardingUsecase) List(query, status string) []dashboard.Row {
	list := dashboard.Filter(u.repo.LoadAll(), query, status)
	return dashboard.Rows(u.engine.Table(), list)
}

// Summary builds the printable report for a request.
func (u *OffboardingUsecase) Summary(id string) (summary.Summary, error) {
	req, ok := u.repo.GetOne(id)
	if !ok {
		return summary.Summary{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return summary.Build(u.engine.Table(), *req), nil
}

func (u *OffboardingUsecase) dispatch(notes []workflow.Notification) {
	if len(notes) == 0 {
		return
	}
	if !u.async {
		notify.DispatchAll(context.Background(), u.notifier, u.log, notes)
		return
	}
	// Run in the background so the response is not held up by SMTP
	go notify.DispatchAll(context.Background(), u.notifier, u.log, notes)
}

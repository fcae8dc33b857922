package service_test

import (
	"context"
	"errors"
	"time"

	"github.com/nicofdz/JS-Master-sub000/internal/model"
	"github.com/nicofdz/JS-Master-sub000/internal/repository"
	"github.com/nicofdz/JS-Master-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errNotFound = errors.New("not found")

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. They return copies on reads and honor the version
// check in BumpVersion, so the optimistic-concurrency paths behave like the
// real store.

type stubTaskRepo struct {
	tasks          map[uuid.UUID]*model.Task
	conflictOnBump bool
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[uuid.UUID]*model.Task)}
}

func (r *stubTaskRepo) Create(_ context.Context, t *model.Task) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now().UTC()
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTaskRepo) UpdateTx(_ context.Context, _ *gorm.DB, t *model.Task) error {
	stored, ok := r.tasks[t.ID]
	if !ok {
		return errNotFound
	}
	// The real store omits the version column on update, so the value
	// advanced by BumpVersion survives. Mirror that here.
	version := stored.Version
	cp := *t
	cp.Version = version
	r.tasks[t.ID] = &cp
	return nil
}

func (r *stubTaskRepo) BumpVersion(_ context.Context, _ *gorm.DB, id uuid.UUID, expectedVersion int) (bool, error) {
	if r.conflictOnBump {
		return false, nil
	}
	t, ok := r.tasks[id]
	if !ok || t.Version != expectedVersion {
		return false, nil
	}
	t.Version++
	return true, nil
}

func (r *stubTaskRepo) DB() *gorm.DB { return nil }

var _ repository.TaskRepository = (*stubTaskRepo)(nil)

type stubAssignmentRepo struct {
	order []uuid.UUID
	byID  map[uuid.UUID]*model.Assignment
}

func newStubAssignmentRepo() *stubAssignmentRepo {
	return &stubAssignmentRepo{byID: make(map[uuid.UUID]*model.Assignment)}
}

func (r *stubAssignmentRepo) CreateTx(_ context.Context, _ *gorm.DB, a *model.Assignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now().UTC()
	cp := *a
	r.byID[a.ID] = &cp
	r.order = append(r.order, a.ID)
	return nil
}

func (r *stubAssignmentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Assignment, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubAssignmentRepo) ListActiveByTask(_ context.Context, taskID uuid.UUID) ([]model.Assignment, error) {
	var rows []model.Assignment
	for _, id := range r.order {
		a := r.byID[id]
		if a.TaskID == taskID && a.Status != model.AssignmentRemoved {
			rows = append(rows, *a)
		}
	}
	return rows, nil
}

func (r *stubAssignmentRepo) ListByTask(_ context.Context, taskID uuid.UUID) ([]model.Assignment, error) {
	var rows []model.Assignment
	for _, id := range r.order {
		a := r.byID[id]
		if a.TaskID == taskID {
			rows = append(rows, *a)
		}
	}
	return rows, nil
}

func (r *stubAssignmentRepo) UpdateTx(_ context.Context, _ *gorm.DB, a *model.Assignment) error {
	if _, ok := r.byID[a.ID]; !ok {
		return errNotFound
	}
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *stubAssignmentRepo) SaveAllTx(ctx context.Context, tx *gorm.DB, assignments []model.Assignment) error {
	for i := range assignments {
		if err := r.UpdateTx(ctx, tx, &assignments[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubAssignmentRepo) DB() *gorm.DB { return nil }

var _ repository.AssignmentRepository = (*stubAssignmentRepo)(nil)

type stubWorkerRepo struct {
	workers map[uuid.UUID]*model.Worker
}

func newStubWorkerRepo() *stubWorkerRepo {
	return &stubWorkerRepo{workers: make(map[uuid.UUID]*model.Worker)}
}

func (r *stubWorkerRepo) Create(_ context.Context, w *model.Worker) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.workers[w.ID] = w
	return nil
}

func (r *stubWorkerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Worker, error) {
	w, ok := r.workers[id]
	if !ok {
		return nil, errNotFound
	}
	return w, nil
}

func (r *stubWorkerRepo) List(_ context.Context, includeInactive bool) ([]model.Worker, error) {
	var rows []model.Worker
	for _, w := range r.workers {
		if includeInactive || w.Active {
			rows = append(rows, *w)
		}
	}
	return rows, nil
}

var _ repository.WorkerRepository = (*stubWorkerRepo)(nil)

type stubHistoryRepo struct {
	changes     []model.DistributionChange
	transitions []model.AssignmentTransition
}

func (r *stubHistoryRepo) AppendChangeTx(_ context.Context, _ *gorm.DB, rec *model.DistributionChange) error {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now().UTC()
	r.changes = append(r.changes, *rec)
	return nil
}

func (r *stubHistoryRepo) AppendTransitionTx(_ context.Context, _ *gorm.DB, rec *model.AssignmentTransition) error {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now().UTC()
	r.transitions = append(r.transitions, *rec)
	return nil
}

func (r *stubHistoryRepo) ListChangesByTask(_ context.Context, taskID uuid.UUID, _, _ int) ([]model.DistributionChange, int64, error) {
	var rows []model.DistributionChange
	for i := len(r.changes) - 1; i >= 0; i-- {
		if r.changes[i].TaskID == taskID {
			rows = append(rows, r.changes[i])
		}
	}
	return rows, int64(len(rows)), nil
}

func (r *stubHistoryRepo) ListTransitionsByTask(_ context.Context, taskID uuid.UUID, _, _ int) ([]model.AssignmentTransition, int64, error) {
	var rows []model.AssignmentTransition
	for i := len(r.transitions) - 1; i >= 0; i-- {
		if r.transitions[i].TaskID == taskID {
			rows = append(rows, r.transitions[i])
		}
	}
	return rows, int64(len(rows)), nil
}

var _ repository.HistoryRepository = (*stubHistoryRepo)(nil)

// ── Fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	tasks       *stubTaskRepo
	assignments *stubAssignmentRepo
	workers     *stubWorkerRepo
	history     *stubHistoryRepo
	actor       uuid.UUID
}

func newFixture() *fixture {
	return &fixture{
		tasks:       newStubTaskRepo(),
		assignments: newStubAssignmentRepo(),
		workers:     newStubWorkerRepo(),
		history:     &stubHistoryRepo{},
		actor:       uuid.New(),
	}
}

func (f *fixture) assignmentSvc() service.AssignmentService {
	return service.NewAssignmentService(f.tasks, f.assignments, f.workers, f.history, nil)
}

func (f *fixture) taskSvc() service.TaskService {
	return service.NewTaskService(f.tasks, f.assignments, f.history)
}

func (f *fixture) distributionSvc() service.DistributionService {
	return service.NewDistributionService(f.tasks, f.assignments, f.history)
}

func (f *fixture) historySvc() service.HistoryService {
	return service.NewHistoryService(f.tasks, f.history)
}

func (f *fixture) addWorker(name string, contract model.ContractType) *model.Worker {
	w := &model.Worker{FullName: name, ContractType: contract, Active: true}
	_ = f.workers.Create(context.Background(), w)
	return w
}

func (f *fixture) addTask(budget int64, allowMixed bool) *model.Task {
	t := &model.Task{
		Name:                "Tarea de prueba",
		Status:              model.TaskPending,
		TotalBudget:         decimal.NewFromInt(budget),
		AllowMixedContracts: allowMixed,
	}
	_ = f.tasks.Create(context.Background(), t)
	return t
}

func (f *fixture) addAssignment(task *model.Task, w *model.Worker, status model.AssignmentStatus, pct, amount int64) *model.Assignment {
	a := &model.Assignment{
		TaskID:          task.ID,
		WorkerID:        w.ID,
		ContractType:    w.ContractType,
		Status:          status,
		SharePercentage: decimal.NewFromInt(pct),
		WorkerPayment:   decimal.NewFromInt(amount),
		Worker:          w,
	}
	_ = f.assignments.CreateTx(context.Background(), nil, a)
	return a
}

// storedAssignment reads the persisted row, bypassing service responses.
func (f *fixture) storedAssignment(id uuid.UUID) *model.Assignment {
	a, _ := f.assignments.FindByID(context.Background(), id)
	return a
}

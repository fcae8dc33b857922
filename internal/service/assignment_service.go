package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nicofdz/JS-Master-sub000/internal/dto"
	"github.com/nicofdz/JS-Master-sub000/internal/model"
	"github.com/nicofdz/JS-Master-sub000/internal/repository"
	"github.com/nicofdz/JS-Master-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const timeLayout = "2006-01-02T15:04:05Z"

type AssignmentService interface {
	AssignWorker(ctx context.Context, actor uuid.UUID, taskID uuid.UUID, req dto.AssignWorkerRequest) (*dto.AssignmentResponse, error)
	RemoveAssignment(ctx context.Context, actor uuid.UUID, assignmentID uuid.UUID, reason *string) (*dto.AssignmentResponse, error)
	ReactivateAssignment(ctx context.Context, actor uuid.UUID, assignmentID uuid.UUID) (*dto.AssignmentResponse, error)
	SetAssignmentStatus(ctx context.Context, actor uuid.UUID, assignmentID uuid.UUID, status model.AssignmentStatus) (*dto.AssignmentResponse, error)
	MarkPaid(ctx context.Context, actor uuid.UUID, assignmentID uuid.UUID, paid bool) (*dto.AssignmentResponse, error)
}

type assignmentService struct {
	taskRepo       repository.TaskRepository
	assignmentRepo repository.AssignmentRepository
	workerRepo     repository.WorkerRepository
	historyRepo    repository.HistoryRepository
	dispatcher     *worker.Dispatcher
}

func NewAssignmentService(
	taskRepo repository.TaskRepository,
	assignmentRepo repository.AssignmentRepository,
	workerRepo repository.WorkerRepository,
	historyRepo repository.HistoryRepository,
	dispatcher *worker.Dispatcher,
) AssignmentService {
	return &assignmentService{
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		workerRepo:     workerRepo,
		historyRepo:    historyRepo,
		dispatcher:     dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── AssignWorker ──────────────────────────────────────────────────────────────
// Creates the assignment in state `assigned` with a zero share; the contract
// type is copied from the worker so later directory edits never reshape an
// existing distribution. The mixing policy is checked against the resulting
// active set before anything is written.

func (s *assignmentService) AssignWorker(ctx context.Context, actor uuid.UUID, taskID uuid.UUID, req dto.AssignWorkerRequest) (*dto.AssignmentResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		return nil, fmt.Errorf("worker_id invalido: %w", err)
	}
	w, err := s.workerRepo.FindByID(ctx, workerID)
	if err != nil {
		return nil, ErrWorkerNotFound
	}

	active, err := s.assignmentRepo.ListActiveByTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range active {
		if a.WorkerID == w.ID {
			return nil, ErrWorkerAlreadyAssigned
		}
	}

	candidate := model.Assignment{
		TaskID:          task.ID,
		WorkerID:        w.ID,
		ContractType:    w.ContractType,
		Status:          model.AssignmentAssigned,
		SharePercentage: decimal.Zero,
		WorkerPayment:   decimal.Zero,
	}
	resulting := append(active, candidate)
	if !CanMixContracts(resulting, task.AllowMixedContracts) {
		return nil, ErrContractMixViolation
	}
	// A por_dia-only crew cannot consume a budget: a funded task needs at
	// least one a_trato worker or the mixed-contract override.
	if RequiresZeroBudget(resulting) && !task.AllowMixedContracts && task.TotalBudget.IsPositive() {
		return nil, ErrInvalidBudget
	}

	txErr := runTx(ctx, s.taskRepo.DB(), func(tx *gorm.DB) error {
		ok, err := s.taskRepo.BumpVersion(ctx, tx, task.ID, task.Version)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentModification
		}
		if err := s.assignmentRepo.CreateTx(ctx, tx, &candidate); err != nil {
			return err
		}
		rec := newTransition(&candidate, model.ActionAssigned, nil, model.AssignmentAssigned, nil, actor)
		return s.historyRepo.AppendTransitionTx(ctx, tx, rec)
	})
	if txErr != nil {
		return nil, txErr
	}

	candidate.Worker = w
	return assignmentToResponse(&candidate), nil
}

// ── RemoveAssignment ──────────────────────────────────────────────────────────
// Soft removal: the share percentage is zeroed so reactivation re-enters the
// distribution at 0%, but the last worker_payment and is_paid are frozen for
// payroll continuity. Removing an already-removed assignment is a no-op.

func (s *assignmentService) RemoveAssignment(ctx context.Context, actor uuid.UUID, assignmentID uuid.UUID, reason *string) (*dto.AssignmentResponse, error) {
	a, err := s.assignmentRepo.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, ErrAssignmentNotFound
	}
	if a.Status == model.AssignmentRemoved {
		return assignmentToResponse(a), nil
	}

	task, err := s.taskRepo.FindByID(ctx, a.TaskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	oldStatus := a.Status
	a.Status = model.AssignmentRemoved
	a.SharePercentage = decimal.Zero
	a.RemovedReason = reason

	txErr := runTx(ctx, s.taskRepo.DB(), func(tx *gorm.DB) error {
		ok, err := s.taskRepo.BumpVersion(ctx, tx, task.ID, task.Version)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentModification
		}
		if err := s.assignmentRepo.UpdateTx(ctx, tx, a); err != nil {
			return err
		}
		rec := newTransition(a, model.ActionRemoved, &oldStatus, model.AssignmentRemoved, reason, actor)
		return s.historyRepo.AppendTransitionTx(ctx, tx, rec)
	})
	if txErr != nil {
		return nil, txErr
	}
	return assignmentToResponse(a), nil
}

// ── ReactivateAssignment ──────────────────────────────────────────────────────
// The percentage is not restored — the assignment comes back at 0% and the
// distribution must be re-saved before it validates again. Reactivating an
// active assignment is a no-op.

func (s *assignmentService) ReactivateAssignment(ctx context.Context, actor uuid.UUID, assignmentID uuid.UUID) (*dto.AssignmentResponse, error) {
	a, err := s.assignmentRepo.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, ErrAssignmentNotFound
	}
	if a.Status != model.AssignmentRemoved {
		return assignmentToResponse(a), nil
	}

	task, err := s.taskRepo.FindByID(ctx, a.TaskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	oldStatus := a.Status
	a.Status = model.AssignmentAssigned
	a.RemovedReason = nil

	txErr := runTx(ctx, s.taskRepo.DB(), func(tx *gorm.DB) error {
		ok, err := s.taskRepo.BumpVersion(ctx, tx, task.ID, task.Version)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentModification
		}
		if err := s.assignmentRepo.UpdateTx(ctx, tx, a); err != nil {
			return err
		}
		rec := newTransition(a, model.ActionReactivated, &oldStatus, model.AssignmentAssigned, nil, actor)
		return s.historyRepo.AppendTransitionTx(ctx, tx, rec)
	})
	if txErr != nil {
		return nil, txErr
	}
	return assignmentToResponse(a), nil
}

// ── SetAssignmentStatus ───────────────────────────────────────────────────────
// Any movement between assigned/working/completed is permitted — the crew on
// site corrects statuses both ways. Transitions into or out of `removed`
// must go through Remove/Reactivate.

func (s *assignmentService) SetAssignmentStatus(ctx context.Context, actor uuid.UUID, assignmentID uuid.UUID, status model.AssignmentStatus) (*dto.AssignmentResponse, error) {
	if !status.Valid() || status == model.AssignmentRemoved {
		return nil, ErrInvalidTransition
	}

	a, err := s.assignmentRepo.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, ErrAssignmentNotFound
	}
	if a.Status == model.AssignmentRemoved {
		return nil, ErrInvalidTransition
	}
	if a.Status == status {
		return assignmentToResponse(a), nil
	}

	task, err := s.taskRepo.FindByID(ctx, a.TaskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	oldStatus := a.Status
	applyStatus(a, status)

	txErr := runTx(ctx, s.taskRepo.DB(), func(tx *gorm.DB) error {
		ok, err := s.taskRepo.BumpVersion(ctx, tx, task.ID, task.Version)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentModification
		}
		if err := s.assignmentRepo.UpdateTx(ctx, tx, a); err != nil {
			return err
		}
		rec := newTransition(a, model.ActionStatusChanged, &oldStatus, status, nil, actor)
		return s.historyRepo.AppendTransitionTx(ctx, tx, rec)
	})
	if txErr != nil {
		return nil, txErr
	}
	return assignmentToResponse(a), nil
}

// ── MarkPaid ──────────────────────────────────────────────────────────────────
// is_paid is independent of the lifecycle state. Marking paid dispatches the
// payroll receipt job best-effort after commit.

func (s *assignmentService) MarkPaid(ctx context.Context, actor uuid.UUID, assignmentID uuid.UUID, paid bool) (*dto.AssignmentResponse, error) {
	a, err := s.assignmentRepo.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, ErrAssignmentNotFound
	}
	if a.IsPaid == paid {
		return assignmentToResponse(a), nil
	}

	task, err := s.taskRepo.FindByID(ctx, a.TaskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	a.IsPaid = paid

	txErr := runTx(ctx, s.taskRepo.DB(), func(tx *gorm.DB) error {
		ok, err := s.taskRepo.BumpVersion(ctx, tx, task.ID, task.Version)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentModification
		}
		if err := s.assignmentRepo.UpdateTx(ctx, tx, a); err != nil {
			return err
		}
		rec := newTransition(a, model.ActionPaymentMarked, &a.Status, a.Status, nil, actor)
		return s.historyRepo.AppendTransitionTx(ctx, tx, rec)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async payroll receipt — fire & forget
	if paid && s.dispatcher != nil {
		_ = s.dispatcher.EnqueuePayroll(ctx, worker.PayrollJobPayload{
			AssignmentID: a.ID.String(),
		})
	}
	return assignmentToResponse(a), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// applyStatus mutates the lifecycle state and its timestamps: started_at is
// stamped on first entry into working, completed_at tracks the completed
// state both ways.
func applyStatus(a *model.Assignment, status model.AssignmentStatus) {
	now := time.Now().UTC()
	if status == model.AssignmentWorking && a.StartedAt == nil {
		a.StartedAt = &now
	}
	switch {
	case status == model.AssignmentCompleted:
		a.CompletedAt = &now
	case a.Status == model.AssignmentCompleted:
		a.CompletedAt = nil
	}
	a.Status = status
}

func assignmentToResponse(a *model.Assignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:              a.ID.String(),
		TaskID:          a.TaskID.String(),
		WorkerID:        a.WorkerID.String(),
		ContractType:    string(a.ContractType),
		Status:          string(a.Status),
		SharePercentage: a.SharePercentage,
		WorkerPayment:   a.WorkerPayment,
		IsPaid:          a.IsPaid,
		RemovedReason:   a.RemovedReason,
		CreatedAt:       a.CreatedAt.Format(timeLayout),
	}
	if a.Worker != nil {
		resp.WorkerName = a.Worker.FullName
	}
	if a.StartedAt != nil {
		t := a.StartedAt.Format(timeLayout)
		resp.StartedAt = &t
	}
	if a.CompletedAt != nil {
		t := a.CompletedAt.Format(timeLayout)
		resp.CompletedAt = &t
	}
	return resp
}

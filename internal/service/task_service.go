package service

import (
	"context"

	"github.com/nicofdz/JS-Master-sub000/internal/dto"
	"github.com/nicofdz/JS-Master-sub000/internal/model"
	"github.com/nicofdz/JS-Master-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TaskService interface {
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetTask(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, error)
	SetTaskStatus(ctx context.Context, actor uuid.UUID, taskID uuid.UUID, status model.TaskStatus) (*dto.CascadeResponse, error)
	SetAllAssignmentsStatus(ctx context.Context, actor uuid.UUID, taskID uuid.UUID, status model.AssignmentStatus) (*dto.CascadeResponse, error)
	UpdateBudget(ctx context.Context, actor uuid.UUID, taskID uuid.UUID, newBudget decimal.Decimal) (*dto.TaskResponse, error)
}

type taskService struct {
	taskRepo       repository.TaskRepository
	assignmentRepo repository.AssignmentRepository
	historyRepo    repository.HistoryRepository
}

func NewTaskService(
	taskRepo repository.TaskRepository,
	assignmentRepo repository.AssignmentRepository,
	historyRepo repository.HistoryRepository,
) TaskService {
	return &taskService{taskRepo: taskRepo, assignmentRepo: assignmentRepo, historyRepo: historyRepo}
}

// cascadeTarget maps a task status to the assignment status every active
// assignment is forced into when the task changes state:
//
//	pending / blocked / cancelled / on_hold → assigned
//	in_progress                             → working
//	completed                               → completed
func cascadeTarget(s model.TaskStatus) model.AssignmentStatus {
	switch s {
	case model.TaskInProgress:
		return model.AssignmentWorking
	case model.TaskCompleted:
		return model.AssignmentCompleted
	default:
		return model.AssignmentAssigned
	}
}

func (s *taskService) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if req.TotalBudget.IsNegative() {
		return nil, ErrInvalidBudget
	}
	task := &model.Task{
		Name:                req.Name,
		Status:              model.TaskPending,
		TotalBudget:         req.TotalBudget,
		AllowMixedContracts: req.AllowMixedContracts,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return taskToResponse(task, nil), nil
}

func (s *taskService) GetTask(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	assignments, err := s.assignmentRepo.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	return taskToResponse(task, assignments), nil
}

// ── SetTaskStatus ─────────────────────────────────────────────────────────────
// Applies the status to the task and cascades the mapped assignment status to
// every active assignment, all-or-nothing. One transition record is appended
// per assignment that actually changed.

func (s *taskService) SetTaskStatus(ctx context.Context, actor uuid.UUID, taskID uuid.UUID, status model.TaskStatus) (*dto.CascadeResponse, error) {
	if !status.Valid() {
		return nil, ErrInvalidTransition
	}
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	applied, err := s.cascade(ctx, actor, task, cascadeTarget(status), &status)
	if err != nil {
		return nil, err
	}
	return &dto.CascadeResponse{TaskID: task.ID.String(), Status: string(status), AppliedCount: applied}, nil
}

// ── SetAllAssignmentsStatus ───────────────────────────────────────────────────
// The manual "set all" action: same bulk transition and atomicity as the
// cascade, without touching the task's own status.

func (s *taskService) SetAllAssignmentsStatus(ctx context.Context, actor uuid.UUID, taskID uuid.UUID, status model.AssignmentStatus) (*dto.CascadeResponse, error) {
	if !status.Valid() || status == model.AssignmentRemoved {
		return nil, ErrInvalidTransition
	}
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	applied, err := s.cascade(ctx, actor, task, status, nil)
	if err != nil {
		return nil, err
	}
	return &dto.CascadeResponse{TaskID: task.ID.String(), Status: string(status), AppliedCount: applied}, nil
}

// cascade forces target onto every active assignment of the task inside one
// transaction. When newTaskStatus is non-nil the task's own status is updated
// in the same commit.
func (s *taskService) cascade(ctx context.Context, actor uuid.UUID, task *model.Task, target model.AssignmentStatus, newTaskStatus *model.TaskStatus) (int, error) {
	active, err := s.assignmentRepo.ListActiveByTask(ctx, task.ID)
	if err != nil {
		return 0, err
	}

	applied := 0
	txErr := runTx(ctx, s.taskRepo.DB(), func(tx *gorm.DB) error {
		ok, err := s.taskRepo.BumpVersion(ctx, tx, task.ID, task.Version)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentModification
		}

		if newTaskStatus != nil {
			task.Status = *newTaskStatus
			if err := s.taskRepo.UpdateTx(ctx, tx, task); err != nil {
				return err
			}
		}

		for i := range active {
			a := &active[i]
			if a.Status == target {
				continue
			}
			oldStatus := a.Status
			applyStatus(a, target)
			if err := s.assignmentRepo.UpdateTx(ctx, tx, a); err != nil {
				return err
			}
			rec := newTransition(a, model.ActionStatusChanged, &oldStatus, target, nil, actor)
			if err := s.historyRepo.AppendTransitionTx(ctx, tx, rec); err != nil {
				return err
			}
			applied++
		}
		return nil
	})
	if txErr != nil {
		return 0, txErr
	}
	return applied, nil
}

// ── UpdateBudget ──────────────────────────────────────────────────────────────
// Validates the por_dia zero-budget rule, then recomputes every active
// a_trato payment from its percentage under the new budget in the same
// atomic unit, recording the old and new distribution.

func (s *taskService) UpdateBudget(ctx context.Context, actor uuid.UUID, taskID uuid.UUID, newBudget decimal.Decimal) (*dto.TaskResponse, error) {
	if newBudget.IsNegative() {
		return nil, ErrInvalidBudget
	}
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	active, err := s.assignmentRepo.ListActiveByTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	if RequiresZeroBudget(active) && !task.AllowMixedContracts && newBudget.IsPositive() {
		return nil, ErrInvalidBudget
	}

	oldSnap, err := distributionSnapshot(active)
	if err != nil {
		return nil, err
	}

	updated := make([]model.Assignment, 0, len(active))
	for _, a := range active {
		if a.ContractType != model.ContractATrato {
			continue
		}
		a.WorkerPayment = PercentageToAmount(newBudget, a.SharePercentage)
		updated = append(updated, a)
	}
	task.TotalBudget = newBudget

	newSnap, err := distributionSnapshot(updated)
	if err != nil {
		return nil, err
	}

	reason := "ajuste de presupuesto"
	txErr := runTx(ctx, s.taskRepo.DB(), func(tx *gorm.DB) error {
		ok, err := s.taskRepo.BumpVersion(ctx, tx, task.ID, task.Version)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentModification
		}
		if err := s.taskRepo.UpdateTx(ctx, tx, task); err != nil {
			return err
		}
		if err := s.assignmentRepo.SaveAllTx(ctx, tx, updated); err != nil {
			return err
		}
		rec := newDistributionChange(task.ID, oldSnap, newSnap, &reason, actor)
		return s.historyRepo.AppendChangeTx(ctx, tx, rec)
	})
	if txErr != nil {
		return nil, txErr
	}
	task.Version++

	assignments, err := s.assignmentRepo.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	return taskToResponse(task, assignments), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func taskToResponse(t *model.Task, assignments []model.Assignment) *dto.TaskResponse {
	resp := &dto.TaskResponse{
		ID:                  t.ID.String(),
		Name:                t.Name,
		Status:              string(t.Status),
		TotalBudget:         t.TotalBudget,
		AllowMixedContracts: t.AllowMixedContracts,
		Version:             t.Version,
		Assignments:         make([]dto.AssignmentResponse, 0, len(assignments)),
		CreatedAt:           t.CreatedAt.Format(timeLayout),
	}
	var active []model.Assignment
	for i := range assignments {
		resp.Assignments = append(resp.Assignments, *assignmentToResponse(&assignments[i]))
		if assignments[i].Active() {
			active = append(active, assignments[i])
		}
	}
	if len(active) > 0 {
		resp.Distribution = buildDistributionResponse(t, active)
	}
	return resp
}

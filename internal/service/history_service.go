package service

import (
	"context"
	"encoding/json"

	"github.com/nicofdz/JS-Master-sub000/internal/dto"
	"github.com/nicofdz/JS-Master-sub000/internal/model"
	"github.com/nicofdz/JS-Master-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HistoryService interface {
	GetHistory(ctx context.Context, taskID uuid.UUID, filter dto.HistoryFilter) (*dto.HistoryResponse, error)
}

type historyService struct {
	taskRepo    repository.TaskRepository
	historyRepo repository.HistoryRepository
}

func NewHistoryService(taskRepo repository.TaskRepository, historyRepo repository.HistoryRepository) HistoryService {
	return &historyService{taskRepo: taskRepo, historyRepo: historyRepo}
}

// GetHistory returns the full audit trail of a task, newest-first: every
// distribution save and every assignment transition.
func (s *historyService) GetHistory(ctx context.Context, taskID uuid.UUID, filter dto.HistoryFilter) (*dto.HistoryResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	changes, totalChanges, err := s.historyRepo.ListChangesByTask(ctx, task.ID, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	transitions, totalTransitions, err := s.historyRepo.ListTransitionsByTask(ctx, task.ID, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.HistoryResponse{
		TaskID:           task.ID.String(),
		Changes:          make([]dto.DistributionChangeResponse, 0, len(changes)),
		Transitions:      make([]dto.AssignmentTransitionResponse, 0, len(transitions)),
		TotalChanges:     totalChanges,
		TotalTransitions: totalTransitions,
		Page:             filter.Page,
		Limit:            filter.Limit,
	}
	for _, c := range changes {
		resp.Changes = append(resp.Changes, dto.DistributionChangeResponse{
			ID:              c.ID.String(),
			OldDistribution: json.RawMessage(c.OldDistribution),
			NewDistribution: json.RawMessage(c.NewDistribution),
			Reason:          c.Reason,
			ChangedBy:       c.ChangedBy.String(),
			ChangedAt:       c.CreatedAt.Format(timeLayout),
		})
	}
	for _, t := range transitions {
		var oldStatus *string
		if t.OldStatus != nil {
			s := string(*t.OldStatus)
			oldStatus = &s
		}
		resp.Transitions = append(resp.Transitions, dto.AssignmentTransitionResponse{
			ID:           t.ID.String(),
			AssignmentID: t.AssignmentID.String(),
			WorkerID:     t.WorkerID.String(),
			Action:       string(t.Action),
			OldStatus:    oldStatus,
			NewStatus:    string(t.NewStatus),
			Reason:       t.Reason,
			Actor:        t.Actor.String(),
			At:           t.CreatedAt.Format(timeLayout),
		})
	}
	return resp, nil
}

// ── Record builders ──────────────────────────────────────────────────────────
// Every transition and distribution save goes through these so the audit
// records stay uniform no matter which service appends them.

func newTransition(a *model.Assignment, action model.TransitionAction, oldStatus *model.AssignmentStatus, newStatus model.AssignmentStatus, reason *string, actor uuid.UUID) *model.AssignmentTransition {
	return &model.AssignmentTransition{
		AssignmentID: a.ID,
		TaskID:       a.TaskID,
		WorkerID:     a.WorkerID,
		Action:       action,
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
		Reason:       reason,
		Actor:        actor,
	}
}

func newDistributionChange(taskID uuid.UUID, oldSnap, newSnap string, reason *string, actor uuid.UUID) *model.DistributionChange {
	return &model.DistributionChange{
		TaskID:          taskID,
		OldDistribution: oldSnap,
		NewDistribution: newSnap,
		Reason:          reason,
		ChangedBy:       actor,
	}
}

// distributionSnapshot serializes the active a_trato split as
// worker_id → {percentage, amount} for the immutable change records.
func distributionSnapshot(assignments []model.Assignment) (string, error) {
	type slice struct {
		Percentage decimal.Decimal `json:"percentage"`
		Amount     decimal.Decimal `json:"amount"`
	}
	snap := make(map[string]slice)
	for _, a := range assignments {
		if !a.Active() || a.ContractType != model.ContractATrato {
			continue
		}
		snap[a.WorkerID.String()] = slice{Percentage: a.SharePercentage, Amount: a.WorkerPayment}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

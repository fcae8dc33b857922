package service

import (
	"context"
	"fmt"

	"github.com/nicofdz/JS-Master-sub000/internal/dto"
	"github.com/nicofdz/JS-Master-sub000/internal/model"
	"github.com/nicofdz/JS-Master-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DistributionService interface {
	AdjustByPercentage(ctx context.Context, actor uuid.UUID, taskID uuid.UUID, req dto.AdjustByPercentageRequest) (*dto.DistributionResponse, error)
	AdjustByAmount(ctx context.Context, actor uuid.UUID, taskID uuid.UUID, req dto.AdjustByAmountRequest) (*dto.DistributionResponse, error)
	// RebalancePreview applies the two-party complement rule without
	// persisting — the task-edit UI calls it on every slider move.
	RebalancePreview(ctx context.Context, taskID uuid.UUID, req dto.RebalanceRequest) (*dto.DistributionResponse, error)
}

type distributionService struct {
	taskRepo       repository.TaskRepository
	assignmentRepo repository.AssignmentRepository
	historyRepo    repository.HistoryRepository
}

func NewDistributionService(
	taskRepo repository.TaskRepository,
	assignmentRepo repository.AssignmentRepository,
	historyRepo repository.HistoryRepository,
) DistributionService {
	return &distributionService{taskRepo: taskRepo, assignmentRepo: assignmentRepo, historyRepo: historyRepo}
}

// ── AdjustByPercentage ────────────────────────────────────────────────────────
// Validates and persists a full percentage distribution:
//  1. every entry must target an active a_trato assignment of the task
//  2. every percentage must lie in [0,100]
//  3. the resulting active a_trato set must sum to 100 ± 0.05
//  4. amounts are derived from the task budget and stored alongside
//  5. one DistributionChange record per successful save, same commit
//
// Any validation failure leaves persisted state untouched.

func (s *distributionService) AdjustByPercentage(ctx context.Context, actor uuid.UUID, taskID uuid.UUID, req dto.AdjustByPercentageRequest) (*dto.DistributionResponse, error) {
	task, active, byWorker, err := s.loadForAdjustment(ctx, taskID)
	if err != nil {
		return nil, err
	}

	oldSnap, err := distributionSnapshot(active)
	if err != nil {
		return nil, err
	}

	for _, e := range req.Entries {
		a, err := resolveEntry(byWorker, e.WorkerID)
		if err != nil {
			return nil, err
		}
		if e.Percentage.IsNegative() || e.Percentage.GreaterThan(oneHundred) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPercentage, e.Percentage)
		}
		a.SharePercentage = e.Percentage.RoundBank(percentageScale)
	}

	return s.validateAndSave(ctx, actor, task, active, oldSnap, req.Reason, true)
}

// ── AdjustByAmount ────────────────────────────────────────────────────────────
// Amount-based editing: percentages are back-computed from each peso amount
// against the task budget, then the save runs through the exact same sum
// validation as the percentage path. A non-positive budget with non-zero
// amounts is rejected up front.

func (s *distributionService) AdjustByAmount(ctx context.Context, actor uuid.UUID, taskID uuid.UUID, req dto.AdjustByAmountRequest) (*dto.DistributionResponse, error) {
	task, active, byWorker, err := s.loadForAdjustment(ctx, taskID)
	if err != nil {
		return nil, err
	}

	oldSnap, err := distributionSnapshot(active)
	if err != nil {
		return nil, err
	}

	entries := make([]DistributionEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		a, err := resolveEntry(byWorker, e.WorkerID)
		if err != nil {
			return nil, err
		}
		if e.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: monto negativo", ErrInvalidBudget)
		}
		entries = append(entries, DistributionEntry{WorkerID: a.WorkerID, Amount: e.Amount})
	}

	entries, err = ApplyAmountAdjustment(task.TotalBudget, entries)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		a := byWorker[e.WorkerID.String()]
		if e.Percentage.IsNegative() || e.Percentage.GreaterThan(oneHundred) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPercentage, e.Percentage)
		}
		a.SharePercentage = e.Percentage
		a.WorkerPayment = e.Amount.RoundBank(amountScale)
	}

	// Amounts were authoritative here — don't re-derive them from the
	// rounded percentages.
	return s.validateAndSave(ctx, actor, task, active, oldSnap, req.Reason, false)
}

// ── RebalancePreview ──────────────────────────────────────────────────────────

func (s *distributionService) RebalancePreview(ctx context.Context, taskID uuid.UUID, req dto.RebalanceRequest) (*dto.DistributionResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	active, err := s.assignmentRepo.ListActiveByTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		return nil, fmt.Errorf("worker_id invalido: %w", err)
	}

	participants := make([]DistributionEntry, 0, len(active))
	for _, a := range active {
		if a.ContractType != model.ContractATrato {
			continue
		}
		participants = append(participants, DistributionEntry{WorkerID: a.WorkerID, Percentage: a.SharePercentage})
	}
	participants = RebalanceTwoParty(workerID, req.Percentage, participants)

	valid, total := ValidateSum(participants)
	resp := &dto.DistributionResponse{
		TaskID:          task.ID.String(),
		TotalBudget:     task.TotalBudget,
		TotalPercentage: total,
		IsValid:         valid,
		Entries:         make([]dto.DistributionEntryResponse, 0, len(participants)),
		Version:         task.Version,
	}
	names := workerNames(active)
	for _, p := range participants {
		resp.Entries = append(resp.Entries, dto.DistributionEntryResponse{
			WorkerID:   p.WorkerID.String(),
			WorkerName: names[p.WorkerID.String()],
			Percentage: p.Percentage,
			Amount:     PercentageToAmount(task.TotalBudget, p.Percentage),
		})
	}
	return resp, nil
}

// ── Shared plumbing ───────────────────────────────────────────────────────────

// loadForAdjustment loads the task and its active assignments and indexes the
// a_trato participants by worker id. The returned pointers alias the active
// slice so entry edits land on the rows that get saved.
func (s *distributionService) loadForAdjustment(ctx context.Context, taskID uuid.UUID) (*model.Task, []model.Assignment, map[string]*model.Assignment, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, nil, nil, ErrTaskNotFound
	}
	active, err := s.assignmentRepo.ListActiveByTask(ctx, task.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	byWorker := make(map[string]*model.Assignment)
	for i := range active {
		if active[i].ContractType == model.ContractATrato {
			byWorker[active[i].WorkerID.String()] = &active[i]
		}
	}
	return task, active, byWorker, nil
}

func resolveEntry(byWorker map[string]*model.Assignment, workerID string) (*model.Assignment, error) {
	if _, err := uuid.Parse(workerID); err != nil {
		return nil, fmt.Errorf("worker_id invalido: %w", err)
	}
	a, ok := byWorker[workerID]
	if !ok {
		return nil, fmt.Errorf("%w: trabajador %s sin asignacion a_trato activa", ErrAssignmentNotFound, workerID)
	}
	return a, nil
}

// validateAndSave runs the sum invariant over the full active a_trato set and
// commits assignments + history record atomically under the task's version.
func (s *distributionService) validateAndSave(ctx context.Context, actor uuid.UUID, task *model.Task, active []model.Assignment, oldSnap string, reason *string, deriveAmounts bool) (*dto.DistributionResponse, error) {
	participants := make([]DistributionEntry, 0, len(active))
	aTrato := make([]model.Assignment, 0, len(active))
	for i := range active {
		if active[i].ContractType != model.ContractATrato {
			continue
		}
		if deriveAmounts {
			active[i].WorkerPayment = PercentageToAmount(task.TotalBudget, active[i].SharePercentage)
		}
		participants = append(participants, DistributionEntry{
			WorkerID:   active[i].WorkerID,
			Percentage: active[i].SharePercentage,
			Amount:     active[i].WorkerPayment,
		})
		aTrato = append(aTrato, active[i])
	}

	valid, total := ValidateSum(participants)
	if !valid {
		return nil, fmt.Errorf("%w: total %s", ErrSumMismatch, total)
	}

	newSnap, err := distributionSnapshot(active)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.taskRepo.DB(), func(tx *gorm.DB) error {
		ok, err := s.taskRepo.BumpVersion(ctx, tx, task.ID, task.Version)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentModification
		}
		if err := s.assignmentRepo.SaveAllTx(ctx, tx, aTrato); err != nil {
			return err
		}
		rec := newDistributionChange(task.ID, oldSnap, newSnap, reason, actor)
		return s.historyRepo.AppendChangeTx(ctx, tx, rec)
	})
	if txErr != nil {
		return nil, txErr
	}
	task.Version++

	return buildDistributionResponse(task, active), nil
}

// buildDistributionResponse summarizes the active a_trato split.
func buildDistributionResponse(task *model.Task, active []model.Assignment) *dto.DistributionResponse {
	entries := make([]dto.DistributionEntryResponse, 0, len(active))
	participants := make([]DistributionEntry, 0, len(active))
	for _, a := range active {
		if a.ContractType != model.ContractATrato {
			continue
		}
		name := ""
		if a.Worker != nil {
			name = a.Worker.FullName
		}
		entries = append(entries, dto.DistributionEntryResponse{
			WorkerID:   a.WorkerID.String(),
			WorkerName: name,
			Percentage: a.SharePercentage,
			Amount:     a.WorkerPayment,
			IsPaid:     a.IsPaid,
		})
		participants = append(participants, DistributionEntry{WorkerID: a.WorkerID, Percentage: a.SharePercentage})
	}
	valid, total := ValidateSum(participants)
	return &dto.DistributionResponse{
		TaskID:          task.ID.String(),
		TotalBudget:     task.TotalBudget,
		TotalPercentage: total,
		IsValid:         valid,
		Entries:         entries,
		Version:         task.Version,
	}
}

func workerNames(assignments []model.Assignment) map[string]string {
	names := make(map[string]string, len(assignments))
	for _, a := range assignments {
		if a.Worker != nil {
			names[a.WorkerID.String()] = a.Worker.FullName
		}
	}
	return names
}

package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateTaskRequest struct {
	Name        string          `json:"name"         validate:"required,min=3"`
	TotalBudget decimal.Decimal `json:"total_budget" validate:"min=0"`
	// AllowMixedContracts lifts the por_dia / a_trato mixing restriction.
	AllowMixedContracts bool `json:"allow_mixed_contracts"`
}

type SetTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed blocked cancelled on_hold"`
}

// BulkAssignmentStatusRequest drives the manual "set all" action; removed is
// deliberately absent — removal always goes through DELETE /assignments/:id.
type BulkAssignmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=assigned working completed"`
}

type UpdateBudgetRequest struct {
	TotalBudget decimal.Decimal `json:"total_budget" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TaskResponse struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Status              string               `json:"status"`
	TotalBudget         decimal.Decimal      `json:"total_budget"`
	AllowMixedContracts bool                 `json:"allow_mixed_contracts"`
	Version             int                  `json:"version"`
	Assignments         []AssignmentResponse `json:"assignments"`
	// Distribution summarizes the active a_trato split for the task-edit UI.
	Distribution *DistributionResponse `json:"distribution,omitempty"`
	CreatedAt    string                `json:"created_at"`
}

// CascadeResponse reports the outcome of a task-status cascade or a bulk
// assignment-status change.
type CascadeResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
	// AppliedCount is the number of assignments whose status actually changed.
	AppliedCount int `json:"applied_count"`
}

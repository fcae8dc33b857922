package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AssignWorkerRequest struct {
	WorkerID string `json:"worker_id" validate:"required,uuid"`
}

type RemoveAssignmentRequest struct {
	Reason *string `json:"reason" validate:"omitempty,min=3"`
}

type SetAssignmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=assigned working completed"`
}

type MarkPaidRequest struct {
	Paid *bool `json:"paid" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AssignmentResponse struct {
	ID              string          `json:"id"`
	TaskID          string          `json:"task_id"`
	WorkerID        string          `json:"worker_id"`
	WorkerName      string          `json:"worker_name,omitempty"`
	ContractType    string          `json:"contract_type"`
	Status          string          `json:"status"`
	SharePercentage decimal.Decimal `json:"payment_share_percentage"`
	WorkerPayment   decimal.Decimal `json:"worker_payment"`
	IsPaid          bool            `json:"is_paid"`
	StartedAt       *string         `json:"started_at,omitempty"`
	CompletedAt     *string         `json:"completed_at,omitempty"`
	RemovedReason   *string         `json:"removed_reason,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

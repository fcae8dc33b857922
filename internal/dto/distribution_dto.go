package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PercentageEntry struct {
	WorkerID   string          `json:"worker_id"  validate:"required,uuid"`
	Percentage decimal.Decimal `json:"percentage" validate:"min=0,max=100"`
}

type AmountEntry struct {
	WorkerID string          `json:"worker_id" validate:"required,uuid"`
	Amount   decimal.Decimal `json:"amount"    validate:"min=0"`
}

type AdjustByPercentageRequest struct {
	Entries []PercentageEntry `json:"entries" validate:"required,min=1,dive"`
	Reason  *string           `json:"reason"  validate:"omitempty,min=3"`
}

type AdjustByAmountRequest struct {
	Entries []AmountEntry `json:"entries" validate:"required,min=1,dive"`
	Reason  *string       `json:"reason"  validate:"omitempty,min=3"`
}

// RebalanceRequest previews a two-party rebalance without persisting.
type RebalanceRequest struct {
	WorkerID   string          `json:"worker_id"  validate:"required,uuid"`
	Percentage decimal.Decimal `json:"percentage" validate:"min=0,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DistributionEntryResponse struct {
	WorkerID   string          `json:"worker_id"`
	WorkerName string          `json:"worker_name,omitempty"`
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
	IsPaid     bool            `json:"is_paid"`
}

type DistributionResponse struct {
	TaskID          string                      `json:"task_id"`
	TotalBudget     decimal.Decimal             `json:"total_budget"`
	TotalPercentage decimal.Decimal             `json:"total_percentage"`
	IsValid         bool                        `json:"is_valid"`
	Entries         []DistributionEntryResponse `json:"entries"`
	Version         int                         `json:"version"`
}

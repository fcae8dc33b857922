package dto

import "encoding/json"

// HistoryFilter is bound from query string of GET /v1/tasks/:id/history.
type HistoryFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

type DistributionChangeResponse struct {
	ID              string          `json:"id"`
	OldDistribution json.RawMessage `json:"old_distribution"`
	NewDistribution json.RawMessage `json:"new_distribution"`
	Reason          *string         `json:"reason,omitempty"`
	ChangedBy       string          `json:"changed_by"`
	ChangedAt       string          `json:"changed_at"`
}

type AssignmentTransitionResponse struct {
	ID           string  `json:"id"`
	AssignmentID string  `json:"assignment_id"`
	WorkerID     string  `json:"worker_id"`
	Action       string  `json:"action"`
	OldStatus    *string `json:"old_status,omitempty"`
	NewStatus    string  `json:"new_status"`
	Reason       *string `json:"reason,omitempty"`
	Actor        string  `json:"actor"`
	At           string  `json:"at"`
}

// HistoryResponse is the audit trail of one task, newest-first.
type HistoryResponse struct {
	TaskID           string                         `json:"task_id"`
	Changes          []DistributionChangeResponse   `json:"distribution_changes"`
	Transitions      []AssignmentTransitionResponse `json:"assignment_transitions"`
	TotalChanges     int64                          `json:"total_changes"`
	TotalTransitions int64                          `json:"total_transitions"`
	Page             int                            `json:"page"`
	Limit            int                            `json:"limit"`
}

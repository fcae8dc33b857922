package model

import (
	"time"

	"github.com/google/uuid"
)

// TransitionAction identifies what happened to an assignment.
type TransitionAction string

const (
	ActionAssigned      TransitionAction = "assigned"
	ActionRemoved       TransitionAction = "removed"
	ActionReactivated   TransitionAction = "reactivated"
	ActionStatusChanged TransitionAction = "status_changed"
	ActionPaymentMarked TransitionAction = "payment_marked"
)

// DistributionChange records one successful distribution save.
// Records are immutable — never updated or deleted.
// Old/NewDistribution hold a JSON snapshot of worker_id → {percentage, amount}.
type DistributionChange struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TaskID          uuid.UUID `gorm:"type:uuid;not null;index"`
	OldDistribution string    `gorm:"type:jsonb;not null"`
	NewDistribution string    `gorm:"type:jsonb;not null"`
	Reason          *string
	ChangedBy       uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt       time.Time
}

// TableName overrides GORM's default pluralization.
func (DistributionChange) TableName() string { return "distribution_changes" }

// AssignmentTransition records one lifecycle event of an assignment.
// Records are immutable — never updated or deleted.
type AssignmentTransition struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AssignmentID uuid.UUID        `gorm:"type:uuid;not null;index"`
	TaskID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	WorkerID     uuid.UUID        `gorm:"type:uuid;not null"`
	Action       TransitionAction `gorm:"type:varchar(20);not null"`
	OldStatus    *AssignmentStatus `gorm:"type:varchar(20)"`
	NewStatus    AssignmentStatus  `gorm:"type:varchar(20);not null"`
	Reason       *string
	Actor        uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt    time.Time
}

// TableName overrides GORM's default pluralization.
func (AssignmentTransition) TableName() string { return "assignment_transitions" }

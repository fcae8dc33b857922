package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssignmentStatus is the per-worker participation state on a task.
type AssignmentStatus string

const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentWorking   AssignmentStatus = "working"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentRemoved   AssignmentStatus = "removed"
)

// Valid reports whether s is one of the known assignment states.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentAssigned, AssignmentWorking, AssignmentCompleted, AssignmentRemoved:
		return true
	}
	return false
}

// Assignment binds one worker to one task. Removal is always soft: the row
// keeps its last WorkerPayment and IsPaid for payroll continuity, but leaves
// the active distribution set.
type Assignment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TaskID   uuid.UUID `gorm:"type:uuid;not null;index"`
	WorkerID uuid.UUID `gorm:"type:uuid;not null;index"`
	// ContractType is copied from the worker when the assignment is created
	// and never changes for the lifetime of the assignment.
	ContractType ContractType     `gorm:"type:varchar(20);not null"`
	Status       AssignmentStatus `gorm:"type:varchar(20);not null;default:'assigned'"`
	// SharePercentage is meaningful only for a_trato assignments; por_dia
	// assignments always carry 0.
	SharePercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	WorkerPayment   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// IsPaid is independent of Status — money can move before or after
	// the work is completed.
	IsPaid        bool `gorm:"not null;default:false"`
	StartedAt     *time.Time
	CompletedAt   *time.Time
	RemovedReason *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Worker *Worker `gorm:"foreignKey:WorkerID"`
}

// Active reports whether the assignment participates in the task's
// distribution and cascades.
func (a *Assignment) Active() bool { return a.Status != AssignmentRemoved }

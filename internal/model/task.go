package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaskStatus is the closed set of task-level states.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskBlocked    TaskStatus = "blocked"
	TaskCancelled  TaskStatus = "cancelled"
	TaskOnHold     TaskStatus = "on_hold"
)

// Valid reports whether s is one of the known task states.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskBlocked, TaskCancelled, TaskOnHold:
		return true
	}
	return false
}

// Task is the budget authority for its assignments: the sum of active a_trato
// payment shares is validated against TotalBudget, never the other way around.
// Version is the optimistic-concurrency token — every distribution save,
// cascade, and budget change bumps it inside the same transaction.
type Task struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string          `gorm:"not null"`
	Status      TaskStatus      `gorm:"type:varchar(20);not null;default:'pending'"`
	TotalBudget decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// AllowMixedContracts lifts the por_dia / a_trato mixing restriction
	// for this task only.
	AllowMixedContracts bool `gorm:"not null;default:false"`
	Version             int  `gorm:"not null;default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Assignments []Assignment `gorm:"foreignKey:TaskID"`
}

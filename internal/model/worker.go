package model

import (
	"time"

	"github.com/google/uuid"
)

// ContractType classifies how a worker is paid.
// a_trato workers split the task budget by percentage; por_dia workers are
// paid by the day and never consume the task budget; sin_contrato workers
// are tracked for status only.
type ContractType string

const (
	ContractPorDia      ContractType = "por_dia"
	ContractATrato      ContractType = "a_trato"
	ContractSinContrato ContractType = "sin_contrato"
)

// Valid reports whether c is one of the known contract types.
func (c ContractType) Valid() bool {
	switch c {
	case ContractPorDia, ContractATrato, ContractSinContrato:
		return true
	}
	return false
}

// Worker is the crew-member directory entry. The engine references workers by
// id only; the contract type is copied onto each assignment at assign time so
// later directory edits never reshape an existing distribution.
type Worker struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName     string       `gorm:"not null"`
	ContractType ContractType `gorm:"type:varchar(20);not null"`
	// Email receives the payment receipt when an assignment is marked paid.
	Email     *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

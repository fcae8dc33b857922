package service

// contract_policy.go — pure contract-type rules.
// Nothing here touches the store; callers pass the active assignment set and
// decide what to do with the verdict.

import (
	"github.com/nicofdz/JS-Master-sub000/internal/model"
)

// ContractClassification partitions assignments by contract type.
type ContractClassification struct {
	PorDia      []model.Assignment
	ATrato      []model.Assignment
	SinContrato []model.Assignment
}

// ClassifyByContract partitions the given assignments by contract type.
// Removed assignments are skipped — the policy only ever reasons about the
// active set.
func ClassifyByContract(assignments []model.Assignment) ContractClassification {
	var c ContractClassification
	for _, a := range assignments {
		if !a.Active() {
			continue
		}
		switch a.ContractType {
		case model.ContractPorDia:
			c.PorDia = append(c.PorDia, a)
		case model.ContractATrato:
			c.ATrato = append(c.ATrato, a)
		case model.ContractSinContrato:
			c.SinContrato = append(c.SinContrato, a)
		}
	}
	return c
}

// CanMixContracts reports whether the selection is allowed to coexist on one
// task. Mixing por_dia and a_trato workers is rejected unless the task-level
// override is set; sin_contrato workers never block mixing.
func CanMixContracts(assignments []model.Assignment, allowMixedOverride bool) bool {
	if allowMixedOverride {
		return true
	}
	c := ClassifyByContract(assignments)
	return len(c.PorDia) == 0 || len(c.ATrato) == 0
}

// RequiresZeroBudget reports whether the task budget must be zero: true when
// the active set has por_dia workers and no a_trato workers to consume a
// budget. An empty selection never forces the budget to zero — tasks are
// budgeted before the crew is attached.
func RequiresZeroBudget(assignments []model.Assignment) bool {
	c := ClassifyByContract(assignments)
	return len(c.PorDia) > 0 && len(c.ATrato) == 0
}

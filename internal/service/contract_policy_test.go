package service_test

import (
	"testing"

	"github.com/nicofdz/JS-Master-sub000/internal/model"
	"github.com/nicofdz/JS-Master-sub000/internal/service"

	"github.com/stretchr/testify/assert"
)

func asg(contract model.ContractType, status model.AssignmentStatus) model.Assignment {
	return model.Assignment{ContractType: contract, Status: status}
}

func TestClassifyByContract(t *testing.T) {
	c := service.ClassifyByContract([]model.Assignment{
		asg(model.ContractPorDia, model.AssignmentAssigned),
		asg(model.ContractATrato, model.AssignmentWorking),
		asg(model.ContractATrato, model.AssignmentRemoved), // skipped
		asg(model.ContractSinContrato, model.AssignmentCompleted),
	})
	assert.Len(t, c.PorDia, 1)
	assert.Len(t, c.ATrato, 1)
	assert.Len(t, c.SinContrato, 1)
}

func TestCanMixContracts(t *testing.T) {
	mixed := []model.Assignment{
		asg(model.ContractPorDia, model.AssignmentAssigned),
		asg(model.ContractATrato, model.AssignmentAssigned),
	}

	assert.False(t, service.CanMixContracts(mixed, false))
	assert.True(t, service.CanMixContracts(mixed, true), "task-level override lifts the restriction")

	// sin_contrato never blocks mixing
	assert.True(t, service.CanMixContracts([]model.Assignment{
		asg(model.ContractATrato, model.AssignmentAssigned),
		asg(model.ContractSinContrato, model.AssignmentAssigned),
	}, false))

	// a removed por_dia assignment no longer counts
	assert.True(t, service.CanMixContracts([]model.Assignment{
		asg(model.ContractPorDia, model.AssignmentRemoved),
		asg(model.ContractATrato, model.AssignmentAssigned),
	}, false))
}

func TestRequiresZeroBudget(t *testing.T) {
	assert.True(t, service.RequiresZeroBudget([]model.Assignment{
		asg(model.ContractPorDia, model.AssignmentAssigned),
	}))
	assert.False(t, service.RequiresZeroBudget([]model.Assignment{
		asg(model.ContractPorDia, model.AssignmentAssigned),
		asg(model.ContractATrato, model.AssignmentAssigned),
	}))
	// Empty crew never forces the budget to zero
	assert.False(t, service.RequiresZeroBudget(nil))
	// sin_contrato alone doesn't either
	assert.False(t, service.RequiresZeroBudget([]model.Assignment{
		asg(model.ContractSinContrato, model.AssignmentAssigned),
	}))
}

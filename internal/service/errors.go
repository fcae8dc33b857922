package service

import "errors"

// Domain errors surfaced by the assignment & distribution engine. Handlers
// map these to HTTP statuses with errors.Is; services return them wrapped
// with fmt.Errorf("%w: …") when extra context helps the caller.
var (
	// Validation — rejected before any mutation is attempted.
	ErrSumMismatch          = errors.New("la suma de porcentajes debe ser 100")
	ErrContractMixViolation = errors.New("no se pueden mezclar trabajadores por dia y a trato en la misma tarea")
	ErrInvalidBudget        = errors.New("presupuesto invalido")
	ErrInvalidPercentage    = errors.New("porcentaje invalido")

	// State — transition not permitted by the assignment state machine.
	ErrInvalidTransition = errors.New("transicion de estado no permitida")

	// Concurrency — retry with fresh state.
	ErrConcurrentModification = errors.New("la tarea fue modificada por otro usuario")

	// Not found.
	ErrTaskNotFound       = errors.New("tarea no encontrada")
	ErrAssignmentNotFound = errors.New("asignacion no encontrada")
	ErrWorkerNotFound     = errors.New("trabajador no encontrado")

	ErrWorkerAlreadyAssigned = errors.New("el trabajador ya esta asignado a esta tarea")
)

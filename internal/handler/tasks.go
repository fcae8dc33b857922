package handler

import (
	"net/http"

	"github.com/nicofdz/JS-Master-sub000/internal/dto"
	"github.com/nicofdz/JS-Master-sub000/internal/model"
	"github.com/nicofdz/JS-Master-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type TasksHandler struct {
	tasks         service.TaskService
	assignments   service.AssignmentService
	distributions service.DistributionService
	history       service.HistoryService
}

func NewTasksHandler(
	tasks service.TaskService,
	assignments service.AssignmentService,
	distributions service.DistributionService,
	history service.HistoryService,
) *TasksHandler {
	return &TasksHandler{tasks: tasks, assignments: assignments, distributions: distributions, history: history}
}

// Crear godoc
// @Summary Crear tarea
// @Tags tasks
// @Accept json
// @Produce json
// @Param body body dto.CreateTaskRequest true "Tarea"
// @Success 201 {object} dto.TaskResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/tasks [post]
func (h *TasksHandler) Crear(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tasks.CreateTask(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary Obtener tarea con asignaciones y distribución
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/tasks/{id} [get]
func (h *TasksHandler) Obtener(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado godoc
// @Summary Cambiar estado de tarea (cascada a asignaciones activas)
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param body body dto.SetTaskStatusRequest true "Nuevo estado"
// @Success 200 {object} dto.CascadeResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/tasks/{id}/status [patch]
func (h *TasksHandler) CambiarEstado(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.SetTaskStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tasks.SetTaskStatus(c.Request.Context(), actorID(c), id, model.TaskStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarPresupuesto godoc
// @Summary Ajustar presupuesto total, recalculando pagos a_trato
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param body body dto.UpdateBudgetRequest true "Nuevo presupuesto"
// @Success 200 {object} dto.TaskResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/tasks/{id}/budget [patch]
func (h *TasksHandler) CambiarPresupuesto(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBudgetRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tasks.UpdateBudget(c.Request.Context(), actorID(c), id, req.TotalBudget)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EstadoMasivo godoc
// @Summary Fijar el mismo estado en todas las asignaciones activas
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param body body dto.BulkAssignmentStatusRequest true "Estado objetivo"
// @Success 200 {object} dto.CascadeResponse
// @Router /v1/tasks/{id}/assignments/status [patch]
func (h *TasksHandler) EstadoMasivo(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.BulkAssignmentStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tasks.SetAllAssignmentsStatus(c.Request.Context(), actorID(c), id, model.AssignmentStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Asignar godoc
// @Summary Asignar trabajador a tarea
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param body body dto.AssignWorkerRequest true "Trabajador"
// @Success 201 {object} dto.AssignmentResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/tasks/{id}/assignments [post]
func (h *TasksHandler) Asignar(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignWorkerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.assignments.AssignWorker(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DistribuirPorcentajes godoc
// @Summary Reemplazar la distribución por porcentajes
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param body body dto.AdjustByPercentageRequest true "Distribución"
// @Success 200 {object} dto.DistributionResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/tasks/{id}/distribution [put]
func (h *TasksHandler) DistribuirPorcentajes(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustByPercentageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.distributions.AdjustByPercentage(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DistribuirMontos godoc
// @Summary Reemplazar la distribución por montos en pesos
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param body body dto.AdjustByAmountRequest true "Montos"
// @Success 200 {object} dto.DistributionResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/tasks/{id}/distribution/amounts [put]
func (h *TasksHandler) DistribuirMontos(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustByAmountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.distributions.AdjustByAmount(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PreviaRebalance godoc
// @Summary Previsualizar rebalance de dos participantes
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param body body dto.RebalanceRequest true "Cambio propuesto"
// @Success 200 {object} dto.DistributionResponse
// @Router /v1/tasks/{id}/distribution/rebalance [post]
func (h *TasksHandler) PreviaRebalance(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.RebalanceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.distributions.RebalancePreview(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary Historial de cambios de distribución y transiciones
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Param page query int false "Página"
// @Param limit query int false "Tamaño de página"
// @Success 200 {object} dto.HistoryResponse
// @Router /v1/tasks/{id}/history [get]
func (h *TasksHandler) Historial(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var filter dto.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "parametros de paginacion invalidos"})
		return
	}
	resp, err := h.history.GetHistory(c.Request.Context(), id, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/nicofdz/JS-Master-sub000/internal/apierror"
	"github.com/nicofdz/JS-Master-sub000/internal/dto"
	"github.com/nicofdz/JS-Master-sub000/internal/model"
	"github.com/nicofdz/JS-Master-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

// WorkersHandler exposes the worker directory. It sits directly on the
// repository — there is no business logic between the CRUD and the table.
type WorkersHandler struct {
	repo repository.WorkerRepository
}

func NewWorkersHandler(repo repository.WorkerRepository) *WorkersHandler {
	return &WorkersHandler{repo: repo}
}

// Listar godoc
// @Summary Listar trabajadores
// @Tags workers
// @Produce json
// @Param include_inactive query bool false "Incluir inactivos"
// @Success 200 {array} dto.WorkerResponse
// @Router /v1/workers [get]
func (h *WorkersHandler) Listar(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	workers, err := h.repo.List(c.Request.Context(), includeInactive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar trabajadores"))
		return
	}
	resp := make([]dto.WorkerResponse, len(workers))
	for i := range workers {
		resp[i] = workerToResponse(&workers[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Registrar trabajador
// @Tags workers
// @Accept json
// @Produce json
// @Param body body dto.CreateWorkerRequest true "Trabajador"
// @Success 201 {object} dto.WorkerResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/workers [post]
func (h *WorkersHandler) Crear(c *gin.Context) {
	var req dto.CreateWorkerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	w := &model.Worker{
		FullName:     req.FullName,
		ContractType: model.ContractType(req.ContractType),
		Email:        req.Email,
		Active:       true,
	}
	if err := h.repo.Create(c.Request.Context(), w); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, workerToResponse(w))
}

func workerToResponse(w *model.Worker) dto.WorkerResponse {
	return dto.WorkerResponse{
		ID:           w.ID.String(),
		FullName:     w.FullName,
		ContractType: string(w.ContractType),
		Email:        w.Email,
		Active:       w.Active,
		CreatedAt:    w.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

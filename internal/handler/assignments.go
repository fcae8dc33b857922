package handler

import (
	"net/http"

	"github.com/nicofdz/JS-Master-sub000/internal/dto"
	"github.com/nicofdz/JS-Master-sub000/internal/model"
	"github.com/nicofdz/JS-Master-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type AssignmentsHandler struct {
	svc service.AssignmentService
}

func NewAssignmentsHandler(svc service.AssignmentService) *AssignmentsHandler {
	return &AssignmentsHandler{svc: svc}
}

// Remover godoc
// @Summary Remover asignación (soft delete, congela el pago)
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param body body dto.RemoveAssignmentRequest false "Motivo"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/assignments/{id} [delete]
func (h *AssignmentsHandler) Remover(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	// Body is optional on DELETE; a missing body means no reason given.
	var req dto.RemoveAssignmentRequest
	_ = c.ShouldBindJSON(&req)

	resp, err := h.svc.RemoveAssignment(c.Request.Context(), actorID(c), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reactivar godoc
// @Summary Reactivar asignación removida (vuelve con 0%)
// @Tags assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} dto.AssignmentResponse
// @Router /v1/assignments/{id}/reactivate [patch]
func (h *AssignmentsHandler) Reactivar(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ReactivateAssignment(c.Request.Context(), actorID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado godoc
// @Summary Cambiar estado de una asignación
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param body body dto.SetAssignmentStatusRequest true "Nuevo estado"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/assignments/{id}/status [patch]
func (h *AssignmentsHandler) CambiarEstado(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.SetAssignmentStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetAssignmentStatus(c.Request.Context(), actorID(c), id, model.AssignmentStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarcarPago godoc
// @Summary Marcar o desmarcar pago de una asignación
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param body body dto.MarkPaidRequest true "Estado de pago"
// @Success 200 {object} dto.AssignmentResponse
// @Router /v1/assignments/{id}/paid [patch]
func (h *AssignmentsHandler) MarcarPago(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.MarkPaidRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MarkPaid(c.Request.Context(), actorID(c), id, *req.Paid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package worker

// payroll_worker.go
// Processes receipt jobs from QueuePayroll: renders the payment receipt PDF
// for an assignment marked as paid and, when the worker has an email on
// file, chains an email job carrying the attachment.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nicofdz/JS-Master-sub000/internal/infra"
	"github.com/nicofdz/JS-Master-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PayrollJobPayload is the job envelope sent to QueuePayroll.
type PayrollJobPayload struct {
	AssignmentID string `json:"assignment_id"`
}

type PayrollWorker struct {
	assignments repository.AssignmentRepository
	tasks       repository.TaskRepository
	storagePath string
	dispatcher  *Dispatcher
}

func NewPayrollWorker(assignments repository.AssignmentRepository, tasks repository.TaskRepository, storagePath string, dispatcher *Dispatcher) *PayrollWorker {
	return &PayrollWorker{assignments: assignments, tasks: tasks, storagePath: storagePath, dispatcher: dispatcher}
}

// Process renders the receipt PDF and chains the notification email.
func (w *PayrollWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload PayrollJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("payroll_worker: invalid payload: %w", err)
	}
	assignmentID, err := uuid.Parse(payload.AssignmentID)
	if err != nil {
		return fmt.Errorf("payroll_worker: invalid assignment_id: %w", err)
	}

	assignment, err := w.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return fmt.Errorf("payroll_worker: load assignment: %w", err)
	}
	if !assignment.IsPaid {
		// Payment was reverted between enqueue and processing.
		log.Warn().Str("assignment_id", payload.AssignmentID).Msg("payroll_worker: assignment no longer paid — skipping")
		return nil
	}
	task, err := w.tasks.FindByID(ctx, assignment.TaskID)
	if err != nil {
		return fmt.Errorf("payroll_worker: load task: %w", err)
	}

	pdfPath, err := infra.GenerateReceiptPDF(assignment, task, w.storagePath)
	if err != nil {
		return fmt.Errorf("payroll_worker: generate receipt: %w", err)
	}
	log.Info().Str("assignment_id", payload.AssignmentID).Str("pdf", pdfPath).Msg("payroll_worker: receipt generated")

	if assignment.Worker == nil || assignment.Worker.Email == nil || *assignment.Worker.Email == "" {
		return nil
	}
	return w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: *assignment.Worker.Email,
		Subject: fmt.Sprintf("Comprobante de pago — %s", task.Name),
		Body: fmt.Sprintf("Hola %s,\n\nSe registró tu pago de $%s por la tarea %q.\nAdjuntamos el comprobante.",
			assignment.Worker.FullName, assignment.WorkerPayment.StringFixed(0), task.Name),
		PDFPath: pdfPath,
	})
}

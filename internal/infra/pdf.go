package infra

// pdf.go — Payment receipt generation using go-pdf/fpdf.
// Generates an A5 receipt for an assignment payment with:
//   - Company header
//   - Receipt number (assignment id) and timestamp
//   - Task name and total budget
//   - Worker name and contract type
//   - Share percentage and bold paid amount
//
// The output file is saved to storagePath/comprobante_{assignment_id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nicofdz/JS-Master-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders the payment receipt for a paid assignment.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateReceiptPDF(assignment *model.Assignment, task *model.Task, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("comprobante_%s.pdf", assignment.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "JS Master", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Comprobante de Pago", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Receipt info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante: "+assignment.ID.String(), "", 1, "L", false, 0, "")
	paidAt := time.Now()
	if assignment.CompletedAt != nil {
		paidAt = *assignment.CompletedAt
	}
	pdf.CellFormat(contentW, 5, paidAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Detail rows ──────────────────────────────────────────────────────────
	col1 := contentW * 0.40
	col2 := contentW * 0.60

	workerName := ""
	if assignment.Worker != nil {
		workerName = assignment.Worker.FullName
	}
	rows := []struct{ label, value string }{
		{"Trabajador:", workerName},
		{"Tarea:", task.Name},
		{"Tipo de contrato:", string(assignment.ContractType)},
		{"Presupuesto total:", "$" + task.TotalBudget.StringFixed(0)},
		{"Porcentaje:", assignment.SharePercentage.StringFixed(2) + "%"},
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		pdf.CellFormat(col1, 6, r.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, r.value, "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Amount ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(col1, 8, "MONTO PAGADO:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 8, "$"+assignment.WorkerPayment.StringFixed(0), "", 1, "R", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Documento interno — no válido como boleta de honorarios", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

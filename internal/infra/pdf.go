package infra

// pdf.go — Arqueo (close) report rendered with go-pdf/fpdf.
// One A5 page per closed session:
//   - Session header (operator, opened/closed timestamps)
//   - Opening, expected and counted amounts, desvío
//   - Per-payment-method breakdown (ingresos / egresos / neto)
//   - Closing notes
//
// The output file is saved to storagePath/cierre_{sesion}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"almapos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateCierrePDF renders the close report for a session and its movements.
// storagePath is created if needed. Returns the path of the generated file.
func GenerateCierrePDF(sesion *model.SesionCaja, movs []model.Movimiento, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("cierre_%s.pdf", sesion.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Cierre de Caja", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Sesion %s", sesion.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Operador %s", sesion.OperadorID), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Apertura: "+sesion.OpenedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	if sesion.ClosedAt != nil {
		pdf.CellFormat(contentW, 5, "Cierre:   "+sesion.ClosedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Amounts ──────────────────────────────────────────────────────────────
	labelW := contentW * 0.6
	valueW := contentW * 0.4

	row := func(label string, value decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(labelW, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, "$"+value.StringFixed(2), "", 1, "R", false, 0, "")
	}

	row("Monto de apertura:", sesion.MontoApertura, false)
	if sesion.MontoEsperado != nil {
		row("Monto esperado (efectivo):", *sesion.MontoEsperado, false)
	}
	if sesion.MontoCierre != nil {
		row("Monto contado:", *sesion.MontoCierre, false)
	}
	if sesion.Desvio != nil {
		row("Desvio:", *sesion.Desvio, true)
	}

	// ── Per-method breakdown ─────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.34
	col := contentW * 0.22

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Metodo", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col, 5, "Ingresos", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col, 5, "Egresos", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col, 5, "Neto", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, metodo := range model.MetodosPago {
		ingresos, egresos := decimal.Zero, decimal.Zero
		for _, m := range movs {
			if m.MetodoPago != metodo {
				continue
			}
			if m.Monto.IsNegative() {
				egresos = egresos.Add(m.Monto.Abs())
			} else {
				ingresos = ingresos.Add(m.Monto)
			}
		}
		if ingresos.IsZero() && egresos.IsZero() {
			continue
		}
		pdf.CellFormat(col1, 5, string(metodo), "", 0, "L", false, 0, "")
		pdf.CellFormat(col, 5, "$"+ingresos.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col, 5, "$"+egresos.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col, 5, "$"+ingresos.Sub(egresos).StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Notes ────────────────────────────────────────────────────────────────
	if sesion.NotasCierre != nil && *sesion.NotasCierre != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, "Notas: "+*sesion.NotasCierre, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

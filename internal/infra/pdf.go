package infra

// pdf.go — cost breakdown reports using go-pdf/fpdf. One A5 page per recipe:
// header with the recipe name, a line per direct component (insumo or
// sub-receta) with quantity and subtotal, and the bold recursive total.
// The output file is saved to storagePath/costo_{receta_id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// CostoLinea is one direct component of the recipe being reported.
type CostoLinea struct {
	Nombre   string
	Cantidad decimal.Decimal
	Unidad   string
	Subtotal decimal.Decimal
}

// CostoReporte is everything the report needs, already resolved.
type CostoReporte struct {
	RecetaID string
	Nombre   string
	Costo    decimal.Decimal
	Lineas   []CostoLinea
}

// GenerateCostoPDF writes the report and returns the absolute file path.
// storagePath is created if needed.
func GenerateCostoPDF(reporte CostoReporte, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("costo_%s.pdf", reporte.RecetaID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Como en Casa", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Costo de Receta", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, reporte.Nombre, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, time.Now().Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Component table ───────────────────────────────────────────────────────
	col1 := contentW * 0.48 // component name
	col2 := contentW * 0.24 // quantity + unit
	col3 := contentW * 0.28 // subtotal

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Componente", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cantidad", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, linea := range reporte.Lineas {
		nombre := linea.Nombre
		if len(nombre) > 28 {
			nombre = nombre[:27] + "…"
		}
		cantidad := linea.Cantidad.String()
		if linea.Unidad != "" {
			cantidad += " " + linea.Unidad
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, cantidad, "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+linea.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Total ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2, 7, "COSTO TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 7, "$"+reporte.Costo.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"ecopulse/internal/models"
	"ecopulse/internal/repository"
)

// ESGReportInput carries everything the PDF needs; the generator performs
// no lookups of its own.
type ESGReportInput struct {
	UserEmail string
	From      *time.Time
	To        *time.Time
	Totals    repository.UsageTotals
	Recent    []models.EmissionRecord
}

// GenerateESG renders a one-page emissions summary PDF.
func GenerateESG(input ESGReportInput) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "EcoPulse AI - ESG Emissions Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "User: "+input.UserEmail)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Period: "+formatBound(input.From, "(all)")+" - "+formatBound(input.To, "(now)"))
	pdf.Ln(10)

	kpi := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 7, label, "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, value, "1", 1, "L", false, 0, "")
	}
	kpi("Total tokens", fmt.Sprintf("%d", input.Totals.Tokens))
	kpi("Energy (kWh)", input.Totals.EnergyKWh.String())
	kpi("CO2 (grams)", input.Totals.CO2Grams.String())
	kpi("Water (liters)", input.Totals.WaterLiters.String())
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Recent emission records")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 9)
	widths := []float64{38, 40, 22, 40, 20}
	headers := []string{"Time", "Model", "Tokens", "CO2 (g)", "Score"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, rec := range input.Recent {
		pdf.CellFormat(widths[0], 6, rec.CreatedAt.UTC().Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, rec.Model, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", rec.Tokens), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, rec.CO2Grams.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%d", rec.GreenScore), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func formatBound(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return t.UTC().Format("2006-01-02")
}

package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	dashboard "energia-cloud/internal/dashboard/domain"
)

// BuildSummaryPDF renders the cards and both charts as tables. lossGroup
// names the key column of the top-losses table.
func BuildSummaryPDF(summary *dashboard.Summary, lossGroup dashboard.GroupBy, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, tr("Resumo de Energia"))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Gerado em: %s", generatedAt.Format(time.RFC3339)))
	pdf.Ln(8)
	pdf.Cell(0, 6, fmt.Sprintf("Custo total: %.2f", summary.Cards.CostTotal))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Perdas totais: %.2f", summary.Cards.LossTotal))
	pdf.Ln(10)

	writeChart(pdf, tr, "Custo por unidade", dashboard.GroupByClient.Heading(), "Valor total", summary.CostBySite)
	pdf.Ln(6)
	writeChart(pdf, tr, "Maiores perdas", lossGroup.Heading(), "Perdas", summary.TopLosses)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeChart(pdf *gofpdf.Fpdf, tr func(string) string, title, labelHeader, valueHeader string, chart dashboard.Chart) {
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, tr(title))
	pdf.Ln(7)
	pdf.CellFormat(110, 6, tr(labelHeader), "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, tr(valueHeader), "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for i, label := range chart.Labels {
		pdf.CellFormat(110, 6, tr(label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", chart.Values[i]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}

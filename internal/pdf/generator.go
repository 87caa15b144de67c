package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// PDFGenerator renders skin progress reports
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// ReportData contains everything shown in a progress report. Logs are
// expected newest first, as the repositories return them.
type ReportData struct {
	UserName       string
	Start          time.Time
	End            time.Time
	GeneratedAt    time.Time
	Summary        model.ProgressSummary
	ConditionLabel string
	Insights       []model.Insight
	ScoreHistory   []model.ScorePoint
	Concerns       []model.ConcernCount
	Products       []model.Product
	Logs           []model.SkinLog
}

// Generate creates a PDF report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	g.logger.Info("generating PDF report",
		zap.Time("start", data.Start),
		zap.Time("end", data.End),
		zap.Int("logs", len(data.Logs)),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	g.addTitle(pdf, data)
	g.addSummary(pdf, data.Summary, data.ConditionLabel)
	g.addScoreChart(pdf, data.ScoreHistory)
	g.addInsights(pdf, data.Insights)
	g.addConcerns(pdf, data.Concerns)
	g.addProducts(pdf, data.Products)
	g.addLogEntries(pdf, data.Logs)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, data *ReportData) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, "Skin Progress Report", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	if data.UserName != "" {
		pdf.CellFormat(0, 8, fmt.Sprintf("Name: %s", data.UserName), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s to %s", data.Start.Format("2006-01-02"), data.End.Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", data.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(8)
}

func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

func (g *PDFGenerator) addSummary(pdf *gofpdf.Fpdf, s model.ProgressSummary, label string) {
	g.addSectionHeader(pdf, "Summary")

	if s.TotalLogs == 0 {
		pdf.CellFormat(0, 8, "No skin logs recorded during this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	rows := [][2]string{
		{"Overall condition", fmt.Sprintf("%s (%.1f / 4)", label, s.AverageCondition)},
		{"Entries logged", fmt.Sprintf("%d", s.TotalLogs)},
		{"Current streak", fmt.Sprintf("%d days", s.Streak)},
		{"Improvement (7 vs previous 7 logs)", fmt.Sprintf("%+d%%", s.ImprovementRate)},
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(80, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addScoreChart draws one bar per score point, oldest on the left
func (g *PDFGenerator) addScoreChart(pdf *gofpdf.Fpdf, points []model.ScorePoint) {
	if len(points) == 0 {
		return
	}
	g.addSectionHeader(pdf, "Skin Score")

	const chartHeight = 40.0
	const barWidth = 14.0
	const gap = 6.0

	x0, y0 := pdf.GetXY()
	baseline := y0 + chartHeight

	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(x0, baseline, x0+float64(len(points))*(barWidth+gap), baseline)

	pdf.SetFont("Arial", "", 8)
	for i, p := range points {
		h := chartHeight * float64(p.Score) / 100
		x := x0 + float64(i)*(barWidth+gap)
		pdf.SetFillColor(120, 170, 210)
		pdf.Rect(x, baseline-h, barWidth, h, "F")

		pdf.SetXY(x, baseline-h-5)
		pdf.CellFormat(barWidth, 5, fmt.Sprintf("%d", p.Score), "", 0, "C", false, 0, "")
		pdf.SetXY(x-2, baseline+1)
		pdf.CellFormat(barWidth+4, 5, p.Date.Format("01/02"), "", 0, "C", false, 0, "")
	}

	pdf.SetXY(x0, baseline+10)
	pdf.SetFont("Arial", "", 10)
}

func (g *PDFGenerator) addInsights(pdf *gofpdf.Fpdf, insights []model.Insight) {
	g.addSectionHeader(pdf, "Insights")

	if len(insights) == 0 {
		pdf.CellFormat(0, 8, "No insights for this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, in := range insights {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("[%s] %s", strings.ToUpper(string(in.Priority)), in.Title), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, in.Description, "", "L", false)
		pdf.Ln(2)
	}
	pdf.Ln(3)
}

func (g *PDFGenerator) addConcerns(pdf *gofpdf.Fpdf, concerns []model.ConcernCount) {
	if len(concerns) == 0 {
		return
	}
	g.addSectionHeader(pdf, "Recurring Concerns")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(100, 7, "Concern", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Entries", "1", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, c := range concerns {
		pdf.CellFormat(100, 6, c.Concern, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", c.Count), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)
}

func (g *PDFGenerator) addProducts(pdf *gofpdf.Fpdf, products []model.Product) {
	g.addSectionHeader(pdf, "Routine")

	active := 0
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		active++
		line := p.Name
		if p.Brand != "" {
			line = fmt.Sprintf("%s (%s)", p.Name, p.Brand)
		}
		pdf.CellFormat(0, 6, fmt.Sprintf("  - %s, %s since %s", line, p.Category, p.StartDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
	}
	if active == 0 {
		pdf.CellFormat(0, 8, "No active products.", "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

func (g *PDFGenerator) addLogEntries(pdf *gofpdf.Fpdf, logs []model.SkinLog) {
	if len(logs) == 0 {
		return
	}
	g.addSectionHeader(pdf, "Journal Entries")

	for _, l := range logs {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s  %s  score %d", l.Date.Format("2006-01-02"), l.Condition, l.SkinScore), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		if len(l.Concerns) > 0 {
			pdf.CellFormat(0, 5, "Concerns: "+strings.Join(l.Concerns, ", "), "", 1, "L", false, 0, "")
		}
		if l.Notes != "" {
			pdf.MultiCell(0, 5, "Notes: "+l.Notes, "", "L", false)
		}
		pdf.Ln(2)
	}
}

package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders reports; an interface so handlers can be tested
// without producing real PDFs.
type Generator interface {
	CompletionReport(data CompletionReportData) ([]byte, error)
}

type ReportGenerator struct {
	fontName string
}

// CompletionReportData carries pre-formatted values: the renderer does
// layout only, no duration math.
type CompletionReportData struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	TotalCompletedTasks   int
	AverageCompletionTime string // empty when nothing completed
	ApprovalRate          float64

	ByPriority []PriorityRow

	GeneratedAt time.Time
}

type PriorityRow struct {
	Priority    int
	AverageTime string
	TaskCount   int
}

func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{fontName: "Helvetica"}
}

func (g *ReportGenerator) CompletionReport(data CompletionReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Task Completion Report", false)
	pdf.SetAuthor("TaskHub", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	pdf.AddPage()

	// ===== Title
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "TASK COMPLETION REPORT", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("%s  -  %s",
		data.PeriodStart.Format("02.01.2006"),
		data.PeriodEnd.Format("02.01.2006"),
	)
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)

	pdf.Ln(3)

	// ===== Totals
	g.sectionTitle(pdf, "Summary")
	g.kvLine(pdf, "Completed tasks", fmt.Sprintf("%d", data.TotalCompletedTasks))
	avg := data.AverageCompletionTime
	if avg == "" {
		avg = "n/a"
	}
	g.kvLine(pdf, "Average completion", avg)
	g.kvLine(pdf, "Approval rate", fmt.Sprintf("%.1f%%", data.ApprovalRate*100))
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Per-priority table
	g.sectionTitle(pdf, "Completion time by priority")
	if len(data.ByPriority) == 0 {
		pdf.SetFont(g.fontName, "", 11)
		pdf.MultiCell(0, 6, "No completed tasks with a priority in this period.", "", "L", false)
	} else {
		pdf.SetFont(g.fontName, "B", 11)
		pdf.CellFormat(40, 7, "Priority", "1", 0, "C", false, 0, "")
		pdf.CellFormat(80, 7, "Average time", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, "Tasks", "1", 1, "C", false, 0, "")

		pdf.SetFont(g.fontName, "", 11)
		for _, row := range data.ByPriority {
			pdf.CellFormat(40, 7, fmt.Sprintf("%d", row.Priority), "1", 0, "C", false, 0, "")
			pdf.CellFormat(80, 7, row.AverageTime, "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 7, fmt.Sprintf("%d", row.TaskCount), "1", 1, "C", false, 0, "")
		}
	}
	pdf.Ln(2)
	g.hr(pdf)

	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6,
		"Generated "+data.GeneratedAt.Format("02.01.2006 15:04 MST"),
		"", 1, "R", false, 0, "",
	)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// ===== helpers =====

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(55, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/mind-engage/mindengage-maturity/internal/maturity"
)

// PDFExporter renders an A4 report with the core fonts.
type PDFExporter struct{}

const (
	pdfMargin   = 15.0
	pdfLineH    = 6.0
	pdfContentW = 180.0
)

func (PDFExporter) Render(w io.Writer, rep Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetCreationDate(rep.GeneratedAt)
	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Legal IT Maturity Assessment - "+rep.Organization), false)
	pdf.SetAuthor(tr(rep.Organization), false)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Legal IT Maturity Assessment", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, pdfLineH, tr(rep.Organization), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, pdfLineH, "Generated "+rep.GeneratedAt.Format("2 January 2006"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, pdfLineH, fmt.Sprintf("Questions answered: %d of %d", rep.Answered, rep.Total), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	heading(pdf, "Overall maturity")
	pdf.SetFont("Helvetica", "B", 14)
	levelFill(pdf, rep.OverallLevel)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(60, 10, score(rep.Overall)+" / 5", "", 0, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 10, fmt.Sprintf("  %s (%s)", rep.OverallBand, rep.OverallLevel), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	heading(pdf, "Domain scores")
	scoreTable(pdf, "Domain", func(add func(name string, s float64, b maturity.Band, l maturity.Level)) {
		for _, d := range rep.Domains {
			add(tr(d.Name), d.Score, d.Band, d.Level)
		}
	})
	pdf.Ln(4)

	heading(pdf, "Dimension scores")
	scoreTable(pdf, "Dimension", func(add func(name string, s float64, b maturity.Band, l maturity.Level)) {
		for _, d := range rep.Dimensions {
			add(tr(d.Name), d.Score, d.Band, d.Level)
		}
	})
	pdf.Ln(4)

	if len(rep.Weakest) > 0 {
		heading(pdf, "Priority areas")
		pdf.SetFont("Helvetica", "", 10)
		for _, d := range rep.Weakest {
			pdf.CellFormat(0, pdfLineH, tr(fmt.Sprintf("- %s: %s (%s)", d.Name, score(d.Score), d.Band)), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}
	if len(rep.Strongest) > 0 {
		heading(pdf, "Strengths")
		pdf.SetFont("Helvetica", "", 10)
		for _, d := range rep.Strongest {
			pdf.CellFormat(0, pdfLineH, tr(fmt.Sprintf("- %s: %s (%s)", d.Name, score(d.Score), d.Band)), "", 1, "L", false, 0, "")
		}
	}

	pdf.AddPage()
	heading(pdf, "Recommendations by domain")
	for _, d := range rep.Domains {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, pdfLineH+1, tr(fmt.Sprintf("%s - %s", d.Name, d.Band)), "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for i, rec := range d.Recommendations {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", i+1, rec)), "", "L", false)
		}
		if len(d.Templates) > 0 {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 5, "Templates:", "", 1, "L", false, 0, "")
			for _, t := range d.Templates {
				line := fmt.Sprintf("%s [%s] - %s", t.Name, strings.ToUpper(t.FileType), t.Description)
				pdf.MultiCell(0, 5, tr(line), "", "L", false)
			}
		}
		pdf.Ln(3)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func heading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(31, 41, 55)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func scoreTable(pdf *fpdf.Fpdf, first string, rows func(add func(name string, s float64, b maturity.Band, l maturity.Level))) {
	widths := []float64{80, 20, 35, 45}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(229, 231, 235)
	for i, h := range []string{first, "Score", "Band", "Level"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	rows(func(name string, s float64, b maturity.Band, l maturity.Level) {
		pdf.CellFormat(widths[0], 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, score(s), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, string(b), "1", 0, "L", false, 0, "")
		levelFill(pdf, l)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(widths[3], 7, string(l), "1", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
}

func levelFill(pdf *fpdf.Fpdf, l maturity.Level) {
	r, g, b := hexRGB(l.Color())
	pdf.SetFillColor(r, g, b)
}

// hexRGB parses #RRGGBB; anything else is grey.
func hexRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 107, 114, 128
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 107, 114, 128
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

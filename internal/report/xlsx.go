package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/mindengage-maturity/internal/maturity"
)

// XLSXExporter renders one workbook with a sheet per report section.
type XLSXExporter struct{}

const (
	sheetSummary         = "Summary"
	sheetDomains         = "Domains"
	sheetDimensions      = "Dimensions"
	sheetRecommendations = "Recommendations"
	sheetTemplates       = "Templates"
)

func (XLSXExporter) Render(w io.Writer, rep Report) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}
	for _, name := range []string{sheetDomains, sheetDimensions, sheetRecommendations, sheetTemplates} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Legal IT Maturity Assessment",
		Creator: rep.Organization,
		Created: rep.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	levelStyles := map[maturity.Level]int{}
	for _, l := range maturity.AllLevels() {
		id, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Fill: excelize.Fill{Type: "pattern", Color: []string{l.Color()}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		levelStyles[l] = id
	}

	x := &sheetWriter{f: f}

	// Summary
	x.sheet = sheetSummary
	x.row([]any{"Legal IT Maturity Assessment"})
	x.row([]any{"Organization", rep.Organization})
	x.row([]any{"Generated", rep.GeneratedAt.Format("2006-01-02 15:04")})
	x.row([]any{"Answered", fmt.Sprintf("%d of %d", rep.Answered, rep.Total)})
	x.row([]any{"Overall score", round1(rep.Overall)})
	x.row([]any{"Overall band", string(rep.OverallBand)})
	x.row([]any{"Overall level", string(rep.OverallLevel)})
	x.style("A1", "A7", bold)
	x.style("B7", "B7", levelStyles[rep.OverallLevel])
	x.next++
	x.row([]any{"Priority areas"})
	x.style(x.cell(1, x.next-1), x.cell(1, x.next-1), bold)
	for _, d := range rep.Weakest {
		x.row([]any{d.Name, round1(d.Score), string(d.Band)})
	}
	x.next++
	x.row([]any{"Strengths"})
	x.style(x.cell(1, x.next-1), x.cell(1, x.next-1), bold)
	for _, d := range rep.Strongest {
		x.row([]any{d.Name, round1(d.Score), string(d.Band)})
	}
	x.width("A", "A", 28)
	x.width("B", "C", 22)

	// Domains
	x.begin(sheetDomains, header, "Domain", "Score", "Band", "Level", "Answered")
	for _, d := range rep.Domains {
		x.row([]any{d.Name, round1(d.Score), string(d.Band), string(d.Level), d.Answered})
		at := x.cell(4, x.next-1)
		x.style(at, at, levelStyles[d.Level])
	}
	x.width("A", "A", 36)
	x.width("B", "E", 18)

	// Dimensions
	x.begin(sheetDimensions, header, "Dimension", "Score", "Band", "Level")
	for _, d := range rep.Dimensions {
		x.row([]any{d.Name, round1(d.Score), string(d.Band), string(d.Level)})
		at := x.cell(4, x.next-1)
		x.style(at, at, levelStyles[d.Level])
	}
	x.width("A", "A", 28)
	x.width("B", "D", 18)

	// Recommendations
	x.begin(sheetRecommendations, header, "Domain", "Band", "#", "Recommendation")
	for _, d := range rep.Domains {
		for i, rec := range d.Recommendations {
			x.row([]any{d.Name, string(d.Band), i + 1, rec})
		}
	}
	x.width("A", "A", 36)
	x.width("B", "C", 14)
	x.width("D", "D", 100)

	// Templates
	x.begin(sheetTemplates, header, "Domain", "Band", "Template", "Type", "Description", "URL")
	for _, d := range rep.Domains {
		for _, t := range d.Templates {
			x.row([]any{d.Name, string(d.Band), t.Name, strings.ToUpper(t.FileType), t.Description, t.URL})
		}
	}
	x.width("A", "A", 36)
	x.width("B", "B", 14)
	x.width("C", "C", 40)
	x.width("D", "D", 10)
	x.width("E", "F", 60)

	if x.err != nil {
		return fmt.Errorf("render xlsx: %w", x.err)
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

// sheetWriter appends rows to one sheet at a time and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
	err   error
}

func (x *sheetWriter) begin(sheet string, headerStyle int, cols ...string) {
	x.sheet, x.next = sheet, 0
	row := make([]any, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	x.row(row)
	x.style("A1", x.cell(len(cols), 1), headerStyle)
	if x.err == nil {
		x.err = x.f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	}
}

func (x *sheetWriter) row(vals []any) {
	if x.next == 0 {
		x.next = 1
	}
	if x.err == nil {
		x.err = x.f.SetSheetRow(x.sheet, x.cell(1, x.next), &vals)
	}
	x.next++
}

func (x *sheetWriter) cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil && x.err == nil {
		x.err = err
	}
	return name
}

func (x *sheetWriter) style(from, to string, id int) {
	if x.err == nil {
		x.err = x.f.SetCellStyle(x.sheet, from, to, id)
	}
}

func (x *sheetWriter) width(from, to string, w float64) {
	if x.err == nil {
		x.err = x.f.SetColWidth(x.sheet, from, to, w)
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

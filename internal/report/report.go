// Package report turns a classified assessment into PDF or spreadsheet
// documents.
package report

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/mind-engage/mindengage-maturity/internal/maturity"
	"github.com/mind-engage/mindengage-maturity/internal/playbook"
)

var ErrOrganizationRequired = errors.New("organization name is required")

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported report format: %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Request is everything an export needs from the core.
type Request struct {
	Organization   string
	Result         maturity.AssessmentResult
	Classification *maturity.Classification // computed from Result when nil
}

type DomainRow struct {
	maturity.DomainScore
	Recommendations []string            `json:"recommendations"`
	Templates       []playbook.Template `json:"templates"`
}

// Report is the format-independent document content.
type Report struct {
	ID           string                    `json:"id"`
	Organization string                    `json:"organization"`
	GeneratedAt  time.Time                 `json:"generated_at"`
	Overall      float64                   `json:"overall"`
	OverallBand  maturity.Band             `json:"overall_band"`
	OverallLevel maturity.Level            `json:"overall_level"`
	Answered     int                       `json:"answered"`
	Total        int                       `json:"total"`
	Domains      []DomainRow               `json:"domains"`
	Dimensions   []maturity.DimensionScore `json:"dimensions"`
	Weakest      []maturity.DomainScore    `json:"weakest"`
	Strongest    []maturity.DomainScore    `json:"strongest"`
}

// Build assembles the report content. Recommendations and templates are
// looked up by each domain's band.
func Build(req Request, lookup playbook.Lookup, now time.Time) (Report, error) {
	org := strings.TrimSpace(req.Organization)
	if org == "" {
		return Report{}, ErrOrganizationRequired
	}
	var c maturity.Classification
	if req.Classification != nil {
		c = *req.Classification
	} else {
		c = maturity.Classify(req.Result)
	}

	rep := Report{
		Organization: org,
		GeneratedAt:  now,
		Overall:      c.Overall,
		OverallBand:  c.OverallBand,
		OverallLevel: c.OverallLevel,
		Answered:     c.Answered,
		Total:        c.Total,
		Dimensions:   c.Dimensions,
		Weakest:      c.Weakest,
		Strongest:    c.Strongest,
		Domains:      make([]DomainRow, 0, len(c.Domains)),
	}
	for _, ds := range c.Domains {
		rep.Domains = append(rep.Domains, DomainRow{
			DomainScore:     ds,
			Recommendations: lookup.RecommendationsFor(ds.Domain, ds.Band),
			Templates:       lookup.TemplatesFor(ds.Domain, ds.Band),
		})
	}
	return rep, nil
}

// Exporter renders a report in one format.
type Exporter interface {
	Render(w io.Writer, rep Report) error
}

func ExporterFor(f Format) (Exporter, error) {
	switch f {
	case FormatPDF:
		return PDFExporter{}, nil
	case FormatXLSX:
		return XLSXExporter{}, nil
	}
	return nil, fmt.Errorf("unsupported report format: %q", f)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Filename is the suggested download name, e.g.
// maturity-report-acme-llp-2024-03-01.pdf.
func Filename(rep Report, f Format) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(rep.Organization), "-"), "-")
	if slug == "" {
		slug = "organization"
	}
	return fmt.Sprintf("maturity-report-%s-%s.%s", slug, rep.GeneratedAt.Format("2006-01-02"), f)
}

func score(v float64) string { return fmt.Sprintf("%.1f", v) }

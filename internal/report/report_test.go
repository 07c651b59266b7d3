package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/mindengage-maturity/internal/maturity"
	"github.com/mind-engage/mindengage-maturity/internal/playbook"
	"github.com/mind-engage/mindengage-maturity/internal/storage"
	syncx "github.com/mind-engage/mindengage-maturity/internal/sync"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleResult() maturity.AssessmentResult {
	res := maturity.Empty()
	res[maturity.Cybersecurity] = maturity.DomainRatings{People: 1, Process: 1, Tooling: 1, Data: 1, Improvement: 1}
	res[maturity.Infrastructure] = maturity.DomainRatings{People: 5, Process: 5, Tooling: 5, Data: 5, Improvement: 5}
	res[maturity.RiskCompliance] = maturity.DomainRatings{People: 3, Process: 3, Tooling: 3, Data: 3, Improvement: 3}
	return res
}

func TestBuild(t *testing.T) {
	lib := playbook.NewLibrary(nil)
	rep, err := Build(Request{Organization: "  Acme LLP ", Result: sampleResult()}, lib, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "Acme LLP", rep.Organization)
	assert.Equal(t, fixedNow, rep.GeneratedAt)
	assert.Equal(t, 15, rep.Answered)
	assert.Equal(t, 40, rep.Total)
	require.Len(t, rep.Domains, 8)
	require.Len(t, rep.Dimensions, 5)
	assert.InDelta(t, 3.0, rep.Overall, 1e-9)

	for _, d := range rep.Domains {
		assert.Equal(t, lib.RecommendationsFor(d.Domain, d.Band), d.Recommendations, d.Name)
		assert.NotNil(t, d.Templates)
	}
	require.NotEmpty(t, rep.Weakest)
	assert.Equal(t, maturity.Cybersecurity, rep.Weakest[0].Domain)
	assert.Equal(t, maturity.Infrastructure, rep.Strongest[0].Domain)
}

func TestBuildUsesGivenClassification(t *testing.T) {
	c := maturity.Classify(sampleResult())
	c.Overall = 4.2
	rep, err := Build(Request{Organization: "Acme", Classification: &c}, playbook.NewLibrary(nil), fixedNow)
	require.NoError(t, err)
	assert.InDelta(t, 4.2, rep.Overall, 1e-9)
}

func TestBuildRequiresOrganization(t *testing.T) {
	_, err := Build(Request{Organization: "   ", Result: maturity.Empty()}, playbook.NewLibrary(nil), fixedNow)
	assert.ErrorIs(t, err, ErrOrganizationRequired)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	f, err = ParseFormat("excel")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	rep := Report{Organization: "Smith & Jones, LLP", GeneratedAt: fixedNow}
	assert.Equal(t, "maturity-report-smith-jones-llp-2024-03-01.pdf", Filename(rep, FormatPDF))
	rep.Organization = "***"
	assert.Equal(t, "maturity-report-organization-2024-03-01.xlsx", Filename(rep, FormatXLSX))
}

func buildSample(t *testing.T) Report {
	t.Helper()
	rep, err := Build(Request{Organization: "Acme LLP", Result: sampleResult()}, playbook.NewLibrary(nil), fixedNow)
	require.NoError(t, err)
	return rep
}

func TestPDFExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDFExporter{}.Render(&buf, buildSample(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestPDFExporterEmptyAssessment(t *testing.T) {
	rep, err := Build(Request{Organization: "Acme", Result: maturity.Empty()}, playbook.NewLibrary(nil), fixedNow)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, PDFExporter{}.Render(&buf, rep))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestXLSXExporter(t *testing.T) {
	rep := buildSample(t)
	var buf bytes.Buffer
	require.NoError(t, XLSXExporter{}.Render(&buf, rep))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetSummary, sheetDomains, sheetDimensions, sheetRecommendations, sheetTemplates}, f.GetSheetList())

	org, err := f.GetCellValue(sheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Acme LLP", org)
	overall, err := f.GetCellValue(sheetSummary, "B5")
	require.NoError(t, err)
	assert.Equal(t, "3", overall)

	rows, err := f.GetRows(sheetDomains)
	require.NoError(t, err)
	require.Len(t, rows, 9)
	assert.Equal(t, []string{"Domain", "Score", "Band", "Level", "Answered"}, rows[0])
	assert.Equal(t, maturity.DomainName(maturity.StrategyGovernance), rows[1][0])

	rows, err = f.GetRows(sheetDimensions)
	require.NoError(t, err)
	assert.Len(t, rows, 6)

	recs := 0
	for _, d := range rep.Domains {
		recs += len(d.Recommendations)
	}
	rows, err = f.GetRows(sheetRecommendations)
	require.NoError(t, err)
	assert.Len(t, rows, recs+1)
}

func TestArchive(t *testing.T) {
	ctx := context.Background()
	fs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	a := NewArchive(fs)

	id := "0b8f5d2e-8f3c-4a57-9d4a-3f1e2b6c7d8e"
	key, err := a.Save(ctx, "../evil owner", id, FormatPDF, strings.NewReader("%PDF-"))
	require.NoError(t, err)
	assert.Equal(t, "reports/_evil_owner/"+id+".pdf", key)

	_, err = a.Save(ctx, "alice", "not-a-uuid", FormatPDF, strings.NewReader("x"))
	assert.Error(t, err)

	objs, err := a.List(ctx, "../evil owner")
	require.NoError(t, err)
	require.Len(t, objs, 1)

	rc, f, err := a.Open(ctx, "../evil owner", id+".pdf")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, FormatPDF, f)
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "%PDF-", string(b))

	_, _, err = a.Open(ctx, "../evil owner", "passwd")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, _, err = a.Open(ctx, "alice", id+".pdf")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

type recordedEvent struct {
	typ, key string
	payload  any
}

type fakeSink struct {
	events []recordedEvent
	err    error
}

func (f *fakeSink) Record(_ context.Context, typ, key string, payload any) error {
	f.events = append(f.events, recordedEvent{typ, key, payload})
	return f.err
}

func TestServiceExport(t *testing.T) {
	ctx := context.Background()
	fs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	sink := &fakeSink{}
	svc := NewService(playbook.NewLibrary(nil),
		WithArchive(NewArchive(fs)), WithEvents(sink), WithClock(func() time.Time { return fixedNow }))

	out, err := svc.Export(ctx, "alice", Request{Organization: "Acme", Result: sampleResult()}, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "maturity-report-acme-2024-03-01.xlsx", out.Filename)
	assert.NotEmpty(t, out.Report.ID)
	assert.Equal(t, "reports/alice/"+out.Report.ID+".xlsx", out.ArchiveKey)
	assert.NotEmpty(t, out.Data)

	require.Len(t, sink.events, 1)
	assert.Equal(t, syncx.TypeReportExported, sink.events[0].typ)
	assert.Equal(t, "alice", sink.events[0].key)

	objs, err := fs.List(ctx, "reports/alice/")
	require.NoError(t, err)
	assert.Len(t, objs, 1)
}

func TestServiceExportErrors(t *testing.T) {
	ctx := context.Background()
	sink := &fakeSink{err: errors.New("down")}
	svc := NewService(playbook.NewLibrary(nil), WithEvents(sink))

	_, err := svc.Export(ctx, "alice", Request{Organization: "", Result: sampleResult()}, FormatPDF)
	assert.ErrorIs(t, err, ErrOrganizationRequired)
	_, err = svc.Export(ctx, "alice", Request{Organization: "Acme", Result: sampleResult()}, Format("docx"))
	assert.Error(t, err)
	assert.Empty(t, sink.events)

	// a failing sink does not fail the export
	out, err := svc.Export(ctx, "alice", Request{Organization: "Acme", Result: sampleResult()}, FormatPDF)
	require.NoError(t, err)
	assert.Empty(t, out.ArchiveKey)
	assert.Len(t, sink.events, 1)
}

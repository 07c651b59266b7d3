package report

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-maturity/internal/metrics"
	"github.com/mind-engage/mindengage-maturity/internal/playbook"
	syncx "github.com/mind-engage/mindengage-maturity/internal/sync"
)

// EventSink receives one event per successful export.
type EventSink interface {
	Record(ctx context.Context, typ, key string, payload any) error
}

// Output is a rendered document.
type Output struct {
	Report     Report
	Format     Format
	Filename   string
	Data       []byte
	ArchiveKey string
}

// Service builds, renders and optionally archives reports.
type Service struct {
	lookup  playbook.Lookup
	archive *Archive
	events  EventSink
	metrics *metrics.Manager
	log     *zap.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithArchive(a *Archive) Option {
	return func(s *Service) { s.archive = a }
}

func WithEvents(e EventSink) Option {
	return func(s *Service) { s.events = e }
}

func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(lookup playbook.Lookup, opts ...Option) *Service {
	s := &Service{lookup: lookup, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("report")
	return s
}

// Export renders req for owner. Archiving failures are logged and do not
// fail the export.
func (s *Service) Export(ctx context.Context, owner string, req Request, f Format) (out Output, err error) {
	defer func() { s.metrics.RecordExport(string(f), err) }()

	ex, err := ExporterFor(f)
	if err != nil {
		return Output{}, err
	}
	rep, err := Build(req, s.lookup, s.now())
	if err != nil {
		return Output{}, err
	}
	rep.ID = uuid.NewString()

	var buf bytes.Buffer
	if err := ex.Render(&buf, rep); err != nil {
		s.log.Error("render failed", zap.String("format", string(f)), zap.Error(err))
		return Output{}, err
	}
	out = Output{Report: rep, Format: f, Filename: Filename(rep, f), Data: buf.Bytes()}

	if s.archive != nil {
		key, aerr := s.archive.Save(ctx, owner, rep.ID, f, bytes.NewReader(out.Data))
		if aerr != nil {
			s.log.Warn("archive failed", zap.String("owner", owner), zap.Error(aerr))
		} else {
			out.ArchiveKey = key
		}
	}
	if s.events != nil {
		payload := map[string]any{
			"id":           rep.ID,
			"format":       f,
			"organization": rep.Organization,
			"overall":      rep.Overall,
			"archive_key":  out.ArchiveKey,
		}
		if eerr := s.events.Record(ctx, syncx.TypeReportExported, owner, payload); eerr != nil {
			s.log.Warn("event not recorded", zap.Error(eerr))
		}
	}
	s.log.Info("report exported",
		zap.String("owner", owner), zap.String("format", string(f)), zap.Int("bytes", len(out.Data)))
	return out, nil
}

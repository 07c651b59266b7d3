package assessment

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-maturity/internal/maturity"
	"github.com/mind-engage/mindengage-maturity/internal/metrics"
	syncx "github.com/mind-engage/mindengage-maturity/internal/sync"
)

// EventSink receives an audit event for every persisted change.
type EventSink interface {
	Record(ctx context.Context, typ, key string, payload any) error
}

// Service is the rating flow: every mutation loads the owner's result,
// applies the change and persists it immediately.
type Service struct {
	mu      sync.Mutex
	store   Store
	events  EventSink
	metrics *metrics.Manager
	log     *zap.Logger
}

type ServiceOption func(*Service)

func WithEvents(e EventSink) ServiceOption {
	return func(s *Service) { s.events = e }
}

func WithMetrics(m *metrics.Manager) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(log *zap.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{store: store, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("assessment")
	return s
}

func (s *Service) Get(ctx context.Context, owner string) (maturity.AssessmentResult, error) {
	return s.store.Load(ctx, owner)
}

// SetRating answers (or with 0 clears) one dimension of one domain.
func (s *Service) SetRating(ctx context.Context, owner string, domain maturity.DomainID, dim maturity.Dimension, value int) (maturity.AssessmentResult, error) {
	return s.mutate(ctx, owner, func(res maturity.AssessmentResult) error {
		return res.SetRating(domain, dim, value)
	})
}

// SetDomain replaces all five ratings of one domain.
func (s *Service) SetDomain(ctx context.Context, owner string, domain maturity.DomainID, r maturity.DomainRatings) (maturity.AssessmentResult, error) {
	return s.mutate(ctx, owner, func(res maturity.AssessmentResult) error {
		for _, d := range maturity.Dimensions() {
			if err := res.SetRating(domain, d.ID, r.Get(d.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Replace stores a whole result after validating it.
func (s *Service) Replace(ctx context.Context, owner string, res maturity.AssessmentResult) (maturity.AssessmentResult, error) {
	if err := maturity.Validate(res); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(ctx, owner, res); err != nil {
		return nil, err
	}
	return res.Clone(), nil
}

// Reset discards the owner's answers.
func (s *Service) Reset(ctx context.Context, owner string) (maturity.AssessmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Reset(ctx, owner); err != nil {
		return nil, err
	}
	s.metrics.RecordReset()
	s.record(ctx, syncx.TypeAssessmentReset, owner, nil)
	return maturity.Empty(), nil
}

// Summary classifies the owner's current result.
func (s *Service) Summary(ctx context.Context, owner string) (maturity.Classification, error) {
	res, err := s.store.Load(ctx, owner)
	if err != nil {
		return maturity.Classification{}, err
	}
	return maturity.Classify(res), nil
}

func (s *Service) mutate(ctx context.Context, owner string, fn func(maturity.AssessmentResult) error) (maturity.AssessmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	// fill gaps so the saved document always carries every domain
	for _, id := range maturity.DomainIDs() {
		if _, ok := res[id]; !ok {
			res[id] = maturity.DomainRatings{}
		}
	}
	if err := fn(res); err != nil {
		return nil, err
	}
	if err := s.save(ctx, owner, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) save(ctx context.Context, owner string, res maturity.AssessmentResult) error {
	if err := s.store.Save(ctx, owner, res); err != nil {
		return err
	}
	s.metrics.RecordSave()
	answered, total := res.Progress()
	s.record(ctx, syncx.TypeAssessmentSaved, owner, map[string]any{
		"answered": answered,
		"total":    total,
		"overall":  maturity.OverallAverage(res),
	})
	return nil
}

func (s *Service) record(ctx context.Context, typ, owner string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Record(ctx, typ, owner, payload); err != nil {
		s.log.Warn("event log append failed", zap.String("type", typ), zap.String("owner", owner), zap.Error(err))
	}
}

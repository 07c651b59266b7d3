package assessment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-maturity/internal/maturity"
	"github.com/mind-engage/mindengage-maturity/internal/metrics"
)

// StorageKey is the canonical key results are persisted under.
const StorageKey = "assessmentResults"

// LegacyKeys were written by older assessment flows. They are read when
// the canonical key is absent and never written.
var LegacyKeys = []string{"maturityResults", "assessment_results"}

var ErrNotFound = errors.New("not found")

// Store persists one assessment result per owner.
type Store interface {
	Load(ctx context.Context, owner string) (maturity.AssessmentResult, error)
	Save(ctx context.Context, owner string, res maturity.AssessmentResult) error
	Reset(ctx context.Context, owner string) error
}

// KV is raw blob storage keyed by owner and storage key.
type KV interface {
	Get(ctx context.Context, owner, key string) ([]byte, error) // ErrNotFound when absent
	Put(ctx context.Context, owner, key string, data []byte) error
	Delete(ctx context.Context, owner, key string) error
}

// KVStore implements Store on top of a KV. Malformed blobs never reach
// the caller: they are logged, counted and replaced by an empty result.
type KVStore struct {
	kv      KV
	key     string
	legacy  []string
	log     *zap.Logger
	metrics *metrics.Manager
}

type StoreOption func(*KVStore)

// WithKey overrides the canonical storage key.
func WithKey(key string) StoreOption {
	return func(s *KVStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLegacyKeys sets the keys consulted when the canonical one is absent.
func WithLegacyKeys(keys ...string) StoreOption {
	return func(s *KVStore) { s.legacy = keys }
}

func WithStoreLogger(log *zap.Logger) StoreOption {
	return func(s *KVStore) {
		if log != nil {
			s.log = log
		}
	}
}

func WithStoreMetrics(m *metrics.Manager) StoreOption {
	return func(s *KVStore) { s.metrics = m }
}

func NewStore(kv KV, opts ...StoreOption) *KVStore {
	s := &KVStore{
		kv:     kv,
		key:    StorageKey,
		legacy: LegacyKeys,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *KVStore) Key() string { return s.key }

func (s *KVStore) Load(ctx context.Context, owner string) (maturity.AssessmentResult, error) {
	keys := append([]string{s.key}, s.legacy...)
	for _, k := range keys {
		raw, err := s.kv.Get(ctx, owner, k)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		res, verr := maturity.DecodeOrEmpty(raw)
		if verr != nil {
			s.metrics.RecordMalformedLoad()
			s.log.Warn("discarding malformed assessment state",
				zap.String("owner", owner), zap.String("key", k), zap.Error(verr))
		}
		return res, nil
	}
	return maturity.Empty(), nil
}

func (s *KVStore) Save(ctx context.Context, owner string, res maturity.AssessmentResult) error {
	if err := maturity.Validate(res); err != nil {
		return err
	}
	raw, err := maturity.Encode(res)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, owner, s.key, raw)
}

// Reset drops the canonical and legacy entries so the next Load is empty.
func (s *KVStore) Reset(ctx context.Context, owner string) error {
	for _, k := range append([]string{s.key}, s.legacy...) {
		if err := s.kv.Delete(ctx, owner, k); err != nil {
			return err
		}
	}
	return nil
}

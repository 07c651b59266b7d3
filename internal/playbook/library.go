package playbook

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-maturity/internal/maturity"
	"github.com/mind-engage/mindengage-maturity/internal/metrics"
)

// Lookup is what report building and the HTTP layer need from content.
type Lookup interface {
	RecommendationsFor(domain maturity.DomainID, band maturity.Band) []string
	TemplatesFor(domain maturity.DomainID, band maturity.Band) []Template
}

// Override is admin-authored content that replaces a catalog entry.
type Override struct {
	Domain maturity.DomainID `json:"domain"`
	Band   maturity.Band     `json:"band"`
	Entry
	UpdatedBy string `json:"updated_by,omitempty"`
	UpdatedAt int64  `json:"updated_at,omitempty"`
}

type overrideKey struct {
	domain maturity.DomainID
	band   maturity.Band
}

// OverrideStore persists admin overrides.
type OverrideStore interface {
	ListOverrides(ctx context.Context) ([]Override, error)
	PutOverride(ctx context.Context, o Override) error
	DeleteOverride(ctx context.Context, domain maturity.DomainID, band maturity.Band) error
}

// Library serves lookups from the current catalog plus admin overrides.
// The catalog can be swapped at runtime (Reload, Watch).
type Library struct {
	mu        sync.RWMutex
	catalog   *Catalog
	overrides map[overrideKey]Override

	path    string
	store   OverrideStore
	metrics *metrics.Manager
	log     *zap.Logger
	now     func() time.Time
}

type LibraryOption func(*Library)

// WithFile makes Reload and Watch read content from path.
func WithFile(path string) LibraryOption {
	return func(l *Library) { l.path = path }
}

func WithOverrideStore(s OverrideStore) LibraryOption {
	return func(l *Library) { l.store = s }
}

func WithMetrics(m *metrics.Manager) LibraryOption {
	return func(l *Library) { l.metrics = m }
}

func WithLogger(log *zap.Logger) LibraryOption {
	return func(l *Library) {
		if log != nil {
			l.log = log
		}
	}
}

func NewLibrary(base *Catalog, opts ...LibraryOption) *Library {
	if base == nil {
		base = Default()
	}
	l := &Library{
		catalog:   base,
		overrides: map[overrideKey]Override{},
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.Named("playbook")
	return l
}

// Catalog returns the catalog currently in use.
func (l *Library) Catalog() *Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.catalog
}

// Reload re-reads the content file. On failure the previous catalog stays.
func (l *Library) Reload() error {
	if l.path == "" {
		return ErrNoContentFile
	}
	c, err := LoadFile(l.path)
	l.metrics.RecordPlaybookReload(err)
	if err != nil {
		l.log.Warn("reload failed, keeping previous content", zap.String("path", l.path), zap.Error(err))
		return err
	}
	l.mu.Lock()
	l.catalog = c
	l.mu.Unlock()
	l.log.Info("content reloaded", zap.String("path", l.path))
	return nil
}

// Watch reloads the content file whenever it changes, until ctx is done.
// The parent directory is watched so editors that replace the file by
// rename are picked up too.
func (l *Library) Watch(ctx context.Context) error {
	if l.path == "" {
		return ErrNoContentFile
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("playbook: watcher: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(l.path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("playbook: watch %s: %w", target, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			_ = l.Reload()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.log.Warn("watch error", zap.Error(err))
		}
	}
}

// LoadOverrides replaces the in-memory overrides with the stored ones.
func (l *Library) LoadOverrides(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	list, err := l.store.ListOverrides(ctx)
	if err != nil {
		return fmt.Errorf("playbook: load overrides: %w", err)
	}
	m := make(map[overrideKey]Override, len(list))
	for _, o := range list {
		m[overrideKey{o.Domain, o.Band}] = o
	}
	l.mu.Lock()
	l.overrides = m
	l.mu.Unlock()
	return nil
}

// SetOverride validates, persists and activates an override.
func (l *Library) SetOverride(ctx context.Context, o Override) (Override, error) {
	if !maturity.IsDomain(o.Domain) {
		return Override{}, fmt.Errorf("%w: %q", maturity.ErrUnknownDomain, o.Domain)
	}
	if _, err := maturity.ParseBand(string(o.Band)); err != nil {
		return Override{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for i, t := range o.Templates {
		if t.Name == "" {
			return Override{}, fmt.Errorf("%w: template %d has no name", ErrInvalid, i)
		}
	}
	o.Entry = cloneEntry(o.Entry)
	o.UpdatedAt = l.now().Unix()
	if l.store != nil {
		if err := l.store.PutOverride(ctx, o); err != nil {
			return Override{}, err
		}
	}
	l.mu.Lock()
	l.overrides[overrideKey{o.Domain, o.Band}] = o
	l.mu.Unlock()
	return o, nil
}

func (l *Library) DeleteOverride(ctx context.Context, domain maturity.DomainID, band maturity.Band) error {
	k := overrideKey{domain, band}
	l.mu.RLock()
	_, ok := l.overrides[k]
	l.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if l.store != nil {
		if err := l.store.DeleteOverride(ctx, domain, band); err != nil {
			return err
		}
	}
	l.mu.Lock()
	delete(l.overrides, k)
	l.mu.Unlock()
	return nil
}

// Overrides lists active overrides in domain then band order.
func (l *Library) Overrides() []Override {
	l.mu.RLock()
	out := make([]Override, 0, len(l.overrides))
	for _, o := range l.overrides {
		out = append(out, o)
	}
	l.mu.RUnlock()

	order := map[maturity.DomainID]int{}
	for i, id := range maturity.DomainIDs() {
		order[id] = i
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Domain != out[j].Domain {
			return order[out[i].Domain] < order[out[j].Domain]
		}
		return out[i].Band.Rank() < out[j].Band.Rank()
	})
	return out
}

func (l *Library) override(domain maturity.DomainID, band maturity.Band) (Override, *Catalog, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	o, ok := l.overrides[overrideKey{domain, band}]
	return o, l.catalog, ok
}

func (l *Library) RecommendationsFor(domain maturity.DomainID, band maturity.Band) []string {
	o, c, ok := l.override(domain, band)
	if ok && len(o.Recommendations) > 0 {
		return cloneStrings(o.Recommendations)
	}
	return c.RecommendationsFor(domain, band)
}

func (l *Library) TemplatesFor(domain maturity.DomainID, band maturity.Band) []Template {
	o, c, ok := l.override(domain, band)
	if ok && o.Templates != nil {
		return cloneTemplates(o.Templates)
	}
	return c.TemplatesFor(domain, band)
}

func (l *Library) Guide(domain maturity.DomainID, band maturity.Band) (Guide, bool) {
	o, c, ok := l.override(domain, band)
	if ok && o.Guide != nil {
		return cloneGuide(*o.Guide), true
	}
	return c.Guide(domain, band)
}

func (l *Library) Domains() []DomainSummary { return l.Catalog().Domains() }

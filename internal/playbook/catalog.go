// Package playbook holds the static guidance content keyed by domain and
// maturity band: recommended actions, downloadable templates and guide
// pages. Content is data (YAML), never code.
package playbook

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/mindengage-maturity/internal/maturity"
)

//go:embed content/playbook.yaml
var defaultContent []byte

// genericCount is the number of fallback recommendations a catalog must carry.
const genericCount = 5

var (
	ErrNotFound      = errors.New("playbook entry not found")
	ErrInvalid       = errors.New("invalid playbook entry")
	ErrNoContentFile = errors.New("playbook: no content file configured")
)

type Template struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	FileType    string `yaml:"file_type" json:"file_type"`
	URL         string `yaml:"url" json:"url"`
}

type Section struct {
	Heading string `yaml:"heading" json:"heading"`
	Body    string `yaml:"body" json:"body"`
}

type Guide struct {
	Title    string    `yaml:"title" json:"title"`
	Summary  string    `yaml:"summary" json:"summary"`
	Sections []Section `yaml:"sections" json:"sections"`
}

// Entry is the content for one (domain, band) pair.
type Entry struct {
	Recommendations []string   `yaml:"recommendations" json:"recommendations"`
	Templates       []Template `yaml:"templates" json:"templates"`
	Guide           *Guide     `yaml:"guide,omitempty" json:"guide,omitempty"`
}

type domainContent struct {
	Summary string                  `yaml:"summary"`
	Bands   map[maturity.Band]Entry `yaml:"bands"`
}

type document struct {
	Generic []string                            `yaml:"generic_recommendations"`
	Domains map[maturity.DomainID]domainContent `yaml:"domains"`
}

// Catalog is an immutable, validated content table.
type Catalog struct {
	generic []string
	domains map[maturity.DomainID]domainContent
}

// Parse decodes and validates a YAML content document.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("playbook: parse: %w", err)
	}
	if len(doc.Generic) != genericCount {
		return nil, fmt.Errorf("playbook: want %d generic recommendations, got %d", genericCount, len(doc.Generic))
	}
	for id, dc := range doc.Domains {
		if !maturity.IsDomain(id) {
			return nil, fmt.Errorf("playbook: unknown domain %q", id)
		}
		for b, e := range dc.Bands {
			if _, err := maturity.ParseBand(string(b)); err != nil {
				return nil, fmt.Errorf("playbook: %s: %w", id, err)
			}
			for i, t := range e.Templates {
				if t.Name == "" {
					return nil, fmt.Errorf("playbook: %s/%s: template %d has no name", id, b, i)
				}
			}
		}
	}
	if doc.Domains == nil {
		doc.Domains = map[maturity.DomainID]domainContent{}
	}
	return &Catalog{generic: doc.Generic, domains: doc.Domains}, nil
}

// LoadFile reads and parses a content file from disk.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("playbook: read %s: %w", path, err)
	}
	return Parse(raw)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultContent)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func (c *Catalog) entry(domain maturity.DomainID, band maturity.Band) (Entry, bool) {
	dc, ok := c.domains[domain]
	if !ok {
		return Entry{}, false
	}
	e, ok := dc.Bands[band]
	return e, ok
}

// RecommendationsFor returns the actions for an exact (domain, band)
// key. Missing or empty entries fall back to the generic list so there
// is always something to show.
func (c *Catalog) RecommendationsFor(domain maturity.DomainID, band maturity.Band) []string {
	if e, ok := c.entry(domain, band); ok && len(e.Recommendations) > 0 {
		return cloneStrings(e.Recommendations)
	}
	return c.Generic()
}

// TemplatesFor returns the templates for an exact key, or an empty slice.
func (c *Catalog) TemplatesFor(domain maturity.DomainID, band maturity.Band) []Template {
	e, _ := c.entry(domain, band)
	return cloneTemplates(e.Templates)
}

// Guide returns the guide page for a key, if authored.
func (c *Catalog) Guide(domain maturity.DomainID, band maturity.Band) (Guide, bool) {
	e, ok := c.entry(domain, band)
	if !ok || e.Guide == nil {
		return Guide{}, false
	}
	return cloneGuide(*e.Guide), true
}

// Generic returns a copy of the fallback recommendations.
func (c *Catalog) Generic() []string { return cloneStrings(c.generic) }

// DomainSummary describes one domain for the playbook index.
type DomainSummary struct {
	ID      maturity.DomainID `json:"id"`
	Name    string            `json:"name"`
	Summary string            `json:"summary"`
	Bands   []maturity.Band   `json:"bands"`
}

// Domains lists every catalog domain with the bands that have content,
// in maturity catalog and band order.
func (c *Catalog) Domains() []DomainSummary {
	out := make([]DomainSummary, 0, len(c.domains))
	for _, d := range maturity.Domains() {
		dc := c.domains[d.ID]
		s := DomainSummary{ID: d.ID, Name: d.Name, Summary: dc.Summary, Bands: []maturity.Band{}}
		for b := range dc.Bands {
			s.Bands = append(s.Bands, b)
		}
		sort.Slice(s.Bands, func(i, j int) bool { return s.Bands[i].Rank() < s.Bands[j].Rank() })
		out = append(out, s)
	}
	return out
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneTemplates(t []Template) []Template {
	out := make([]Template, len(t))
	copy(out, t)
	return out
}

func cloneGuide(g Guide) Guide {
	g.Sections = append([]Section(nil), g.Sections...)
	return g
}

func cloneEntry(e Entry) Entry {
	// nil stays nil: an unset field means "use the catalog".
	var out Entry
	if e.Recommendations != nil {
		out.Recommendations = cloneStrings(e.Recommendations)
	}
	if e.Templates != nil {
		out.Templates = cloneTemplates(e.Templates)
	}
	if e.Guide != nil {
		g := cloneGuide(*e.Guide)
		out.Guide = &g
	}
	return out
}

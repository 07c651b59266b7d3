package maturity

import (
	"fmt"
	"sort"
)

// Band is the maturity label used to key playbook content.
type Band string

const (
	BandInitial     Band = "Initial"
	BandDeveloping  Band = "Developing"
	BandEstablished Band = "Established"
	BandManaged     Band = "Managed"
	BandOptimized   Band = "Optimized"
)

var bands = []Band{BandInitial, BandDeveloping, BandEstablished, BandManaged, BandOptimized}

// AllBands returns the bands in ordinal order.
func AllBands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// ParseBand accepts the exact label only.
func ParseBand(s string) (Band, error) {
	for _, b := range bands {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("invalid maturity band: %q", s)
}

// Rank is the 1-based ordinal position of the band, 0 if unknown.
func (b Band) Rank() int {
	for i, x := range bands {
		if x == b {
			return i + 1
		}
	}
	return 0
}

// BandFor maps a score to the content band.
func BandFor(score float64) Band {
	switch {
	case score < 2.0:
		return BandInitial
	case score < 3.0:
		return BandDeveloping
	case score < 4.0:
		return BandEstablished
	case score < 4.5:
		return BandManaged
	default:
		return BandOptimized
	}
}

// Level is the CMMI-style label used for display colouring. Its
// cutoffs differ from BandFor's and the two are not interchangeable:
// a 1.8 is "Managed" here but "Initial" as a Band.
type Level string

const (
	LevelInitial               Level = "Initial"
	LevelManaged               Level = "Managed"
	LevelDefined               Level = "Defined"
	LevelQuantitativelyManaged Level = "Quantitatively Managed"
	LevelOptimizing            Level = "Optimizing"
)

var levels = []Level{LevelInitial, LevelManaged, LevelDefined, LevelQuantitativelyManaged, LevelOptimizing}

var levelColors = map[Level]string{
	LevelInitial:               "#DC2626",
	LevelManaged:               "#EA580C",
	LevelDefined:               "#CA8A04",
	LevelQuantitativelyManaged: "#2563EB",
	LevelOptimizing:            "#16A34A",
}

func AllLevels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// LevelFor maps a score to the display level.
func LevelFor(score float64) Level {
	switch {
	case score < 1.5:
		return LevelInitial
	case score < 2.5:
		return LevelManaged
	case score < 3.5:
		return LevelDefined
	case score < 4.5:
		return LevelQuantitativelyManaged
	default:
		return LevelOptimizing
	}
}

// Color returns the hex colour for the level.
func (l Level) Color() string {
	if c, ok := levelColors[l]; ok {
		return c
	}
	return "#6B7280"
}

func (l Level) Rank() int {
	for i, x := range levels {
		if x == l {
			return i + 1
		}
	}
	return 0
}

type DomainScore struct {
	Domain   DomainID `json:"domain"`
	Name     string   `json:"name"`
	Score    float64  `json:"score"`
	Band     Band     `json:"band"`
	Level    Level    `json:"level"`
	Answered int      `json:"answered"`
}

type DimensionScore struct {
	Dimension Dimension `json:"dimension"`
	Name      string    `json:"name"`
	Score     float64   `json:"score"`
	Band      Band      `json:"band"`
	Level     Level     `json:"level"`
}

type Classification struct {
	Domains      []DomainScore    `json:"domains"`
	Dimensions   []DimensionScore `json:"dimensions"`
	Overall      float64          `json:"overall"`
	OverallBand  Band             `json:"overall_band"`
	OverallLevel Level            `json:"overall_level"`
	Weakest      []DomainScore    `json:"weakest"`
	Strongest    []DomainScore    `json:"strongest"`
	Answered     int              `json:"answered"`
	Total        int              `json:"total"`
}

// rankedLimit caps the weakest/strongest lists.
const rankedLimit = 3

// Classify scores every catalog domain and dimension and picks the
// weakest and strongest rated domains. Unrated domains score 0 and are
// left out of both ranked lists; ties keep catalog order.
func Classify(res AssessmentResult) Classification {
	c := Classification{
		Domains: make([]DomainScore, 0, len(domains)),
	}
	for _, d := range domains {
		r := res[d.ID]
		score := DomainAverage(r)
		c.Domains = append(c.Domains, DomainScore{
			Domain:   d.ID,
			Name:     d.Name,
			Score:    score,
			Band:     BandFor(score),
			Level:    LevelFor(score),
			Answered: r.Answered(),
		})
	}

	dimAvg := DimensionAverages(res)
	c.Dimensions = make([]DimensionScore, 0, len(dimensions))
	for _, dim := range dimensions {
		score := dimAvg[dim.ID]
		c.Dimensions = append(c.Dimensions, DimensionScore{
			Dimension: dim.ID,
			Name:      dim.Name,
			Score:     score,
			Band:      BandFor(score),
			Level:     LevelFor(score),
		})
	}

	c.Overall = OverallAverage(res)
	c.OverallBand = BandFor(c.Overall)
	c.OverallLevel = LevelFor(c.Overall)
	c.Answered, c.Total = res.Progress()

	rated := make([]DomainScore, 0, len(c.Domains))
	for _, ds := range c.Domains {
		if ds.Score > 0 {
			rated = append(rated, ds)
		}
	}

	weakest := append([]DomainScore(nil), rated...)
	sort.SliceStable(weakest, func(i, j int) bool { return weakest[i].Score < weakest[j].Score })
	c.Weakest = head(weakest, rankedLimit)

	strongest := append([]DomainScore(nil), rated...)
	sort.SliceStable(strongest, func(i, j int) bool { return strongest[i].Score > strongest[j].Score })
	c.Strongest = head(strongest, rankedLimit)

	return c
}

func head(s []DomainScore, n int) []DomainScore {
	if len(s) > n {
		s = s[:n]
	}
	out := make([]DomainScore, len(s))
	copy(out, s)
	return out
}

// Domain looks up a single domain score by id.
func (c Classification) Domain(id DomainID) (DomainScore, bool) {
	for _, ds := range c.Domains {
		if ds.Domain == id {
			return ds, true
		}
	}
	return DomainScore{}, false
}

package maturity

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownDomain    = errors.New("unknown domain")
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrRatingRange      = errors.New("rating out of range")
)

// DomainRatings holds the five dimension answers for one domain.
type DomainRatings struct {
	People      int `json:"people"`
	Process     int `json:"process"`
	Tooling     int `json:"tooling"`
	Data        int `json:"data"`
	Improvement int `json:"improvement"`
}

// Get returns the rating for d, 0 for an unknown dimension.
func (r DomainRatings) Get(d Dimension) int {
	switch d {
	case People:
		return r.People
	case Process:
		return r.Process
	case Tooling:
		return r.Tooling
	case Data:
		return r.Data
	case Improvement:
		return r.Improvement
	}
	return 0
}

// Set updates one dimension in place. Value 0 clears the answer.
func (r *DomainRatings) Set(d Dimension, v int) error {
	if v < Unanswered || v > MaxRating {
		return fmt.Errorf("%w: %s=%d", ErrRatingRange, d, v)
	}
	switch d {
	case People:
		r.People = v
	case Process:
		r.Process = v
	case Tooling:
		r.Tooling = v
	case Data:
		r.Data = v
	case Improvement:
		r.Improvement = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDimension, d)
	}
	return nil
}

func (r DomainRatings) values() [5]int {
	return [5]int{r.People, r.Process, r.Tooling, r.Data, r.Improvement}
}

// Answered counts the dimensions with a nonzero rating.
func (r DomainRatings) Answered() int {
	n := 0
	for _, v := range r.values() {
		if v > 0 {
			n++
		}
	}
	return n
}

func (r DomainRatings) Complete() bool { return r.Answered() == len(dimensions) }

func (r DomainRatings) validate() error {
	for i, v := range r.values() {
		if v < Unanswered || v > MaxRating {
			return fmt.Errorf("%w: %s=%d", ErrRatingRange, dimensions[i].ID, v)
		}
	}
	return nil
}

// AssessmentResult maps each domain to its ratings.
type AssessmentResult map[DomainID]DomainRatings

// Empty returns a result with every catalog domain present and unrated.
func Empty() AssessmentResult {
	res := make(AssessmentResult, len(domains))
	for _, d := range domains {
		res[d.ID] = DomainRatings{}
	}
	return res
}

func (res AssessmentResult) Clone() AssessmentResult {
	out := make(AssessmentResult, len(res))
	for k, v := range res {
		out[k] = v
	}
	return out
}

// SetRating updates a single answer, creating the domain entry if needed.
func (res AssessmentResult) SetRating(domain DomainID, d Dimension, v int) error {
	if !IsDomain(domain) {
		return fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}
	r := res[domain]
	if err := r.Set(d, v); err != nil {
		return err
	}
	res[domain] = r
	return nil
}

// Progress reports answered and total questions across the catalog.
func (res AssessmentResult) Progress() (answered, total int) {
	for _, d := range domains {
		answered += res[d.ID].Answered()
	}
	return answered, len(domains) * len(dimensions)
}

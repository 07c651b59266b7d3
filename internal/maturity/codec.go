package maturity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrMalformed wraps every validation failure of a persisted result.
var ErrMalformed = errors.New("malformed assessment result")

// Encode writes res as a JSON object keyed by domain id.
func Encode(res AssessmentResult) ([]byte, error) {
	if res == nil {
		res = AssessmentResult{}
	}
	return json.Marshal(res)
}

// Decode parses and validates a persisted result. Every catalog domain
// must be present with all five dimensions as whole numbers in [0,5];
// unknown domains or fields are rejected.
func Decode(raw []byte) (AssessmentResult, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformed)
	}
	for k := range doc {
		if !IsDomain(DomainID(k)) {
			return nil, fmt.Errorf("%w: %v %q", ErrMalformed, ErrUnknownDomain, k)
		}
	}

	res := make(AssessmentResult, len(domains))
	for _, d := range domains {
		rawRec, ok := doc[string(d.ID)]
		if !ok {
			return nil, fmt.Errorf("%w: missing domain %q", ErrMalformed, d.ID)
		}
		r, err := decodeRatings(rawRec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, d.ID, err)
		}
		res[d.ID] = r
	}
	return res, nil
}

// DecodeRatings parses one domain's ratings with the same rules Decode
// applies to each domain entry.
func DecodeRatings(raw []byte) (DomainRatings, error) {
	r, err := decodeRatings(bytes.TrimSpace(raw))
	if err != nil {
		return DomainRatings{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return r, nil
}

func decodeRatings(raw json.RawMessage) (DomainRatings, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return DomainRatings{}, errors.New("ratings must be an object")
	}
	for k := range fields {
		if !IsDimension(Dimension(k)) {
			return DomainRatings{}, fmt.Errorf("%v %q", ErrUnknownDimension, k)
		}
	}
	var r DomainRatings
	for _, dim := range dimensions {
		v, ok := fields[string(dim.ID)]
		if !ok {
			return DomainRatings{}, fmt.Errorf("missing field %q", dim.ID)
		}
		n, err := wholeRating(v)
		if err != nil {
			return DomainRatings{}, fmt.Errorf("%s: %v", dim.ID, err)
		}
		if err := r.Set(dim.ID, n); err != nil {
			return DomainRatings{}, err
		}
	}
	return r, nil
}

func wholeRating(raw json.RawMessage) (int, error) {
	var f float64
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return 0, errors.New("not a number")
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, errors.New("not a number")
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not a whole number: %v", f)
	}
	if f < Unanswered || f > MaxRating {
		return 0, fmt.Errorf("%v: %v", ErrRatingRange, f)
	}
	return int(f), nil
}

// DecodeOrEmpty never fails the caller: a malformed document yields an
// empty result together with the validation error for logging.
func DecodeOrEmpty(raw []byte) (AssessmentResult, error) {
	res, err := Decode(raw)
	if err != nil {
		return Empty(), err
	}
	return res, nil
}

// Validate checks an in-memory result against the same rules as Decode.
func Validate(res AssessmentResult) error {
	for id := range res {
		if !IsDomain(id) {
			return fmt.Errorf("%w: %v %q", ErrMalformed, ErrUnknownDomain, id)
		}
	}
	for _, d := range domains {
		r, ok := res[d.ID]
		if !ok {
			return fmt.Errorf("%w: missing domain %q", ErrMalformed, d.ID)
		}
		if err := r.validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformed, d.ID, err)
		}
	}
	return nil
}

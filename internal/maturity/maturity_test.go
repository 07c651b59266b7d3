package maturity

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allRated(v int) DomainRatings {
	return DomainRatings{People: v, Process: v, Tooling: v, Data: v, Improvement: v}
}

func TestDomainAverage(t *testing.T) {
	cases := []struct {
		name string
		r    DomainRatings
		want float64
	}{
		{"empty", DomainRatings{}, 0},
		{"all ones", allRated(1), 1},
		{"all fives", allRated(5), 5},
		{"mixed", DomainRatings{People: 1, Process: 2, Tooling: 3, Data: 4, Improvement: 5}, 3},
		{"partial counts zeros", DomainRatings{People: 5}, 1},
		{"two answered", DomainRatings{Process: 4, Data: 3}, 1.4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.r
			want := float64(r.People+r.Process+r.Tooling+r.Data+r.Improvement) / 5
			assert.InDelta(t, want, DomainAverage(r), 1e-9)
			assert.InDelta(t, tc.want, DomainAverage(r), 1e-9)
		})
	}
}

func TestDimensionAverages(t *testing.T) {
	t.Run("empty result", func(t *testing.T) {
		got := DimensionAverages(AssessmentResult{})
		require.Len(t, got, 5)
		for _, v := range got {
			assert.Zero(t, v)
		}
	})

	t.Run("zeros count in divisor", func(t *testing.T) {
		res := Empty()
		res[Cybersecurity] = DomainRatings{People: 4, Process: 2, Tooling: 0, Data: 5, Improvement: 1}
		res[RiskCompliance] = DomainRatings{People: 4, Process: 2, Tooling: 0, Data: 3, Improvement: 1}
		got := DimensionAverages(res)
		assert.InDelta(t, 8.0/8, got[People], 1e-9)
		assert.InDelta(t, 4.0/8, got[Process], 1e-9)
		assert.InDelta(t, 0, got[Tooling], 1e-9)
		assert.InDelta(t, 8.0/8, got[Data], 1e-9)
		assert.InDelta(t, 2.0/8, got[Improvement], 1e-9)
	})

	t.Run("only present entries", func(t *testing.T) {
		res := AssessmentResult{Cybersecurity: allRated(3), DataGovernance: allRated(5)}
		got := DimensionAverages(res)
		assert.InDelta(t, 4, got[Tooling], 1e-9)
	})

	t.Run("ignores ids outside the catalog", func(t *testing.T) {
		res := AssessmentResult{Cybersecurity: allRated(3), DomainID("bogus"): allRated(5)}
		got := DimensionAverages(res)
		assert.InDelta(t, 3, got[People], 1e-9)
		assert.InDelta(t, 3, OverallAverage(res), 1e-9)

		res = AssessmentResult{DomainID("bogus"): allRated(5)}
		assert.Zero(t, DimensionAverages(res)[People])
		assert.Zero(t, OverallAverage(res))
	})
}

func TestOverallAverage(t *testing.T) {
	assert.Zero(t, OverallAverage(Empty()))
	assert.Zero(t, OverallAverage(nil))

	res := Empty()
	res[Cybersecurity] = allRated(1)
	assert.InDelta(t, 1.0, OverallAverage(res), 1e-9)

	// partial domains weigh the same as complete ones
	res[VendorManagement] = DomainRatings{People: 5}
	assert.InDelta(t, 1.0, OverallAverage(res), 1e-9)

	res[LegalTechnology] = allRated(4)
	assert.InDelta(t, 2.0, OverallAverage(res), 1e-9)
}

func TestBandFor(t *testing.T) {
	cases := []struct {
		score float64
		want  Band
	}{
		{0, BandInitial},
		{1.99, BandInitial},
		{2.0, BandDeveloping},
		{2.99, BandDeveloping},
		{3.0, BandEstablished},
		{3.99, BandEstablished},
		{4.0, BandManaged},
		{4.49, BandManaged},
		{4.5, BandOptimized},
		{5, BandOptimized},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BandFor(tc.score), "score %v", tc.score)
		assert.Equal(t, BandFor(tc.score), BandFor(tc.score))
	}
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		score float64
		want  Level
	}{
		{0, LevelInitial},
		{1.49, LevelInitial},
		{1.5, LevelManaged},
		{2.49, LevelManaged},
		{2.5, LevelDefined},
		{3.49, LevelDefined},
		{3.5, LevelQuantitativelyManaged},
		{4.49, LevelQuantitativelyManaged},
		{4.5, LevelOptimizing},
		{5, LevelOptimizing},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LevelFor(tc.score), "score %v", tc.score)
	}
}

func TestBandAndLevelDiverge(t *testing.T) {
	assert.Equal(t, BandInitial, BandFor(1.8))
	assert.Equal(t, LevelManaged, LevelFor(1.8))
}

func TestClassifiersMonotonic(t *testing.T) {
	prevBand, prevLevel := 0, 0
	for s := 0.0; s <= 5.0; s += 0.01 {
		b, l := BandFor(s).Rank(), LevelFor(s).Rank()
		require.GreaterOrEqual(t, b, prevBand, "band at %v", s)
		require.GreaterOrEqual(t, l, prevLevel, "level at %v", s)
		prevBand, prevLevel = b, l
	}
	assert.Equal(t, 5, prevBand)
	assert.Equal(t, 5, prevLevel)
}

func TestParseBand(t *testing.T) {
	b, err := ParseBand("Established")
	require.NoError(t, err)
	assert.Equal(t, BandEstablished, b)

	_, err = ParseBand("established")
	assert.Error(t, err)
}

func TestClassifySingleDomain(t *testing.T) {
	res := Empty()
	res[Cybersecurity] = allRated(1)

	c := Classify(res)
	ds, ok := c.Domain(Cybersecurity)
	require.True(t, ok)
	assert.InDelta(t, 1.0, ds.Score, 1e-9)
	assert.Equal(t, BandInitial, ds.Band)
	assert.InDelta(t, 1.0, c.Overall, 1e-9)
	assert.Equal(t, BandInitial, c.OverallBand)

	require.Len(t, c.Weakest, 1)
	require.Len(t, c.Strongest, 1)
	assert.Equal(t, Cybersecurity, c.Weakest[0].Domain)
	assert.Equal(t, Cybersecurity, c.Strongest[0].Domain)
	assert.Equal(t, 5, c.Answered)
	assert.Equal(t, 40, c.Total)
}

func TestClassifyAllFives(t *testing.T) {
	res := Empty()
	for _, id := range DomainIDs() {
		res[id] = allRated(5)
	}
	c := Classify(res)
	assert.InDelta(t, 5.0, c.Overall, 1e-9)
	assert.Equal(t, BandOptimized, c.OverallBand)
	assert.Equal(t, LevelOptimizing, c.OverallLevel)

	want := DomainIDs()[:3]
	require.Len(t, c.Weakest, 3)
	require.Len(t, c.Strongest, 3)
	for i := range want {
		assert.Equal(t, want[i], c.Weakest[i].Domain)
		assert.Equal(t, want[i], c.Strongest[i].Domain)
	}
}

func TestClassifyRanking(t *testing.T) {
	res := Empty()
	res[StrategyGovernance] = allRated(4)
	res[Cybersecurity] = allRated(2)
	res[RiskCompliance] = allRated(3)
	res[DataGovernance] = allRated(2)
	res[Infrastructure] = allRated(5)

	c := Classify(res)
	assert.Equal(t, []DomainID{Cybersecurity, DataGovernance, RiskCompliance}, ids(c.Weakest))
	assert.Equal(t, []DomainID{Infrastructure, StrategyGovernance, RiskCompliance}, ids(c.Strongest))
	for _, ds := range append(c.Weakest, c.Strongest...) {
		assert.Greater(t, ds.Score, 0.0)
	}
	require.Len(t, c.Dimensions, 5)
	assert.InDelta(t, 16.0/8, c.Dimensions[0].Score, 1e-9)
}

func TestClassifyEmpty(t *testing.T) {
	c := Classify(Empty())
	assert.Empty(t, c.Weakest)
	assert.Empty(t, c.Strongest)
	assert.Len(t, c.Domains, 8)
	assert.Zero(t, c.Overall)
	assert.Equal(t, BandInitial, c.OverallBand)
}

func ids(ds []DomainScore) []DomainID {
	out := make([]DomainID, len(ds))
	for i, d := range ds {
		out[i] = d.Domain
	}
	return out
}

func TestSetRating(t *testing.T) {
	res := Empty()
	require.NoError(t, res.SetRating(Cybersecurity, Tooling, 4))
	assert.Equal(t, 4, res[Cybersecurity].Tooling)

	err := res.SetRating("marketing", Tooling, 4)
	assert.True(t, errors.Is(err, ErrUnknownDomain))

	err = res.SetRating(Cybersecurity, "budget", 4)
	assert.True(t, errors.Is(err, ErrUnknownDimension))

	err = res.SetRating(Cybersecurity, Data, 6)
	assert.True(t, errors.Is(err, ErrRatingRange))
	assert.Zero(t, res[Cybersecurity].Data)
}

func TestRoundTrip(t *testing.T) {
	res := Empty()
	res[Cybersecurity] = DomainRatings{People: 1, Process: 2, Tooling: 3, Data: 4, Improvement: 5}
	res[LegalTechnology] = DomainRatings{Tooling: 2}

	raw, err := Encode(res)
	require.NoError(t, err)
	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, res, got)
	assert.NoError(t, Validate(got))
}

func TestDecodeRejects(t *testing.T) {
	valid, err := Encode(Empty())
	require.NoError(t, err)
	_, err = Decode(valid)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":          ``,
		"not json":       `{`,
		"array":          `[]`,
		"null":           `null`,
		"missing domain": `{"cybersecurity":{"people":0,"process":0,"tooling":0,"data":0,"improvement":0}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(raw))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeFieldErrors(t *testing.T) {
	mutate := func(f func(doc map[string]map[string]any)) []byte {
		doc := map[string]map[string]any{}
		for _, id := range DomainIDs() {
			doc[string(id)] = map[string]any{"people": 1, "process": 1, "tooling": 1, "data": 1, "improvement": 1}
		}
		f(doc)
		raw, err := json.Marshal(doc)
		require.NoError(t, err)
		return raw
	}

	cases := map[string]func(doc map[string]map[string]any){
		"missing tooling": func(doc map[string]map[string]any) { delete(doc["cybersecurity"], "tooling") },
		"string value":    func(doc map[string]map[string]any) { doc["cybersecurity"]["data"] = "3" },
		"null value":      func(doc map[string]map[string]any) { doc["cybersecurity"]["data"] = nil },
		"fraction":        func(doc map[string]map[string]any) { doc["cybersecurity"]["data"] = 2.5 },
		"out of range":    func(doc map[string]map[string]any) { doc["cybersecurity"]["data"] = 6 },
		"negative":        func(doc map[string]map[string]any) { doc["cybersecurity"]["data"] = -1 },
		"unknown field":   func(doc map[string]map[string]any) { doc["cybersecurity"]["budget"] = 1 },
		"unknown domain":  func(doc map[string]map[string]any) { doc["marketing"] = doc["cybersecurity"] },
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(mutate(f))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}

	t.Run("whole float accepted", func(t *testing.T) {
		res, err := Decode(mutate(func(doc map[string]map[string]any) { doc["cybersecurity"]["data"] = 3.0 }))
		require.NoError(t, err)
		assert.Equal(t, 3, res[Cybersecurity].Data)
	})
}

func TestDecodeRatings(t *testing.T) {
	r, err := DecodeRatings([]byte(` {"people":1,"process":2,"tooling":3,"data":4,"improvement":5.0} `))
	require.NoError(t, err)
	assert.Equal(t, DomainRatings{People: 1, Process: 2, Tooling: 3, Data: 4, Improvement: 5}, r)

	for _, raw := range []string{
		``,
		`null`,
		`{"people":1,"process":2,"tooling":3,"data":4}`,
		`{"people":1,"process":2,"tooling":3,"data":4,"improvement":6}`,
		`{"people":1,"process":2,"tooling":3,"data":4,"improvement":5,"budget":1}`,
	} {
		_, err := DecodeRatings([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformed, raw)
	}
}

func TestDecodeOrEmptyFallsBack(t *testing.T) {
	raw := []byte(`{"cybersecurity":{"people":1,"process":1,"data":1,"improvement":1}}`)
	res, err := DecodeOrEmpty(raw)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, Empty(), res)
}

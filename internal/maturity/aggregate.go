package maturity

// DomainAverage is the plain mean of the five ratings. Unanswered
// dimensions count as 0 and the divisor is always five.
func DomainAverage(r DomainRatings) float64 {
	sum := 0
	for _, v := range r.values() {
		sum += v
	}
	return float64(sum) / float64(len(dimensions))
}

// DimensionAverages averages each dimension across the catalog domains
// present in res, zero ratings included in the divisor. Ids outside the
// catalog are ignored, as in OverallAverage.
func DimensionAverages(res AssessmentResult) map[Dimension]float64 {
	present := make([]DomainRatings, 0, len(domains))
	for _, d := range domains {
		if r, ok := res[d.ID]; ok {
			present = append(present, r)
		}
	}
	out := make(map[Dimension]float64, len(dimensions))
	for _, dim := range dimensions {
		if len(present) == 0 {
			out[dim.ID] = 0
			continue
		}
		sum := 0
		for _, r := range present {
			sum += r.Get(dim.ID)
		}
		out[dim.ID] = float64(sum) / float64(len(present))
	}
	return out
}

// OverallAverage is the mean of the domain averages that are above zero,
// so partly answered domains weigh the same as complete ones.
func OverallAverage(res AssessmentResult) float64 {
	sum, n := 0.0, 0
	for _, d := range domains {
		r, ok := res[d.ID]
		if !ok {
			continue
		}
		if avg := DomainAverage(r); avg > 0 {
			sum += avg
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

package check

import "cdjready/internal/compat"

// Summary counts results per verdict.
type Summary struct {
	Total  int                   `json:"total"`
	Counts map[compat.Status]int `json:"counts"`
}

// Summarize tallies results.
func Summarize(results []compat.Result) Summary {
	s := Summary{Total: len(results), Counts: make(map[compat.Status]int, len(compat.Statuses))}
	for _, status := range compat.Statuses {
		s.Counts[status] = 0
	}
	for _, r := range results {
		s.Counts[r.Status]++
	}
	return s
}

// Count returns the number of results with status.
func (s Summary) Count(status compat.Status) int {
	return s.Counts[status]
}

// NeedsConversion returns how many results carry a conversion plan.
func (s Summary) NeedsConversion() int {
	return s.Counts[compat.StatusConvertibleLossless] + s.Counts[compat.StatusConvertibleLossy]
}

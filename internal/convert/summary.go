package convert

// Summary aggregates a batch of outcomes.
type Summary struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Copied     int      `json:"copied"`
	Outputs    []string `json:"outputs"`
}

// Summarize counts outcomes and collects the output paths of successes.
func Summarize(outcomes []Outcome) Summary {
	summary := Summary{Total: len(outcomes), Outputs: []string{}}
	for _, o := range outcomes {
		if !o.Success {
			summary.Failed++
			continue
		}
		summary.Successful++
		if o.Copied {
			summary.Copied++
		}
		if o.Output != "" {
			summary.Outputs = append(summary.Outputs, o.Output)
		}
	}
	return summary
}

// HasFailures reports whether any outcome failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

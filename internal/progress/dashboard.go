package progress

// Summary is the dashboard view of one progress record.
type Summary struct {
	Domain      string `json:"domain"`
	Completed   int    `json:"completed"`
	Total       int    `json:"total"`
	Percent     int    `json:"percent"`
	FinalPassed *bool  `json:"final_passed,omitempty"`
}

// Summarize computes completion for a record. Percent is floored.
func Summarize(p *RoadmapProgress) Summary {
	total := len(p.StepStates)
	completed := p.Completed()
	percent := 0
	if total > 0 {
		percent = completed * 100 / total
	}
	s := Summary{
		Domain:    p.Domain,
		Completed: completed,
		Total:     total,
		Percent:   percent,
	}
	if p.Final != nil {
		passed := p.Final.Passed
		s.FinalPassed = &passed
	}
	return s
}

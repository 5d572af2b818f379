package validate

import "intake/internal/schema"

// Summary aggregates findings for reporting and export.
type Summary struct {
	Total      int                     `json:"total"`
	BySeverity map[schema.Severity]int `json:"by_severity"`
	ByType     map[string]int          `json:"by_type"`
}

// Errors returns the number of error-severity findings. Exports use this for
// the soft gate: a non-zero count is reported, not enforced.
func (s Summary) Errors() int {
	return s.BySeverity[schema.SeverityError]
}

// Summarize counts findings by severity and type.
func Summarize(fs []schema.Finding) Summary {
	s := Summary{
		BySeverity: make(map[schema.Severity]int),
		ByType:     make(map[string]int),
	}
	for _, f := range fs {
		s.Total++
		s.BySeverity[f.Severity]++
		s.ByType[f.Type]++
	}
	return s
}

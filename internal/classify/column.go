package classify

import (
	"strconv"
	"strings"

	"intake/internal/schema"
)

const (
	// sampleSize bounds how many non-empty values feed type scoring.
	sampleSize = 100

	// minConfidence is the floor below which the winning type is discarded
	// and the column falls back to string. This prevents low-confidence
	// guesses from producing exotic types.
	minConfidence = 0.3

	// requiredMissingFraction: a column is required when strictly fewer than
	// this fraction of ALL rows (not just the sample) are missing a value.
	requiredMissingFraction = 0.10

	// enumMinDistinct / enumMaxDistinct bound the enum suggestion for string
	// columns. Both bounds are inclusive.
	enumMinDistinct = 2
	enumMaxDistinct = 10
)

// Column infers a schema for one column from its name and full value slice.
//
// Scoring uses up to the first sampleSize non-empty values; the required
// flag uses all rows. The function is pure: it never mutates its inputs and
// always returns a fresh schema.Column.
func Column(name string, values []string) schema.Column {
	var (
		sample   []string
		nonEmpty int
	)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		nonEmpty++
		if len(sample) < sampleSize {
			sample = append(sample, v)
		}
	}

	scores := scoreTypes(name, sample)
	best, bestScore := pickWinner(scores)

	conf := bestScore / 100
	if conf > 1 {
		conf = 1
	}
	if conf < 0 {
		conf = 0
	}
	if conf < minConfidence {
		best = schema.TypeString
	}

	col := schema.Column{
		Name:       name,
		Type:       best,
		Confidence: conf,
	}

	// Required: strictly fewer than 10% of all rows missing. The boundary
	// itself is excluded, and an empty table is never required.
	if len(values) > 0 {
		missing := len(values) - nonEmpty
		col.Required = float64(missing)/float64(len(values)) < requiredMissingFraction
	}

	// Unique: every non-empty value distinct, and more than one of them.
	// A single-row table can never be flagged unique.
	distinct := make(map[string]struct{}, nonEmpty)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		distinct[v] = struct{}{}
	}
	col.Unique = nonEmpty > 1 && len(distinct) == nonEmpty

	col.Validation = inferBounds(name, best, sample)
	return col
}

// scoreTypes computes the 0-100 score for every scored candidate type.
// TypeString is the implicit fallback and never appears in the result.
func scoreTypes(name string, sample []string) map[schema.FieldType]float64 {
	scores := make(map[schema.FieldType]float64, len(schema.CandidateTypes))

	// id combines a name hint with a value-shape fraction: the name signal
	// alone can carry a column of opaque tokens, and the shape signal alone
	// can carry an unlabeled key column.
	idScore := 0.0
	if n := strings.ToLower(name); strings.Contains(n, "id") || strings.Contains(n, "key") {
		idScore += 50
	}
	idScore += 30 * fraction(sample, LooksLikeID)
	scores[schema.TypeID] = idScore

	scores[schema.TypeNumber] = 100 * fraction(sample, LooksLikeNumber)
	scores[schema.TypeBoolean] = 100 * fraction(sample, LooksLikeBoolean)
	scores[schema.TypeDate] = 100 * fraction(sample, LooksLikeDate)
	scores[schema.TypeEmail] = 100 * fraction(sample, LooksLikeEmail)
	scores[schema.TypeURL] = 100 * fraction(sample, LooksLikeURL)
	scores[schema.TypeJSON] = 100 * fraction(sample, LooksLikeJSON)
	scores[schema.TypeArray] = 100 * fraction(sample, LooksLikeArray)

	return scores
}

// pickWinner returns the highest-scoring type; ties resolve to whichever
// candidate is declared first in schema.CandidateTypes.
func pickWinner(scores map[schema.FieldType]float64) (schema.FieldType, float64) {
	best := schema.TypeString
	bestScore := -1.0
	for _, t := range schema.CandidateTypes {
		if s, ok := scores[t]; ok && s > bestScore {
			best = t
			bestScore = s
		}
	}
	if bestScore < 0 {
		bestScore = 0
	}
	return best, bestScore
}

// fraction returns the fraction of sample values for which pred holds.
// An empty sample yields 0.
func fraction(sample []string, pred func(string) bool) float64 {
	if len(sample) == 0 {
		return 0
	}
	n := 0
	for _, v := range sample {
		if pred(v) {
			n++
		}
	}
	return float64(n) / float64(len(sample))
}

// inferBounds derives optional validation constraints:
//   - columns named like a priority always get the fixed 1..5 range,
//     regardless of sampled data
//   - number columns get sampled numeric extrema
//   - string columns with 2..10 distinct sampled values get an enum
//     suggestion, in first-seen order
func inferBounds(name string, t schema.FieldType, sample []string) *schema.Bounds {
	if strings.Contains(strings.ToLower(name), "priority") {
		lo, hi := 1.0, 5.0
		return &schema.Bounds{Min: &lo, Max: &hi}
	}

	switch t {
	case schema.TypeNumber:
		var (
			lo, hi float64
			seen   bool
		)
		for _, v := range sample {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			if !seen || f < lo {
				lo = f
			}
			if !seen || f > hi {
				hi = f
			}
			seen = true
		}
		if !seen {
			return nil
		}
		return &schema.Bounds{Min: &lo, Max: &hi}

	case schema.TypeString:
		var enum []string
		seen := make(map[string]struct{}, len(sample))
		for _, v := range sample {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			enum = append(enum, v)
			if len(enum) > enumMaxDistinct {
				return nil
			}
		}
		if len(enum) < enumMinDistinct {
			return nil
		}
		return &schema.Bounds{Enum: enum}
	}
	return nil
}

package classify

import (
	"strings"

	"intake/internal/schema"
)

// relationshipTargets is the fixed foreign-key naming convention: a squashed
// column name containing the token links to the named table. Matching is
// name-based only; whether referenced values actually exist is checked later
// by the validation engine.
var relationshipTargets = []struct {
	token string
	table string
}{
	{"taskid", "tasks"},
	{"workerid", "workers"},
	{"clientid", "clients"},
}

// relationshipConfidence is the fixed confidence assigned to name-convention
// matches. Detection has no statistical component, so every match carries the
// same weight.
const relationshipConfidence = 0.9

// Relationships scans column names for foreign-key-like naming conventions
// and proposes many-to-one links. A column proposes at most one link (the
// first matching token wins).
func Relationships(cols []schema.Column) []schema.Relationship {
	var out []schema.Relationship
	for _, c := range cols {
		key := squashName(c.Name)
		for _, t := range relationshipTargets {
			if strings.Contains(key, t.token) {
				out = append(out, schema.Relationship{
					Table:      t.table,
					Column:     c.Name,
					Type:       "many-to-one",
					Confidence: relationshipConfidence,
				})
				break
			}
		}
	}
	return out
}

// squashName lower-cases a column name and strips everything that is not a
// letter or digit, so Task_ID, task-id, and TaskID all compare equal.
func squashName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

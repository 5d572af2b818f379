package classify

import (
	"intake/internal/schema"
	"intake/pkg/records"
)

// Synthesize assembles a complete table schema from a parsed raw table:
// per-column classification, entity classification, a primary-key guess, and
// detected relationships.
//
// Column order follows the header order (first-seen). Relationships whose
// target is the table itself are dropped: a table's own key column trivially
// references itself and would only produce noise downstream.
func Synthesize(raw *records.Raw) schema.Table {
	cols := make([]schema.Column, 0, len(raw.Headers))
	for i, h := range raw.Headers {
		cols = append(cols, Column(h, raw.Column(i)))
	}

	entity, conf, reason := Entity(raw.Name, raw.File, cols)

	var rels []schema.Relationship
	for _, r := range Relationships(cols) {
		if r.Table == raw.Name {
			continue
		}
		rels = append(rels, r)
	}

	return schema.Table{
		Name:             raw.Name,
		Entity:           entity,
		EntityConfidence: conf,
		EntityReason:     reason,
		Columns:          cols,
		PrimaryKey:       guessPrimaryKey(cols),
		Relationships:    rels,
	}
}

// guessPrimaryKey prefers a unique id-typed column, then any id-typed column.
// Returns "" when the table has no plausible key.
func guessPrimaryKey(cols []schema.Column) string {
	for _, c := range cols {
		if c.Type == schema.TypeID && c.Unique {
			return c.Name
		}
	}
	for _, c := range cols {
		if c.Type == schema.TypeID {
			return c.Name
		}
	}
	return ""
}

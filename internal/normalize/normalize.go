// Package normalize converts raw cell strings into the canonical
// representation of their column's inferred type.
//
// Normalization runs once per cell at ingest over the whole table, and again
// single-cell whenever an auto-fix is applied. Manual edits are stored as
// typed and judged by the validation engine instead. It is idempotent:
// normalizing a value already in canonical form returns the same value.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"intake/internal/schema"
)

// Value canonicalizes one raw cell against its column's inferred type.
//
// Empty (or whitespace-only) input maps to the empty string for every type.
// Unparseable numbers fall back to "0" when the column is required, else the
// empty string. Invalid JSON is replaced with the literal empty object.
// Arrays either pass through as JSON arrays or get their comma-separated
// tokens quoted and bracketed. All other types are trimmed and otherwise
// unchanged.
func Value(raw string, col schema.Column) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}

	switch col.Type {
	case schema.TypeNumber:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			if col.Required {
				return "0"
			}
			return ""
		}
		return strconv.FormatFloat(f, 'f', -1, 64)

	case schema.TypeBoolean:
		switch strings.ToLower(v) {
		case "true", "1", "yes", "y":
			return "true"
		default:
			// Unrecognized tokens, and every falsy token, map to false.
			return "false"
		}

	case schema.TypeJSON:
		if json.Valid([]byte(v)) {
			return v
		}
		return "{}"

	case schema.TypeArray:
		return normalizeArray(v)

	default:
		return v
	}
}

// Row canonicalizes a whole positional row in place against the schema's
// column order. Cells beyond the column list are left untouched.
func Row(row []string, cols []schema.Column) {
	for i := range row {
		if i >= len(cols) {
			return
		}
		row[i] = Value(row[i], cols[i])
	}
}

// normalizeArray canonicalizes an inline list. Precedence:
//  1. already a JSON array (after converting single to double quotes): pass
//     through unchanged
//  2. contains a comma: quote each comma-separated token and bracket
//  3. otherwise: pass through unchanged
func normalizeArray(v string) string {
	probe := strings.ReplaceAll(v, "'", `"`)
	var arr []any
	if err := json.Unmarshal([]byte(probe), &arr); err == nil {
		return v
	}

	if strings.Contains(v, ",") {
		parts := strings.Split(v, ",")
		quoted := make([]string, 0, len(parts))
		for _, p := range parts {
			b, _ := json.Marshal(strings.TrimSpace(p))
			quoted = append(quoted, string(b))
		}
		return "[" + strings.Join(quoted, ",") + "]"
	}

	return v
}

// FixValue derives the deterministic replacement value for an auto-fixable
// finding, purely from the finding type and the column schema.
//
// type_mismatch repairs to the type's zero value. missing_required prefers
// the column's configured min bound, then max, then a type-appropriate
// default. Callers should only invoke this for findings the validation
// engine marked auto-fixable.
func FixValue(findingType string, col schema.Column) string {
	switch findingType {
	case schema.FindingTypeMismatch:
		switch col.Type {
		case schema.TypeBoolean:
			return "false"
		default:
			return "0"
		}

	case schema.FindingMissingRequired:
		if col.Validation != nil {
			if col.Validation.Min != nil {
				return strconv.FormatFloat(*col.Validation.Min, 'f', -1, 64)
			}
			if col.Validation.Max != nil {
				return strconv.FormatFloat(*col.Validation.Max, 'f', -1, 64)
			}
		}
		switch col.Type {
		case schema.TypeNumber:
			return "0"
		case schema.TypeBoolean:
			return "false"
		default:
			return "default"
		}
	}
	return ""
}

// Package schema defines the shared data model for the intake toolkit:
// inferred column and table schemas, validation findings, and business rules.
//
// These types are the contract between the classifier (which produces them),
// the validation engine (which consumes them), and the exporters (which
// serialize them). They are plain data; all behavior lives in the packages
// that operate on them.
package schema

// FieldType is an inferred column type.
type FieldType string

const (
	TypeID      FieldType = "id"
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
	TypeEmail   FieldType = "email"
	TypeURL     FieldType = "url"
	TypeJSON    FieldType = "json"
	TypeArray   FieldType = "array"
)

// CandidateTypes is the fixed candidate order used for scoring and for
// tie-breaking: when two types score equally, the earlier entry wins.
// TypeString is the implicit fallback and is never scored directly.
var CandidateTypes = []FieldType{
	TypeID,
	TypeNumber,
	TypeBoolean,
	TypeDate,
	TypeEmail,
	TypeURL,
	TypeJSON,
	TypeArray,
	TypeString,
}

// Bounds carries optional per-column validation constraints derived during
// classification: numeric extrema for number columns and an enum suggestion
// for low-cardinality string columns.
type Bounds struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Enum []string `json:"enum,omitempty"`
}

// Column is the inferred schema for a single column. It is created once at
// ingest from a bounded value sample and never mutated afterward; re-uploading
// a table replaces its columns wholesale.
type Column struct {
	Name       string    `json:"name"`
	Type       FieldType `json:"type"`
	Required   bool      `json:"required"`
	Unique     bool      `json:"unique"`
	Validation *Bounds   `json:"validation,omitempty"`

	// Confidence is the winning classifier score divided by 100, in [0,1].
	Confidence float64 `json:"confidence"`
}

// EntityType is one of the three fixed business-object categories a table is
// classified into.
type EntityType string

const (
	EntityClients EntityType = "clients"
	EntityWorkers EntityType = "workers"
	EntityTasks   EntityType = "tasks"
)

// EntityOrder is the fixed tie-break order for entity classification.
var EntityOrder = []EntityType{EntityClients, EntityWorkers, EntityTasks}

// Relationship is a detected foreign-key-style link from the owning table to
// Table via Column. The target column has the same name as Column.
type Relationship struct {
	Table      string  `json:"table"`
	Column     string  `json:"column"`
	Type       string  `json:"type"` // "many-to-one"
	Confidence float64 `json:"confidence"`
}

// Table is the synthesized schema for one logical table.
//
// Columns preserve first-seen (header) order. PrimaryKey is a best guess and
// may be empty. Lifecycle is tied to the table's presence in the in-memory
// data set: created on upload, replaced on re-upload, discarded on removal.
type Table struct {
	Name             string         `json:"name"`
	Entity           EntityType     `json:"entity"`
	EntityConfidence float64        `json:"entity_confidence"`
	EntityReason     string         `json:"entity_reason"`
	Columns          []Column       `json:"columns"`
	PrimaryKey       string         `json:"primary_key,omitempty"`
	Relationships    []Relationship `json:"relationships,omitempty"`
}

// Column returns the schema for the named column, or false when absent.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in schema order.
func (t Table) ColumnNames() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, c.Name)
	}
	return out
}

// Severity classifies a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding kinds produced by the base validation engine. The set is extensible;
// business-rule checks may emit their own kinds.
const (
	FindingMissingRequired  = "missing_required"
	FindingTypeMismatch     = "type_mismatch"
	FindingUnknownReference = "unknown_reference"
	FindingBurnoutRisk      = "burnout_risk"
)

// Finding is a single validation result tied to a specific row/column of a
// table. Findings for a table are a pure function of that table's current
// rows, its schema, and the schemas plus values of the tables it references.
type Finding struct {
	ID          string   `json:"id"`
	Table       string   `json:"table"`
	Row         int      `json:"row"` // 0-based data row index
	Column      string   `json:"column"`
	Message     string   `json:"message"`
	Severity    Severity `json:"severity"`
	Type        string   `json:"type"`
	Suggestion  string   `json:"suggestion,omitempty"`
	AutoFixable bool     `json:"auto_fixable"`
}

// RuleType enumerates the supported business-rule kinds.
type RuleType string

const (
	RuleCoRun              RuleType = "coRun"
	RuleLoadLimit          RuleType = "loadLimit"
	RulePhaseWindow        RuleType = "phaseWindow"
	RuleSlotRestriction    RuleType = "slotRestriction"
	RulePatternMatch       RuleType = "patternMatch"
	RulePrecedenceOverride RuleType = "precedenceOverride"
	RuleCustom             RuleType = "custom"
)

// Rule is a user- or heuristic-created business rule. Rules are advisory:
// they are carried through exports but no enforcement engine consumes them in
// the base system. Rules are never auto-deleted.
type Rule struct {
	ID          string         `json:"id"`
	Type        RuleType       `json:"type"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Enabled     bool           `json:"enabled"`
}

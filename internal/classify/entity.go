package classify

import (
	"fmt"
	"strings"

	"intake/internal/schema"
)

// entityProfile pairs an entity category with the tokens that vote for it.
// Profiles are scored in declared order; ties resolve to the earlier entry.
type entityProfile struct {
	entity schema.EntityType

	// nameTokens are matched against the table and file names (+40 each).
	nameTokens []string

	// columnKeywords are matched against column names (+15 per column).
	columnKeywords []string
}

var entityProfiles = []entityProfile{
	{
		entity:         schema.EntityClients,
		nameTokens:     []string{"client", "customer"},
		columnKeywords: []string{"priority", "request", "budget"},
	},
	{
		entity:         schema.EntityWorkers,
		nameTokens:     []string{"worker", "employee", "staff"},
		columnKeywords: []string{"skill", "available", "capacity", "qualification"},
	},
	{
		entity:         schema.EntityTasks,
		nameTokens:     []string{"task", "job", "project"},
		columnKeywords: []string{"duration", "phase", "concurrent", "category"},
	},
}

const (
	nameTokenWeight     = 40
	columnKeywordWeight = 15
)

// Entity classifies a table into one of the fixed entity categories.
//
// Each name token found in the table or file name adds 40 to its category;
// each column whose name contains a category keyword adds 15 (one vote per
// column, uncapped). The winner is the highest score, ties resolving in
// declared order; confidence is score/100 clamped to at most 1.0.
func Entity(tableName, fileName string, cols []schema.Column) (schema.EntityType, float64, string) {
	names := strings.ToLower(tableName + " " + fileName)

	best := entityProfiles[0].entity
	bestScore := -1.0

	for _, p := range entityProfiles {
		score := 0.0
		for _, tok := range p.nameTokens {
			if strings.Contains(names, tok) {
				score += nameTokenWeight
			}
		}
		for _, c := range cols {
			cn := strings.ToLower(c.Name)
			for _, kw := range p.columnKeywords {
				if strings.Contains(cn, kw) {
					score += columnKeywordWeight
					break
				}
			}
		}
		if score > bestScore {
			best = p.entity
			bestScore = score
		}
	}

	conf := bestScore / 100
	if conf > 1 {
		conf = 1
	}
	if conf < 0 {
		conf = 0
	}

	reason := fmt.Sprintf("table %q scored highest for %s (%.0f%% confidence)", tableName, best, conf*100)
	return best, conf, reason
}

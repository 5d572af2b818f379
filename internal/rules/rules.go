// Package rules turns canned English phrase patterns into business rules.
//
// There is no natural-language understanding here: a fixed list of regular
// expressions is tried in order, and the first match determines the rule type
// and parameters. Anything that matches no pattern becomes a custom rule
// carrying the raw phrase, so user input is never silently dropped.
//
// Rules are advisory. They are carried through exports but no enforcement
// engine consumes them in the base system.
package rules

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"intake/internal/schema"
)

// phrasePattern binds one canned phrase shape to a rule type. build converts
// the submatches into rule parameters.
type phrasePattern struct {
	re    *regexp.Regexp
	typ   schema.RuleType
	build func(m []string) map[string]any
}

var phrasebook = []phrasePattern{
	{
		// "tasks T1 and T2 run together" / "task T1 and T2 must always run together"
		re:  regexp.MustCompile(`(?i)^tasks?\s+(\S+)\s+and\s+(\S+)\s+(?:must\s+)?(?:always\s+)?runs?\s+together$`),
		typ: schema.RuleCoRun,
		build: func(m []string) map[string]any {
			return map[string]any{"tasks": []string{m[1], m[2]}}
		},
	},
	{
		// "limit group sales to 3 slots per phase"
		re:  regexp.MustCompile(`(?i)^limit\s+(?:group\s+)?(\S+)\s+to\s+(\d+)\s+slots?\s+per\s+phase$`),
		typ: schema.RuleLoadLimit,
		build: func(m []string) map[string]any {
			n, _ := strconv.Atoi(m[2])
			return map[string]any{"group": m[1], "max_slots_per_phase": n}
		},
	},
	{
		// "task T7 only runs in phases 2-4" / "task T7 can only run in phase 3"
		re:  regexp.MustCompile(`(?i)^task\s+(\S+)\s+(?:can\s+)?only\s+runs?\s+in\s+phases?\s+([0-9,\s-]+)$`),
		typ: schema.RulePhaseWindow,
		build: func(m []string) map[string]any {
			return map[string]any{"task": m[1], "phases": parsePhaseList(m[2])}
		},
	},
	{
		// "group backend needs at least 2 common slots"
		re:  regexp.MustCompile(`(?i)^(?:group\s+)?(\S+)\s+needs?\s+at\s+least\s+(\d+)\s+common\s+slots?$`),
		typ: schema.RuleSlotRestriction,
		build: func(m []string) map[string]any {
			n, _ := strconv.Atoi(m[2])
			return map[string]any{"group": m[1], "min_common_slots": n}
		},
	},
	{
		// "flag tasks matching ^URGENT-" / "flag all tasks matching review.*"
		re:  regexp.MustCompile(`(?i)^flag\s+(?:all\s+)?tasks?\s+matching\s+(.+)$`),
		typ: schema.RulePatternMatch,
		build: func(m []string) map[string]any {
			return map[string]any{"pattern": strings.TrimSpace(m[1])}
		},
	},
	{
		// "rule R1 takes precedence over rule R2" / "rule R1 overrides rule R2"
		re:  regexp.MustCompile(`(?i)^rule\s+(\S+)\s+(?:takes\s+precedence\s+over|overrides)\s+(?:rule\s+)?(\S+)$`),
		typ: schema.RulePrecedenceOverride,
		build: func(m []string) map[string]any {
			return map[string]any{"winner": m[1], "loser": m[2]}
		},
	},
}

// FromPhrase converts one phrase into a rule. The phrase becomes the rule's
// description verbatim; unmatched phrases produce an enabled custom rule so
// the intent is preserved for manual follow-up.
func FromPhrase(phrase string) schema.Rule {
	p := strings.TrimSpace(phrase)
	for _, pat := range phrasebook {
		m := pat.re.FindStringSubmatch(p)
		if m == nil {
			continue
		}
		return schema.Rule{
			ID:          uuid.NewString(),
			Type:        pat.typ,
			Description: p,
			Parameters:  pat.build(m),
			Enabled:     true,
		}
	}
	return schema.Rule{
		ID:          uuid.NewString(),
		Type:        schema.RuleCustom,
		Description: p,
		Parameters:  map[string]any{"phrase": p},
		Enabled:     true,
	}
}

// FromPhrases converts a batch of phrases, skipping blank lines. Useful for
// reading a phrase file (one rule per line).
func FromPhrases(phrases []string) []schema.Rule {
	var out []schema.Rule
	for _, p := range phrases {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, FromPhrase(p))
	}
	return out
}

// parsePhaseList expands "2-4" and "1, 3,5" into sorted phase numbers.
func parsePhaseList(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			a, errA := strconv.Atoi(strings.TrimSpace(lo))
			b, errB := strconv.Atoi(strings.TrimSpace(hi))
			if errA != nil || errB != nil {
				continue
			}
			for n := a; n <= b; n++ {
				out = append(out, n)
			}
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

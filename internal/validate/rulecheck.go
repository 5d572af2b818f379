package validate

import (
	"sort"
	"sync"

	"intake/internal/schema"
)

// RuleCheck is the extension seam for business-logic validation. The base
// system registers no checks; deployments that enforce business rules can
// register their own from an init function.
type RuleCheck func(t schema.Table, rows [][]string, src Source) []schema.Finding

var (
	ruleMu     sync.RWMutex
	ruleChecks = map[string]RuleCheck{}
)

// RegisterRuleCheck registers a business-logic check under a unique name.
//
// Registering an empty name, a nil check, or a duplicate name panics. This is
// intentional: checks are registered at init time and a collision means two
// packages are fighting over the same slot.
func RegisterRuleCheck(name string, fn RuleCheck) {
	if name == "" {
		panic("validate: RegisterRuleCheck with empty name")
	}
	if fn == nil {
		panic("validate: RegisterRuleCheck with nil check")
	}
	ruleMu.Lock()
	defer ruleMu.Unlock()
	if _, dup := ruleChecks[name]; dup {
		panic("validate: RegisterRuleCheck called twice for " + name)
	}
	ruleChecks[name] = fn
}

// ruleFindings runs registered checks in name order so output is
// deterministic regardless of registration order.
func ruleFindings(t schema.Table, rows [][]string, src Source) []schema.Finding {
	ruleMu.RLock()
	names := make([]string, 0, len(ruleChecks))
	for n := range ruleChecks {
		names = append(names, n)
	}
	checks := make([]RuleCheck, 0, len(names))
	sort.Strings(names)
	for _, n := range names {
		checks = append(checks, ruleChecks[n])
	}
	ruleMu.RUnlock()

	var out []schema.Finding
	for _, fn := range checks {
		out = append(out, fn(t, rows, src)...)
	}
	return out
}

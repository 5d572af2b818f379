// Package classify implements heuristic schema inference for raw tables:
// per-column type scoring, entity classification, relationship detection,
// and the synthesis of a complete table schema.
//
// All inference is deterministic pattern matching over string content.
// Classification never fails, it only produces lower confidence. The scoring
// rules are simple enough to be reasoned about and tested cell-by-cell.
package classify

import (
	"encoding/json"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// idPattern matches identifier-like tokens: a letter followed by three or
// more digits (T123, W0042), or any alphanumeric/dash/underscore token of
// length >= 8 (UUID fragments, hash-like ids).
var idPattern = regexp.MustCompile(`^(?:[A-Za-z][0-9]{3,}|[A-Za-z0-9_-]{8,})$`)

// emailPattern matches the standard local@domain.tld shape. It is a
// heuristic, not an RFC 5322 validator.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[A-Za-z]{2,}$`)

// dateLayouts are tried in order by LooksLikeDate. Ambiguous numeric dates
// resolve to whichever layout parses first.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// LooksLikeID reports whether the value matches an identifier-like pattern.
func LooksLikeID(s string) bool {
	return idPattern.MatchString(strings.TrimSpace(s))
}

// LooksLikeNumber reports whether the value parses as a finite float.
func LooksLikeNumber(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// ParseBool maps the fixed boolean token set, case-insensitively.
// The second return reports whether the value was recognized at all.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true, true
	case "false", "0", "no", "n":
		return false, true
	default:
		return false, false
	}
}

// LooksLikeBoolean reports whether the value is in the boolean token set.
func LooksLikeBoolean(s string) bool {
	_, ok := ParseBool(s)
	return ok
}

// LooksLikeDate reports whether the value parses as a calendar date under any
// of the supported layouts.
func LooksLikeDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, lay := range dateLayouts {
		if _, err := time.Parse(lay, s); err == nil {
			return true
		}
	}
	return false
}

// LooksLikeEmail reports whether the value has a local@domain.tld shape.
func LooksLikeEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// LooksLikeURL reports whether the value parses as a well-formed absolute URL
// (scheme and host both present).
func LooksLikeURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && u.Scheme != "" && u.Host != ""
}

// LooksLikeJSON reports whether the value is valid JSON text.
func LooksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return json.Valid([]byte(s))
}

// LooksLikeArray reports whether the value is bracket-delimited or contains a
// comma (a plausible inline list).
func LooksLikeArray(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return true
	}
	return strings.Contains(s, ",")
}

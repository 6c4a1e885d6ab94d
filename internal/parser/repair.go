package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"dealdesk/internal/domain"
)

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
)

// RecoverJSON turns a raw model response into an object despite malformed
// JSON. It is a strictly-ordered, stop-on-first-success sequence of recovery
// tiers; every tier operates on its own copy of the input, so the same input
// always yields the same outcome:
//
//  1. direct parse of the full text
//  2. parse the markdown code fence content, or the largest {...} span
//  3. apply fixed textual repairs to that substring, then parse
//  4. scan for all balanced top-level {...} groups, longest first
//  5. fail with a ResponseParseError preserving the tier-1 parser message
func RecoverJSON(raw string) (map[string]any, error) {
	// Tier 1: direct parse.
	obj, firstErr := parseObject(raw)
	if firstErr == nil {
		return obj, nil
	}

	// Tier 2: fence content or largest {...} span.
	candidate := extractCandidate(raw)
	if candidate != "" {
		if obj, err := parseObject(candidate); err == nil {
			return obj, nil
		}

		// Tier 3: fixed-order textual repairs on a copy of the candidate.
		if obj, err := parseObject(applyRepairs(candidate)); err == nil {
			return obj, nil
		}
	}

	// Tier 4: every balanced top-level {...} group, longest first.
	groups := balancedGroups(raw)
	sort.Slice(groups, func(i, j int) bool { return len(groups[i]) > len(groups[j]) })
	for _, g := range groups {
		if obj, err := parseObject(g); err == nil {
			return obj, nil
		}
	}

	// Tier 5: all tiers exhausted.
	return nil, domain.NewResponseParseError(firstErr, raw)
}

func parseObject(s string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level JSON value is %T, not an object", v)
	}
	return obj, nil
}

// extractCandidate returns the content of the first markdown code fence, or
// failing that the largest {...} span (first opening to last closing brace).
func extractCandidate(raw string) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return ""
}

// applyRepairs applies the non-destructive textual repairs in fixed order:
// strip trailing commas, quote bare object keys, strip control characters,
// normalize single-quoted strings to double-quoted.
func applyRepairs(s string) string {
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = bareKeyRe.ReplaceAllString(s, `$1"$2":`)
	s = stripControlChars(s)
	s = normalizeQuotes(s)
	return s
}

func stripControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalizeQuotes converts single-quoted strings to double-quoted, escaping
// any double quotes inside them. Quotes inside double-quoted strings are left
// alone.
func normalizeQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inDouble, inSingle, escaped := false, false, false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch {
		case r == '\\':
			b.WriteRune(r)
			escaped = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			b.WriteRune(r)
		case r == '"' && inSingle:
			b.WriteString(`\"`)
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			b.WriteRune('"')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// balancedGroups scans the text for balanced top-level {...} groups, ignoring
// braces inside double-quoted strings.
func balancedGroups(s string) []string {
	var groups []string
	depth := 0
	start := -1
	inString, escaped := false, false
	for i, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				if depth == 0 {
					start = i
				}
				depth++
			}
		case '}':
			if !inString && depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					groups = append(groups, s[start:i+1])
					start = -1
				}
			}
		}
	}
	return groups
}

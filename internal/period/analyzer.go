// Package period implements the optional period-analysis collaborator with a
// text heuristic: it scans documents for month/year tokens and recommends a
// trailing-twelve-month reporting window.
package period

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"dealdesk/internal/domain"
	"dealdesk/internal/port"
)

var (
	monthNameRe = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?[\s,'-]+(20\d{2})\b`)
	numericRe   = regexp.MustCompile(`\b(20\d{2})[-/](0[1-9]|1[0-2])\b`)
)

var monthNums = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// Analyzer is a heuristic port.PeriodAnalyzer.
type Analyzer struct{}

// NewAnalyzer creates a heuristic period analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze scans the text-bearing documents for month/year mentions and, when
// anything is found, recommends the most recent twelve-month window plus a
// per-month source attribution. Returns nil when no period signal exists.
func (a *Analyzer) Analyze(_ context.Context, inputs []port.PeriodInput) (*domain.PeriodAnalysisHint, error) {
	// month key "2024-01" → ordered list of files mentioning it
	mentions := make(map[string][]string)
	filesWithMonths := 0

	for _, in := range inputs {
		months := scanMonths(in.TextContent)
		if len(months) == 0 {
			continue
		}
		filesWithMonths++
		for _, m := range months {
			if !contains(mentions[m], in.Filename) {
				mentions[m] = append(mentions[m], in.Filename)
			}
		}
	}

	if len(mentions) == 0 {
		return nil, nil
	}

	allMonths := make([]string, 0, len(mentions))
	var overlapping []string
	for m, files := range mentions {
		allMonths = append(allMonths, m)
		if len(files) > 1 {
			overlapping = append(overlapping, m)
		}
	}
	sort.Strings(allMonths)
	sort.Strings(overlapping)

	window := allMonths
	if len(window) > 12 {
		window = window[len(window)-12:]
	}

	perMonth := make(map[string]string, len(window))
	for _, m := range window {
		perMonth[m] = mentions[m][0]
	}

	return &domain.PeriodAnalysisHint{
		CombinationNeeded: filesWithMonths > 1,
		OverlappingMonths: overlapping,
		RecommendedPeriod: fmt.Sprintf("%s through %s (TTM)", window[0], window[len(window)-1]),
		PerMonthSources:   perMonth,
	}, nil
}

// scanMonths returns normalized "YYYY-MM" keys found in text.
func scanMonths(text string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(year, month int) {
		key := fmt.Sprintf("%04d-%02d", year, month)
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}

	for _, m := range monthNameRe.FindAllStringSubmatch(text, -1) {
		year, _ := strconv.Atoi(m[2])
		add(year, monthNums[strings.ToLower(m[1])])
	}
	for _, m := range numericRe.FindAllStringSubmatch(text, -1) {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		add(year, month)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

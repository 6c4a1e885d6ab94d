package period_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/period"
	"dealdesk/internal/port"
)

func TestAnalyze_NoSignalReturnsNil(t *testing.T) {
	a := period.NewAnalyzer()

	hint, err := a.Analyze(context.Background(), []port.PeriodInput{
		{Filename: "om.txt", TextContent: "a facility overview with no dates at all"},
	})

	require.NoError(t, err)
	assert.Nil(t, hint)
}

func TestAnalyze_MonthNamesAndNumericForms(t *testing.T) {
	a := period.NewAnalyzer()

	hint, err := a.Analyze(context.Background(), []port.PeriodInput{
		{Filename: "fin.txt", TextContent: "P&L for January 2024 and Feb 2024; prior period 2023-12"},
	})

	require.NoError(t, err)
	require.NotNil(t, hint)
	assert.Equal(t, "2023-12 through 2024-02 (TTM)", hint.RecommendedPeriod)
	assert.False(t, hint.CombinationNeeded)
	assert.Empty(t, hint.OverlappingMonths)
	assert.Equal(t, "fin.txt", hint.PerMonthSources["2024-01"])
}

func TestAnalyze_OverlappingMonthsAcrossFiles(t *testing.T) {
	a := period.NewAnalyzer()

	hint, err := a.Analyze(context.Background(), []port.PeriodInput{
		{Filename: "fin.txt", TextContent: "December 2023 and January 2024"},
		{Filename: "census.txt", TextContent: "January 2024 census"},
	})

	require.NoError(t, err)
	require.NotNil(t, hint)
	assert.True(t, hint.CombinationNeeded)
	assert.Equal(t, []string{"2024-01"}, hint.OverlappingMonths)
	// first file mentioning a month is its source of record
	assert.Equal(t, "fin.txt", hint.PerMonthSources["2024-01"])
}

func TestAnalyze_WindowCappedAtTwelveMonths(t *testing.T) {
	a := period.NewAnalyzer()
	text := `2022-01 2022-02 2022-03 2022-04 2022-05 2022-06 2022-07 2022-08 2022-09 2022-10 2022-11 2022-12
2023-01 2023-02 2023-03`

	hint, err := a.Analyze(context.Background(), []port.PeriodInput{{Filename: "trend.txt", TextContent: text}})

	require.NoError(t, err)
	require.NotNil(t, hint)
	// most recent 12 months win
	assert.Equal(t, "2022-04 through 2023-03 (TTM)", hint.RecommendedPeriod)
	assert.Len(t, hint.PerMonthSources, 12)
	assert.NotContains(t, hint.PerMonthSources, "2022-01")
}

func TestAnalyze_IgnoresImplausibleTokens(t *testing.T) {
	a := period.NewAnalyzer()

	hint, err := a.Analyze(context.Background(), []port.PeriodInput{
		{Filename: "a.txt", TextContent: "ratio 2024/13 and room 1999-12; may 2024 occupancy 88%"},
	})

	require.NoError(t, err)
	require.NotNil(t, hint)
	// only "may 2024" is a valid month token
	assert.Equal(t, "2024-05 through 2024-05 (TTM)", hint.RecommendedPeriod)
}

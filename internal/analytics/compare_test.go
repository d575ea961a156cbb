package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/searchfewer/internal/searchconsole"
)

func TestComparePeriodsDeltas(t *testing.T) {
	current := []searchconsole.Row{
		{Keys: []string{"widgets"}, Clicks: 150, Impressions: 3000, CTR: 0.05, Position: 4.2},
	}
	previous := []searchconsole.Row{
		{Keys: []string{"widgets"}, Clicks: 100, Impressions: 2500, CTR: 0.04, Position: 5.8},
	}

	report := ComparePeriods(current, previous, []string{"query"})
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, 50.0, row.ClicksDelta)
	require.NotNil(t, row.ClicksDeltaPercent)
	assert.Equal(t, 50.0, *row.ClicksDeltaPercent)
	assert.Equal(t, 500.0, row.ImpressionsDelta)
	assert.Equal(t, 1.0, row.CTRDeltaPercent)
	assert.Equal(t, 1.6, row.PositionDelta, "moving from 5.8 to 4.2 is an improvement of 1.6")
}

func TestComparePeriodsNewEntry(t *testing.T) {
	current := []searchconsole.Row{
		{Keys: []string{"brand new"}, Clicks: 40, Impressions: 800, CTR: 0.05, Position: 9},
	}

	report := ComparePeriods(current, nil, []string{"query"})
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, 40.0, row.ClicksDelta)
	assert.Nil(t, row.ClicksDeltaPercent, "no previous baseline, so no percentage")
	assert.Zero(t, row.PreviousClicks)
}

func TestComparePeriodsVanishedEntry(t *testing.T) {
	previous := []searchconsole.Row{
		{Keys: []string{"gone"}, Clicks: 30, Impressions: 600, CTR: 0.05, Position: 7},
	}

	report := ComparePeriods(nil, previous, []string{"query"})
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, []string{"gone"}, row.Keys)
	assert.Equal(t, -30.0, row.ClicksDelta)
	require.NotNil(t, row.ClicksDeltaPercent)
	assert.Equal(t, -100.0, *row.ClicksDeltaPercent)
	assert.Zero(t, row.CurrentClicks)
}

func TestComparePeriodsDeltaPercentOneDecimal(t *testing.T) {
	current := []searchconsole.Row{
		{Keys: []string{"widgets"}, Clicks: 4},
	}
	previous := []searchconsole.Row{
		{Keys: []string{"widgets"}, Clicks: 3},
	}

	report := ComparePeriods(current, previous, []string{"query"})
	require.Len(t, report.Rows, 1)
	require.NotNil(t, report.Rows[0].ClicksDeltaPercent)
	assert.Equal(t, 33.3, *report.Rows[0].ClicksDeltaPercent)
	require.NotNil(t, report.Summary.ClicksDeltaPercent)
	assert.Equal(t, 33.3, *report.Summary.ClicksDeltaPercent)
}

func TestComparePeriodsOrdering(t *testing.T) {
	current := []searchconsole.Row{
		{Keys: []string{"flat"}, Clicks: 10},
		{Keys: []string{"winner"}, Clicks: 100},
		{Keys: []string{"loser"}, Clicks: 5},
	}
	previous := []searchconsole.Row{
		{Keys: []string{"flat"}, Clicks: 10},
		{Keys: []string{"winner"}, Clicks: 20},
		{Keys: []string{"loser"}, Clicks: 60},
	}

	report := ComparePeriods(current, previous, []string{"query"})
	require.Len(t, report.Rows, 3)
	assert.Equal(t, []string{"winner"}, report.Rows[0].Keys)
	assert.Equal(t, []string{"flat"}, report.Rows[1].Keys)
	assert.Equal(t, []string{"loser"}, report.Rows[2].Keys)
}

func TestComparePeriodsMultiDimensionKeys(t *testing.T) {
	// "a"+"bc" and "ab"+"c" must not collide as join keys.
	current := []searchconsole.Row{
		{Keys: []string{"a", "bc"}, Clicks: 10},
		{Keys: []string{"ab", "c"}, Clicks: 20},
	}
	previous := []searchconsole.Row{
		{Keys: []string{"a", "bc"}, Clicks: 5},
	}

	report := ComparePeriods(current, previous, []string{"query", "page"})
	require.Len(t, report.Rows, 2)
	for _, row := range report.Rows {
		if row.Keys[0] == "a" {
			assert.Equal(t, 5.0, row.PreviousClicks)
		} else {
			assert.Zero(t, row.PreviousClicks)
		}
	}
}

func TestComparePeriodsSummary(t *testing.T) {
	current := []searchconsole.Row{
		{Keys: []string{"a"}, Clicks: 60, Impressions: 1000},
		{Keys: []string{"b"}, Clicks: 40, Impressions: 500},
	}
	previous := []searchconsole.Row{
		{Keys: []string{"a"}, Clicks: 50, Impressions: 900},
	}

	report := ComparePeriods(current, previous, []string{"query"})
	assert.Equal(t, 100.0, report.Summary.CurrentClicks)
	assert.Equal(t, 50.0, report.Summary.PreviousClicks)
	assert.Equal(t, 50.0, report.Summary.ClicksDelta)
	require.NotNil(t, report.Summary.ClicksDeltaPercent)
	assert.Equal(t, 100.0, *report.Summary.ClicksDeltaPercent)
	assert.Equal(t, 600.0, report.Summary.ImpressionsDelta)
}

func TestComparePeriodsEmptyBothSides(t *testing.T) {
	report := ComparePeriods(nil, nil, []string{"query"})
	assert.Empty(t, report.Rows)
	assert.Nil(t, report.Summary.ClicksDeltaPercent)
	assert.Zero(t, report.Summary.ClicksDelta)
}

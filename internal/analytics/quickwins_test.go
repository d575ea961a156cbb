package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/searchfewer/internal/searchconsole"
)

func defaultThresholds() Thresholds {
	return Thresholds{
		MinImpressions: 100,
		MaxCTRPercent:  2.0,
		PositionMin:    4,
		PositionMax:    20,
		Limit:          20,
	}
}

func TestQuickWinsScoring(t *testing.T) {
	rows := []searchconsole.Row{
		{
			Keys:        []string{"best widgets", "https://example.com/widgets"},
			Clicks:      20,
			Impressions: 1000,
			CTR:         0.02,
			Position:    6,
		},
	}

	report := QuickWins(rows, defaultThresholds())
	require.Len(t, report.Wins, 1)

	win := report.Wins[0]
	assert.Equal(t, "best widgets", win.Query)
	assert.Equal(t, "https://example.com/widgets", win.Page)
	assert.Equal(t, 5.0, win.TargetCTRPercent, "position 6 falls in the 5% band")
	assert.Equal(t, 50.0, win.PotentialClicks)
	assert.Equal(t, 30.0, win.AdditionalClicks)
	assert.Equal(t, TierMedium, win.OpportunityTier)
	assert.Contains(t, win.Note, "30")
}

func TestQuickWinsCTRBoundaryInclusive(t *testing.T) {
	// A row sitting exactly at the CTR ceiling still qualifies; only
	// rows strictly above it are dropped.
	th := defaultThresholds()
	rows := []searchconsole.Row{
		{Keys: []string{"at the ceiling"}, Clicks: 20, Impressions: 1000, CTR: 0.02, Position: 6},
		{Keys: []string{"above the ceiling"}, Clicks: 21, Impressions: 1000, CTR: 0.021, Position: 6},
	}

	report := QuickWins(rows, th)
	require.Len(t, report.Wins, 1)
	assert.Equal(t, "at the ceiling", report.Wins[0].Query)
	assert.Equal(t, TierMedium, report.Wins[0].OpportunityTier)
}

func TestQuickWinsTargetBands(t *testing.T) {
	tests := []struct {
		position float64
		want     float64
	}{
		{3, 8},
		{5, 8},
		{5.1, 5},
		{10, 5},
		{10.5, 3},
		{19, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, targetCTRPercent(tt.position), "position %v", tt.position)
	}
}

func TestQuickWinsFilters(t *testing.T) {
	th := defaultThresholds()
	rows := []searchconsole.Row{
		{Keys: []string{"too few impressions"}, Clicks: 0, Impressions: 99, CTR: 0, Position: 8},
		{Keys: []string{"ctr already fine"}, Clicks: 50, Impressions: 1000, CTR: 0.05, Position: 8},
		{Keys: []string{"ranks too high"}, Clicks: 2, Impressions: 500, CTR: 0.004, Position: 2},
		{Keys: []string{"ranks too low"}, Clicks: 2, Impressions: 500, CTR: 0.004, Position: 25},
		{Keys: []string{"kept"}, Clicks: 2, Impressions: 500, CTR: 0.004, Position: 8},
	}

	report := QuickWins(rows, th)
	assert.Equal(t, 5, report.Analyzed)
	assert.Equal(t, 1, report.Matched)
	require.Len(t, report.Wins, 1)
	assert.Equal(t, "kept", report.Wins[0].Query)
}

func TestQuickWinsOrderingAndLimit(t *testing.T) {
	th := defaultThresholds()
	th.Limit = 2
	rows := []searchconsole.Row{
		{Keys: []string{"small"}, Clicks: 1, Impressions: 200, CTR: 0.005, Position: 8},
		{Keys: []string{"big"}, Clicks: 10, Impressions: 5000, CTR: 0.002, Position: 8},
		{Keys: []string{"huge"}, Clicks: 10, Impressions: 10000, CTR: 0.001, Position: 8},
	}

	report := QuickWins(rows, th)
	assert.Equal(t, 3, report.Matched)
	require.Len(t, report.Wins, 2)
	assert.Equal(t, "huge", report.Wins[0].Query)
	assert.Equal(t, "big", report.Wins[1].Query)
	assert.Equal(t, TierHigh, report.Wins[0].OpportunityTier)
}

func TestQuickWinsAdditionalNeverNegative(t *testing.T) {
	// High clicks despite a low reported CTR: the potential estimate
	// lands below actual clicks and must clamp at zero.
	rows := []searchconsole.Row{
		{Keys: []string{"q"}, Clicks: 40, Impressions: 500, CTR: 0.01, Position: 15},
	}
	report := QuickWins(rows, defaultThresholds())
	require.Len(t, report.Wins, 1)
	assert.Equal(t, 0.0, report.Wins[0].AdditionalClicks)
	assert.Equal(t, TierLow, report.Wins[0].OpportunityTier)
}

func TestQuickWinsMissingPageKey(t *testing.T) {
	rows := []searchconsole.Row{
		{Keys: []string{"query only"}, Clicks: 1, Impressions: 300, CTR: 0.003, Position: 7},
	}
	report := QuickWins(rows, defaultThresholds())
	require.Len(t, report.Wins, 1)
	assert.Equal(t, "N/A", report.Wins[0].Page)
}

func TestQuickWinsEmptyInput(t *testing.T) {
	report := QuickWins(nil, defaultThresholds())
	assert.Zero(t, report.Analyzed)
	assert.Empty(t, report.Wins)
}

func TestQuickWinsTighterThresholdsNeverGrow(t *testing.T) {
	rows := []searchconsole.Row{
		{Keys: []string{"a"}, Clicks: 2, Impressions: 150, CTR: 0.013, Position: 5},
		{Keys: []string{"b"}, Clicks: 5, Impressions: 800, CTR: 0.006, Position: 9},
		{Keys: []string{"c"}, Clicks: 1, Impressions: 300, CTR: 0.003, Position: 14},
		{Keys: []string{"d"}, Clicks: 8, Impressions: 2000, CTR: 0.004, Position: 19},
	}

	base := QuickWins(rows, defaultThresholds()).Matched

	tighter := []Thresholds{
		func() Thresholds { th := defaultThresholds(); th.MinImpressions = 400; return th }(),
		func() Thresholds { th := defaultThresholds(); th.MinImpressions = 5000; return th }(),
		func() Thresholds { th := defaultThresholds(); th.PositionMin = 8; return th }(),
		func() Thresholds { th := defaultThresholds(); th.PositionMax = 10; return th }(),
		func() Thresholds { th := defaultThresholds(); th.PositionMin = 8; th.PositionMax = 10; return th }(),
	}
	for _, th := range tighter {
		got := QuickWins(rows, th).Matched
		assert.LessOrEqual(t, got, base, "thresholds %+v", th)
	}
}

func TestQuickWinsRounding(t *testing.T) {
	rows := []searchconsole.Row{
		{Keys: []string{"q"}, Clicks: 3, Impressions: 456, CTR: 0.006578, Position: 7.348},
	}
	report := QuickWins(rows, defaultThresholds())
	require.Len(t, report.Wins, 1)
	assert.Equal(t, 0.66, report.Wins[0].CTRPercent)
	assert.Equal(t, 7.3, report.Wins[0].Position)
}

package analytics

import (
	"sort"
	"strings"

	"github.com/teemow/searchfewer/internal/searchconsole"
)

// Comparison pairs one dimension key across two periods. Entries that
// exist in only one period get zeroed metrics for the other, so a query
// that vanished still shows up with its full negative delta.
type Comparison struct {
	Keys []string `json:"keys"`

	CurrentClicks       float64 `json:"currentClicks"`
	PreviousClicks      float64 `json:"previousClicks"`
	CurrentImpressions  float64 `json:"currentImpressions"`
	PreviousImpressions float64 `json:"previousImpressions"`
	CurrentCTRPercent   float64 `json:"currentCtrPercent"`
	PreviousCTRPercent  float64 `json:"previousCtrPercent"`
	CurrentPosition     float64 `json:"currentPosition"`
	PreviousPosition    float64 `json:"previousPosition"`

	ClicksDelta        float64  `json:"clicksDelta"`
	ClicksDeltaPercent *float64 `json:"clicksDeltaPercent"`
	ImpressionsDelta   float64  `json:"impressionsDelta"`
	CTRDeltaPercent    float64  `json:"ctrDeltaPercent"`
	// PositionDelta is previous minus current: positive means the
	// entry moved up in the rankings.
	PositionDelta float64 `json:"positionDelta"`
}

// ComparisonSummary aggregates both periods as wholes.
type ComparisonSummary struct {
	CurrentClicks       float64  `json:"currentClicks"`
	PreviousClicks      float64  `json:"previousClicks"`
	ClicksDelta         float64  `json:"clicksDelta"`
	ClicksDeltaPercent  *float64 `json:"clicksDeltaPercent"`
	CurrentImpressions  float64  `json:"currentImpressions"`
	PreviousImpressions float64  `json:"previousImpressions"`
	ImpressionsDelta    float64  `json:"impressionsDelta"`
}

// ComparisonReport is the tool-facing result of a period comparison.
type ComparisonReport struct {
	Dimensions []string          `json:"dimensions"`
	Summary    ComparisonSummary `json:"summary"`
	Rows       []Comparison      `json:"rows"`
}

// joinKeys builds the lookup key for a row. The unit separator keeps
// multi-dimension keys unambiguous.
func joinKeys(keys []string) string {
	return strings.Join(keys, "\x1f")
}

// ComparePeriods matches current rows against previous rows on their
// dimension keys and reports per-entry and aggregate deltas. Rows are
// ordered by clicks delta, biggest gain first.
func ComparePeriods(current, previous []searchconsole.Row, dimensions []string) ComparisonReport {
	prevByKey := make(map[string]searchconsole.Row, len(previous))
	for _, row := range previous {
		prevByKey[joinKeys(row.Keys)] = row
	}

	seen := make(map[string]bool, len(current))
	rows := make([]Comparison, 0, len(current))
	for _, cur := range current {
		key := joinKeys(cur.Keys)
		seen[key] = true
		rows = append(rows, compareRow(cur.Keys, cur, prevByKey[key]))
	}
	for _, prev := range previous {
		key := joinKeys(prev.Keys)
		if seen[key] {
			continue
		}
		rows = append(rows, compareRow(prev.Keys, searchconsole.Row{Keys: prev.Keys}, prev))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ClicksDelta > rows[j].ClicksDelta
	})

	var summary ComparisonSummary
	for _, row := range current {
		summary.CurrentClicks += row.Clicks
		summary.CurrentImpressions += row.Impressions
	}
	for _, row := range previous {
		summary.PreviousClicks += row.Clicks
		summary.PreviousImpressions += row.Impressions
	}
	summary.ClicksDelta = summary.CurrentClicks - summary.PreviousClicks
	summary.ClicksDeltaPercent = deltaPercent(summary.CurrentClicks, summary.PreviousClicks)
	summary.ImpressionsDelta = summary.CurrentImpressions - summary.PreviousImpressions

	return ComparisonReport{
		Dimensions: dimensions,
		Summary:    summary,
		Rows:       rows,
	}
}

func compareRow(keys []string, cur, prev searchconsole.Row) Comparison {
	return Comparison{
		Keys:                keys,
		CurrentClicks:       cur.Clicks,
		PreviousClicks:      prev.Clicks,
		CurrentImpressions:  cur.Impressions,
		PreviousImpressions: prev.Impressions,
		CurrentCTRPercent:   round2(cur.CTR * 100),
		PreviousCTRPercent:  round2(prev.CTR * 100),
		CurrentPosition:     round1(cur.Position),
		PreviousPosition:    round1(prev.Position),
		ClicksDelta:         cur.Clicks - prev.Clicks,
		ClicksDeltaPercent:  deltaPercent(cur.Clicks, prev.Clicks),
		ImpressionsDelta:    cur.Impressions - prev.Impressions,
		CTRDeltaPercent:     round2((cur.CTR - prev.CTR) * 100),
		PositionDelta:       round1(prev.Position - cur.Position),
	}
}

// deltaPercent is nil when the previous value is zero; a percentage
// against nothing is undefined, not infinite.
func deltaPercent(cur, prev float64) *float64 {
	if prev == 0 {
		return nil
	}
	pct := round1((cur - prev) / prev * 100)
	return &pct
}

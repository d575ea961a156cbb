package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/teemow/searchfewer/internal/searchconsole"
)

// Opportunity tiers, keyed off the estimated additional clicks.
const (
	TierHigh   = "High"
	TierMedium = "Medium"
	TierLow    = "Low"
)

// Thresholds selects which rows count as quick wins. Zero values are
// legal; callers apply their own defaults before calling.
type Thresholds struct {
	MinImpressions float64
	MaxCTRPercent  float64
	PositionMin    float64
	PositionMax    float64
	Limit          int
}

// QuickWin is one underperforming query: it already ranks within the
// configured position window but converts fewer clicks than a page at
// that position typically would.
type QuickWin struct {
	Query            string  `json:"query"`
	Page             string  `json:"page"`
	Clicks           float64 `json:"clicks"`
	Impressions      float64 `json:"impressions"`
	CTRPercent       float64 `json:"ctrPercent"`
	Position         float64 `json:"position"`
	TargetCTRPercent float64 `json:"targetCtrPercent"`
	PotentialClicks  float64 `json:"potentialClicks"`
	AdditionalClicks float64 `json:"additionalClicks"`
	OpportunityTier  string  `json:"opportunityTier"`
	Note             string  `json:"note"`
}

// QuickWinsReport is the tool-facing result.
type QuickWinsReport struct {
	Thresholds Thresholds `json:"thresholds"`
	Analyzed   int        `json:"rowsAnalyzed"`
	Matched    int        `json:"rowsMatched"`
	Wins       []QuickWin `json:"quickWins"`
}

// targetCTRPercent is the CTR a result at the given position should be
// able to reach. The bands are deliberately coarse.
func targetCTRPercent(position float64) float64 {
	switch {
	case position <= 5:
		return 8
	case position <= 10:
		return 5
	default:
		return 3
	}
}

// QuickWins filters rows to those inside the thresholds and scores each
// by the clicks it leaves on the table. Rows are expected to carry
// query as the first key and, when requested, page as the second; a
// missing key is reported as "N/A".
func QuickWins(rows []searchconsole.Row, th Thresholds) QuickWinsReport {
	wins := make([]QuickWin, 0)
	for _, row := range rows {
		ctrPercent := row.CTR * 100
		if row.Impressions < th.MinImpressions {
			continue
		}
		// The ceiling is inclusive: a row sitting exactly at the
		// threshold still qualifies.
		if ctrPercent > th.MaxCTRPercent {
			continue
		}
		if row.Position < th.PositionMin || row.Position > th.PositionMax {
			continue
		}

		target := targetCTRPercent(row.Position)
		potential := math.Round(row.Impressions * target / 100)
		additional := potential - row.Clicks
		if additional < 0 {
			additional = 0
		}

		wins = append(wins, QuickWin{
			Query:            keyAt(row.Keys, 0),
			Page:             keyAt(row.Keys, 1),
			Clicks:           row.Clicks,
			Impressions:      row.Impressions,
			CTRPercent:       round2(ctrPercent),
			Position:         round1(row.Position),
			TargetCTRPercent: target,
			PotentialClicks:  potential,
			AdditionalClicks: additional,
			OpportunityTier:  tierFor(additional),
			Note:             winNote(additional),
		})
	}

	matched := len(wins)
	sort.SliceStable(wins, func(i, j int) bool {
		return wins[i].AdditionalClicks > wins[j].AdditionalClicks
	})
	if th.Limit > 0 && len(wins) > th.Limit {
		wins = wins[:th.Limit]
	}

	return QuickWinsReport{
		Thresholds: th,
		Analyzed:   len(rows),
		Matched:    matched,
		Wins:       wins,
	}
}

func tierFor(additional float64) string {
	switch {
	case additional >= 100:
		return TierHigh
	case additional >= 30:
		return TierMedium
	default:
		return TierLow
	}
}

func winNote(additional float64) string {
	return fmt.Sprintf("Improving the title and meta description could capture roughly %.0f more clicks per period.", additional)
}

func keyAt(keys []string, i int) string {
	if i < len(keys) && keys[i] != "" {
		return keys[i]
	}
	return "N/A"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package personalization

import (
	"fmt"
	"math"
	"strings"

	"github.com/yanqian/skinguide/internal/domain/skinlog"
)

const (
	sufficientDays      = 7
	defaultRating       = 3.0
	recurringAreaMin    = 2
	lowHydration        = 2.5
	highOil             = 4.0
	frequentBreakouts   = 0.4
	sensitiveBreakouts  = 0.5
	acneBreakouts       = 0.3
	dryOiliness         = 2.5
	oilyOiliness        = 3.5
	oilyHydration       = 3.0
	combinationHydrated = 3.0
)

const noDataMessage = "No skin logs yet. Log your skin condition first to get a personalized analysis."

// Analyze reduces a window of daily logs into metrics, patterns, a skin type and a ranked focus
// list. days only shapes the insufficient-data message; zero means the default lookback.
func Analyze(logs []skinlog.Log, days int) AnalysisResult {
	if days <= 0 {
		days = defaultLookbackDays
	}
	total := len(logs)
	distinct := make(map[string]struct{}, total)
	for _, l := range logs {
		distinct[l.LoggedAt] = struct{}{}
	}
	quality := DataQuality{
		TotalLogs:    total,
		DaysWithData: len(distinct),
		IsSufficient: len(distinct) >= sufficientDays,
	}

	if total == 0 {
		quality.Message = noDataMessage
		return AnalysisResult{
			IdentifiedPatterns: []string{},
			SkinTypeAssessment: SkinNormal,
			RecommendedFocus:   []Focus{FocusHydration},
			DataQuality:        quality,
		}
	}
	if !quality.IsSufficient {
		quality.Message = fmt.Sprintf("Log %d more day(s) for a more accurate analysis of the last %d days.",
			sufficientDays-quality.DaysWithData, days)
	}

	hydration := meanRating(logs, func(l skinlog.Log) *int { return l.Hydration })
	oiliness := meanRating(logs, func(l skinlog.Log) *int { return l.Oiliness })

	var breakoutLogs []skinlog.Log
	for _, l := range logs {
		if l.HasBreakouts {
			breakoutLogs = append(breakoutLogs, l)
		}
	}
	frequency := float64(len(breakoutLogs)) / float64(total)

	skinType := classify(hydration, oiliness, frequency)
	return AnalysisResult{
		AverageHydration:   round(hydration, 1),
		AverageOiliness:    round(oiliness, 1),
		BreakoutFrequency:  round(frequency, 2),
		IdentifiedPatterns: detectPatterns(hydration, oiliness, frequency, breakoutLogs),
		SkinTypeAssessment: skinType,
		RecommendedFocus:   rankFocus(hydration, oiliness, frequency, skinType),
		DataQuality:        quality,
	}
}

func meanRating(logs []skinlog.Log, pick func(skinlog.Log) *int) float64 {
	sum, n := 0, 0
	for _, l := range logs {
		if v := pick(l); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return defaultRating
	}
	return float64(sum) / float64(n)
}

func detectPatterns(hydration, oiliness, frequency float64, breakoutLogs []skinlog.Log) []string {
	patterns := []string{}
	if hydration <= lowHydration {
		patterns = append(patterns, "Hydration has stayed persistently low")
	}
	if oiliness >= highOil {
		patterns = append(patterns, "Oil levels have stayed persistently high")
	}
	if frequency >= frequentBreakouts {
		patterns = append(patterns, "Breakouts are frequent")
	}
	if areas := recurringAreas(breakoutLogs); len(areas) > 0 {
		patterns = append(patterns, "Recurring breakout areas: "+strings.Join(areas, ", "))
	}
	return patterns
}

// recurringAreas returns areas seen at least twice, in first-seen order.
func recurringAreas(breakoutLogs []skinlog.Log) []string {
	counts := make(map[string]int)
	var order []string
	for _, l := range breakoutLogs {
		for _, area := range l.BreakoutAreas {
			if counts[area] == 0 {
				order = append(order, area)
			}
			counts[area]++
		}
	}
	var out []string
	for _, area := range order {
		if counts[area] >= recurringAreaMin {
			out = append(out, area)
		}
	}
	return out
}

// classify is a first-match rule table. Sensitive precedes dry, and oily precedes combination,
// so hydration == 3 with oiliness >= 3.5 resolves to oily.
func classify(hydration, oiliness, frequency float64) SkinType {
	switch {
	case frequency >= sensitiveBreakouts && hydration <= lowHydration:
		return SkinSensitive
	case hydration <= lowHydration && oiliness <= dryOiliness:
		return SkinDry
	case oiliness >= oilyOiliness && hydration >= oilyHydration:
		return SkinOily
	case hydration <= combinationHydrated && oiliness >= oilyOiliness:
		return SkinCombination
	default:
		return SkinNormal
	}
}

func rankFocus(hydration, oiliness, frequency float64, skinType SkinType) []Focus {
	var focus []Focus
	if hydration <= lowHydration {
		focus = append(focus, FocusHydration)
	}
	if oiliness >= highOil {
		focus = append(focus, FocusOilControl)
	}
	if frequency >= acneBreakouts {
		focus = append(focus, FocusAcne)
	}
	if len(focus) > 0 {
		return focus
	}
	switch skinType {
	case SkinDry:
		return []Focus{FocusHydration}
	case SkinOily:
		return []Focus{FocusOilControl}
	default:
		return []Focus{FocusBrightening}
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

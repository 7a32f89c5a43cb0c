package personalization

import "time"

type seasonBank struct {
	tips        []string
	adjustments []string
}

var seasonBanks = map[Season]seasonBank{
	SeasonSpring: {
		tips: []string{
			"Watch for irritation from pollen and yellow dust",
			"Switch to a lighter-textured moisturizer",
			"Reach for soothing ingredients such as cica and aloe",
		},
		adjustments: []string{
			"Follow cleansing with a calming toner",
			"Double cleanse after every day outdoors",
			"Step up SPF protection",
		},
	},
	SeasonSummer: {
		tips: []string{
			"Swap in lightweight gel textures",
			"Reapply sunscreen every 2-3 hours",
			"Niacinamide helps keep sebum in check",
		},
		adjustments: []string{
			"Use a gel or lotion instead of a cream",
			"Choose oil-free products",
			"SPF 50+ PA++++ is a must",
		},
	},
	SeasonFall: {
		tips: []string{
			"Time to repair summer sun damage",
			"Start vitamin C to fade pigmentation",
			"Gradually increase moisture",
		},
		adjustments: []string{
			"Add a brightening serum",
			"Exfoliate once or twice a week",
			"Start layering essences",
		},
	},
	SeasonWinter: {
		tips: []string{
			"Protect your barrier with a rich moisturizer",
			"Watch for dryness from indoor heating",
			"Strengthen the barrier with ceramide products",
		},
		adjustments: []string{
			"Add a facial oil or balm",
			"Exfoliate less often",
			"Run a humidifier",
		},
	},
}

// SeasonFor maps a date to its season by month.
func SeasonFor(t time.Time) Season {
	switch m := t.Month(); {
	case m >= time.March && m <= time.May:
		return SeasonSpring
	case m >= time.June && m <= time.August:
		return SeasonSummer
	case m >= time.September && m <= time.November:
		return SeasonFall
	default:
		return SeasonWinter
	}
}

// SeasonalContextAt returns the tip and adjustment bank for the season containing t.
func SeasonalContextAt(t time.Time) SeasonalContext {
	season := SeasonFor(t)
	bank := seasonBanks[season]
	return SeasonalContext{
		CurrentSeason:          season,
		SeasonSpecificTips:     append([]string(nil), bank.tips...),
		RecommendedAdjustments: append([]string(nil), bank.adjustments...),
	}
}

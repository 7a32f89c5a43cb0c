package personalization

import "fmt"

type stepContent struct {
	name        string
	description string
	tip         string
}

type serumVariants struct {
	morning stepContent
	evening stepContent
}

const retinolCaution = "Start with 2-3 nights a week"

var serums = map[Focus]serumVariants{
	FocusHydration: {
		morning: stepContent{"Hyaluronic acid serum", "Multi-weight hyaluronic acid for deep hydration", "Apply to damp skin to double the effect"},
		evening: stepContent{"Hyaluronic acid serum", "Multi-weight hyaluronic acid for deep hydration", "Apply to damp skin to double the effect"},
	},
	FocusOilControl: {
		morning: stepContent{"Niacinamide serum", "Controls sebum and refines pores at the same time", "Start at 10% or lower"},
		evening: stepContent{"Niacinamide serum", "Controls sebum and refines pores at the same time", "Start at 10% or lower"},
	},
	FocusAcne: {
		morning: stepContent{"Cica serum", "Calms irritated skin and strengthens the barrier", ""},
		evening: stepContent{"Retinol serum", "Speeds up cell turnover to prevent breakouts", retinolCaution},
	},
	FocusBrightening: {
		morning: stepContent{"Vitamin C serum", "Antioxidant protection that evens and lifts tone", "Store away from light and air"},
		evening: stepContent{"Retinol serum", "Evens skin tone and improves elasticity", "Sunscreen is a must while using retinol"},
	},
	FocusAntiAging: {
		morning: stepContent{"Peptide serum", "Firms and lifts for better elasticity", "Layer under sunscreen, never retinol in the morning"},
		evening: stepContent{"Retinol serum", "Boosts collagen and softens fine lines", "Use retinol at night only"},
	},
}

func serumFor(focus Focus, evening bool) stepContent {
	v, ok := serums[focus]
	if !ok {
		v = serums[FocusHydration]
	}
	if evening {
		return v.evening
	}
	return v.morning
}

func dayMoisturizer(skinType SkinType, season Season) stepContent {
	switch {
	case season == SeasonSummer || skinType == SkinOily:
		return stepContent{name: "Gel cream", description: "Light, fresh hydration"}
	case season == SeasonWinter || skinType == SkinDry:
		return stepContent{name: "Rich cream", description: "Dense moisture that protects the skin barrier"}
	default:
		return stepContent{name: "Moisturizing cream", description: "Balanced hydration that keeps skin in equilibrium"}
	}
}

func nightMoisturizer(skinType SkinType, season Season) stepContent {
	switch {
	case skinType == SkinDry || season == SeasonWinter:
		return stepContent{name: "Nourishing night cream", description: "Deep overnight nourishment"}
	case skinType == SkinOily:
		return stepContent{name: "Water sleeping cream", description: "Lightweight yet effective overnight hydration"}
	default:
		return stepContent{name: "Repair night cream", description: "Repairs the day's damage while you sleep"}
	}
}

// stepDescriptor is a routine slot that is dropped when include is false.
type stepDescriptor struct {
	step    RoutineStep
	include bool
}

func always(step RoutineStep) stepDescriptor { return stepDescriptor{step: step, include: true} }

func when(cond bool, step RoutineStep) stepDescriptor {
	return stepDescriptor{step: step, include: cond}
}

func fromContent(c stepContent, productType string, essential bool) RoutineStep {
	return RoutineStep{Name: c.name, Description: c.description, ProductType: productType, IsEssential: essential, Tip: c.tip}
}

// assemble keeps included slots and numbers them 1..n by position.
func assemble(descriptors []stepDescriptor) []RoutineStep {
	steps := make([]RoutineStep, 0, len(descriptors))
	for _, d := range descriptors {
		if !d.include {
			continue
		}
		step := d.step
		step.Order = len(steps) + 1
		steps = append(steps, step)
	}
	return steps
}

// Synthesize builds the morning or evening routine for the given inputs. Any time of day other
// than evening yields the morning routine.
func Synthesize(skinType SkinType, focus Focus, season Season, timeOfDay TimeOfDay) PersonalizedRoutine {
	if timeOfDay == Evening {
		return eveningRoutine(skinType, focus, season)
	}
	return morningRoutine(skinType, focus, season)
}

func morningRoutine(skinType SkinType, focus Focus, season Season) PersonalizedRoutine {
	cleanser := RoutineStep{
		Name:        "Low-pH cleanser",
		Description: "Remove overnight sebum with a gentle low-pH cleanser",
		ProductType: "cleanser",
		IsEssential: true,
	}
	if season == SeasonWinter {
		cleanser.Name = "Water rinse"
		cleanser.Description = "Rinse lightly with lukewarm water to keep your natural oils"
	}
	if skinType == SkinOily {
		cleanser.Tip = "Oily skin benefits from a cleanser in the morning too"
	}

	withEssence := focus == FocusHydration || skinType == SkinDry
	steps := assemble([]stepDescriptor{
		always(cleanser),
		always(RoutineStep{
			Name:        "Toner",
			Description: "Preps skin texture and helps the next steps absorb",
			ProductType: "toner",
			IsEssential: true,
			Tip:         "Apply within seconds of washing",
		}),
		when(withEssence, RoutineStep{
			Name:        "Essence",
			Description: "Fill up the moisture layer with a hyaluronic acid essence",
			ProductType: "essence",
			IsEssential: true,
			Tip:         "Press in with your palms for better absorption",
		}),
		always(fromContent(serumFor(focus, false), "serum", true)),
		always(fromContent(dayMoisturizer(skinType, season), "moisturizer", true)),
		always(RoutineStep{
			Name:        "Sunscreen",
			Description: "Apply an SPF 50+ PA++++ sunscreen generously",
			ProductType: "sunscreen",
			IsEssential: true,
			Tip:         "Use two finger-lengths of product",
		}),
	})

	focusAreas := []string{string(focus)}
	if withEssence {
		focusAreas = append(focusAreas, "deep_hydration")
	}
	return PersonalizedRoutine{
		Type:          Morning,
		Steps:         steps,
		FocusAreas:    focusAreas,
		EstimatedTime: estimatedTime(len(steps)),
	}
}

func eveningRoutine(skinType SkinType, focus Focus, season Season) PersonalizedRoutine {
	exfoliant := RoutineStep{
		Name:        "AHA toner (2-3x/week)",
		Description: "Gently lift dead skin cells with glycolic acid",
		ProductType: "exfoliant",
		Tip:         "Cut back if you feel irritation",
	}
	if skinType == SkinOily || focus == FocusAcne {
		exfoliant.Name = "BHA toner (2-3x/week)"
		exfoliant.Description = "Clear out pores with salicylic acid"
	}

	steps := assemble([]stepDescriptor{
		always(RoutineStep{
			Name:        "Oil cleanser",
			Description: "Melt away makeup and sunscreen",
			ProductType: "oil_cleanser",
			IsEssential: true,
			Tip:         "Massage onto dry skin for one minute",
		}),
		always(RoutineStep{
			Name:        "Foam or gel cleanser",
			Description: "Wash off remaining residue and impurities",
			ProductType: "cleanser",
			IsEssential: true,
		}),
		always(exfoliant),
		always(RoutineStep{
			Name:        "Hydrating toner",
			Description: "Calms and hydrates the skin",
			ProductType: "toner",
			IsEssential: true,
		}),
		always(RoutineStep{
			Name:        "Essence",
			Description: "Delivers nutrients deep into the skin",
			ProductType: "essence",
			IsEssential: true,
		}),
		always(fromContent(serumFor(focus, true), "serum", true)),
		always(RoutineStep{
			Name:        "Eye cream",
			Description: "Targeted care for the delicate eye area",
			ProductType: "eye_cream",
			Tip:         "Tap on lightly with your ring finger",
		}),
		always(fromContent(nightMoisturizer(skinType, season), "moisturizer", true)),
		when(skinType == SkinDry || season == SeasonWinter, RoutineStep{
			Name:        "Sleeping pack",
			Description: "Seals in every layer to lock in moisture overnight",
			ProductType: "sleeping_pack",
			Tip:         "Spread a thin layer and rinse off in the morning",
		}),
	})

	return PersonalizedRoutine{
		Type:          Evening,
		Steps:         steps,
		FocusAreas:    []string{string(focus), "repair", "nourishment"},
		EstimatedTime: estimatedTime(len(steps)),
	}
}

func estimatedTime(stepCount int) string {
	return fmt.Sprintf("%d-%d min", stepCount, stepCount*2)
}

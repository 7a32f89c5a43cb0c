package personalization

import "github.com/yanqian/skinguide/internal/domain/catalog"

// SkinType is the assessed skin category.
type SkinType string

const (
	SkinDry         SkinType = "dry"
	SkinOily        SkinType = "oily"
	SkinCombination SkinType = "combination"
	SkinSensitive   SkinType = "sensitive"
	SkinNormal      SkinType = "normal"
)

// Focus drives serum and content selection.
type Focus string

const (
	FocusHydration   Focus = "hydration"
	FocusOilControl  Focus = "oil_control"
	FocusAcne        Focus = "acne"
	FocusBrightening Focus = "brightening"
	FocusAntiAging   Focus = "anti_aging"
)

// Valid reports whether f is one of the known focus tags.
func (f Focus) Valid() bool {
	switch f {
	case FocusHydration, FocusOilControl, FocusAcne, FocusBrightening, FocusAntiAging:
		return true
	}
	return false
}

// Season is a calendar season.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// TimeOfDay selects the morning or evening routine.
type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Evening TimeOfDay = "evening"
	Both    TimeOfDay = "both"
)

// DataQuality describes how much history backed an analysis.
type DataQuality struct {
	TotalLogs    int    `json:"total_logs"`
	DaysWithData int    `json:"days_with_data"`
	IsSufficient bool   `json:"is_sufficient"`
	Message      string `json:"message,omitempty"`
}

// AnalysisResult is the reduction of a log window.
type AnalysisResult struct {
	AverageHydration   float64     `json:"average_hydration"`
	AverageOiliness    float64     `json:"average_oiliness"`
	BreakoutFrequency  float64     `json:"breakout_frequency"`
	IdentifiedPatterns []string    `json:"identified_patterns"`
	SkinTypeAssessment SkinType    `json:"skin_type_assessment"`
	RecommendedFocus   []Focus     `json:"recommended_focus"`
	DataQuality        DataQuality `json:"data_quality"`
}

// SeasonalContext is the per-season tip and adjustment bank.
type SeasonalContext struct {
	CurrentSeason          Season   `json:"current_season"`
	SeasonSpecificTips     []string `json:"season_specific_tips"`
	RecommendedAdjustments []string `json:"recommended_adjustments"`
}

// RoutineStep is one numbered step of a personalized routine.
type RoutineStep struct {
	Order       int    `json:"order"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ProductType string `json:"product_type"`
	IsEssential bool   `json:"is_essential"`
	Tip         string `json:"tip,omitempty"`
}

// PersonalizedRoutine is a synthesized morning or evening routine.
type PersonalizedRoutine struct {
	Type          TimeOfDay     `json:"type"`
	Steps         []RoutineStep `json:"steps"`
	FocusAreas    []string      `json:"focus_areas"`
	EstimatedTime string        `json:"estimated_time"`
}

// Request carries the caller options for a personalized routine.
type Request struct {
	RoutineType     TimeOfDay `json:"routine_type,omitempty"`
	Focus           Focus     `json:"focus,omitempty"`
	IncludeProducts *bool     `json:"include_products,omitempty"`
}

// ProductSummary is the slice of a catalog product shown with a routine.
type ProductSummary struct {
	ID          string  `json:"id"`
	Brand       string  `json:"brand"`
	Name        string  `json:"name"`
	ProductType string  `json:"product_type"`
	PriceRange  string  `json:"price_range"`
	Rating      float64 `json:"rating,omitempty"`
}

func summarize(p catalog.Product) ProductSummary {
	return ProductSummary{
		ID:          p.ID,
		Brand:       p.Brand,
		Name:        p.Name,
		ProductType: p.ProductType,
		PriceRange:  p.PriceRange,
		Rating:      p.Rating,
	}
}

// Response is the personalized routine payload.
type Response struct {
	UserSkinAnalysis       AnalysisResult        `json:"user_skin_analysis"`
	SeasonalContext        SeasonalContext       `json:"seasonal_context"`
	PersonalizedRoutines   []PersonalizedRoutine `json:"personalized_routines"`
	ProductRecommendations []ProductSummary      `json:"product_recommendations"`
	NextSteps              []string              `json:"next_steps"`
	Disclaimer             string                `json:"disclaimer"`
}

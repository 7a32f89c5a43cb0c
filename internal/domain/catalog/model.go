package catalog

// Ingredient describes a skincare active and how to use it.
type Ingredient struct {
	ID              string   `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	AlsoKnownAs     []string `yaml:"also_known_as" json:"also_known_as,omitempty"`
	Category        string   `yaml:"category" json:"category"`
	Benefits        []string `yaml:"benefits" json:"benefits,omitempty"`
	BestFor         []string `yaml:"best_for" json:"best_for,omitempty"`
	HowToUse        string   `yaml:"how_to_use" json:"how_to_use,omitempty"`
	Concentration   string   `yaml:"concentration" json:"concentration,omitempty"`
	Precautions     []string `yaml:"precautions" json:"precautions,omitempty"`
	PairsWellWith   []string `yaml:"pairs_well_with" json:"pairs_well_with,omitempty"`
	AvoidMixingWith []string `yaml:"avoid_mixing_with" json:"avoid_mixing_with,omitempty"`
	FunFact         string   `yaml:"fun_fact" json:"fun_fact,omitempty"`
}

// Product is a catalog entry.
type Product struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Brand          string   `yaml:"brand" json:"brand"`
	ProductType    string   `yaml:"product_type" json:"product_type"`
	KeyIngredients []string `yaml:"key_ingredients" json:"key_ingredients"`
	SkinTypes      []string `yaml:"skin_types" json:"skin_types"`
	Concerns       []string `yaml:"concerns" json:"concerns,omitempty"`
	PriceRange     string   `yaml:"price_range" json:"price_range"`
	PriceUSD       float64  `yaml:"price_usd" json:"price_usd,omitempty"`
	SizeML         int      `yaml:"size_ml" json:"size_ml,omitempty"`
	Rating         float64  `yaml:"rating" json:"rating,omitempty"`
	Description    string   `yaml:"description" json:"description,omitempty"`
	ExternalURL    string   `yaml:"external_url" json:"external_url,omitempty"`
}

// ProductQuery filters the product catalog. Zero values mean "any".
type ProductQuery struct {
	ProductType string   `json:"product_type,omitempty"`
	SkinType    string   `json:"skin_type,omitempty"`
	PriceRange  string   `json:"price_range,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Query       string   `json:"query,omitempty"`
	Limit       int      `json:"limit,omitempty"`
}

// RoutineStep is one step of a static routine guide.
type RoutineStep struct {
	Order                  int      `yaml:"order" json:"order"`
	StepName               string   `yaml:"step_name" json:"step_name"`
	Description            string   `yaml:"description" json:"description"`
	IsOptional             bool     `yaml:"is_optional" json:"is_optional"`
	RecommendedIngredients []string `yaml:"recommended_ingredients" json:"recommended_ingredients,omitempty"`
	ProductTypes           []string `yaml:"product_types" json:"product_types,omitempty"`
	Tips                   string   `yaml:"tips" json:"tips,omitempty"`
	WaitTime               string   `yaml:"wait_time" json:"wait_time,omitempty"`
}

// Routine is a static routine for a skin type and time of day.
type Routine struct {
	ID          string        `yaml:"id" json:"id"`
	SkinType    string        `yaml:"skin_type" json:"skin_type"`
	RoutineType string        `yaml:"routine_type" json:"routine_type"`
	Level       string        `yaml:"level" json:"level"`
	Steps       []RoutineStep `yaml:"steps" json:"steps"`
}

// Tip is a K-beauty tip.
type Tip struct {
	ID                 string   `yaml:"id" json:"id"`
	Title              string   `yaml:"title" json:"title"`
	Category           string   `yaml:"category" json:"category"`
	Content            string   `yaml:"content" json:"content"`
	Source             string   `yaml:"source" json:"source,omitempty"`
	RelatedIngredients []string `yaml:"related_ingredients" json:"related_ingredients,omitempty"`
	RelatedProducts    []string `yaml:"related_products" json:"related_products,omitempty"`
	SkinConcerns       []string `yaml:"skin_concerns" json:"skin_concerns,omitempty"`
	Difficulty         string   `yaml:"difficulty" json:"difficulty"`
}

// TrendingIngredient is an ingredient currently popular, optionally tied to a season.
type TrendingIngredient struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	KoreanName  string   `yaml:"korean_name" json:"korean_name,omitempty"`
	WhyTrending string   `yaml:"why_trending" json:"why_trending"`
	BestFor     []string `yaml:"best_for" json:"best_for"`
	HowToUse    string   `yaml:"how_to_use" json:"how_to_use"`
	Season      string   `yaml:"season" json:"season,omitempty"`
}

// FeaturedRoutine is a named multi-step routine such as glass skin.
type FeaturedRoutine struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	KoreanName  string   `yaml:"korean_name" json:"korean_name,omitempty"`
	Description string   `yaml:"description" json:"description"`
	Steps       []string `yaml:"steps" json:"steps"`
	BestFor     []string `yaml:"best_for" json:"best_for"`
	Difficulty  string   `yaml:"difficulty" json:"difficulty"`
	IsTrending  bool     `yaml:"is_trending" json:"is_trending"`
}

// RoutineGuideRequest selects static routines.
type RoutineGuideRequest struct {
	SkinType    string `json:"skin_type,omitempty"`
	Concern     string `json:"concern,omitempty"`
	RoutineType string `json:"routine_type,omitempty"`
}

// RoutineGuideResponse carries the matching routines.
type RoutineGuideResponse struct {
	SkinType    string    `json:"skin_type"`
	RoutineType string    `json:"routine_type"`
	Concern     string    `json:"concern,omitempty"`
	Routines    []Routine `json:"routines"`
	Disclaimer  string    `json:"disclaimer"`
}

// IngredientRequest looks up ingredients by id, name or alias.
type IngredientRequest struct {
	Ingredients []string `json:"ingredients"`
	InfoType    string   `json:"info_type,omitempty"`
}

// IngredientResponse returns found ingredients and the names that matched nothing.
type IngredientResponse struct {
	Ingredients []Ingredient `json:"ingredients"`
	NotFound    []string     `json:"not_found,omitempty"`
	Disclaimer  string       `json:"disclaimer"`
}

// TipsRequest filters the tips hub.
type TipsRequest struct {
	Category        string `json:"category,omitempty"`
	Concern         string `json:"concern,omitempty"`
	Season          string `json:"season,omitempty"`
	FeaturedRoutine string `json:"featured_routine,omitempty"`
}

// TipsResponse is the tips hub payload.
type TipsResponse struct {
	Tips                []Tip                `json:"tips"`
	TrendingIngredients []TrendingIngredient `json:"trending_ingredients"`
	FeaturedRoutine     *FeaturedRoutine     `json:"featured_routine,omitempty"`
	CategoryFilter      string               `json:"category_filter"`
	TotalTipsAvailable  int                  `json:"total_tips_available"`
}

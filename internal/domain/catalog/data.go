package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Data holds the static content tables.
type Data struct {
	Ingredients         []Ingredient
	Products            []Product
	Routines            []Routine
	Tips                []Tip
	TrendingIngredients []TrendingIngredient
	FeaturedRoutines    []FeaturedRoutine
}

// LoadStatic parses the embedded catalog tables.
func LoadStatic() (*Data, error) {
	var (
		ingredients struct {
			Ingredients []Ingredient `yaml:"ingredients"`
		}
		products struct {
			Products []Product `yaml:"products"`
		}
		routines struct {
			Routines []Routine `yaml:"routines"`
		}
		tips struct {
			Tips                []Tip                `yaml:"tips"`
			TrendingIngredients []TrendingIngredient `yaml:"trending_ingredients"`
			FeaturedRoutines    []FeaturedRoutine    `yaml:"featured_routines"`
		}
	)
	for name, target := range map[string]any{
		"data/ingredients.yaml": &ingredients,
		"data/products.yaml":    &products,
		"data/routines.yaml":    &routines,
		"data/tips.yaml":        &tips,
	} {
		raw, err := dataFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := yaml.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return &Data{
		Ingredients:         ingredients.Ingredients,
		Products:            products.Products,
		Routines:            routines.Routines,
		Tips:                tips.Tips,
		TrendingIngredients: tips.TrendingIngredients,
		FeaturedRoutines:    tips.FeaturedRoutines,
	}, nil
}

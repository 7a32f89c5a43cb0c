package catalog

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	apperrors "github.com/yanqian/skinguide/pkg/errors"
)

// Disclaimer accompanies every static guidance payload.
const Disclaimer = "This is general skincare information only. For persistent skin concerns, please consult a dermatologist."

const (
	defaultProductLimit = 10
	maxProductLimit     = 50
	defaultLevel        = "basic"
)

// ProductRepository searches the product catalog.
type ProductRepository interface {
	Search(ctx context.Context, query ProductQuery) ([]Product, error)
}

// Service exposes the static content lookups.
type Service interface {
	RoutineGuide(ctx context.Context, req RoutineGuideRequest) (RoutineGuideResponse, error)
	IngredientInfo(ctx context.Context, req IngredientRequest) (IngredientResponse, error)
	SearchProducts(ctx context.Context, query ProductQuery) ([]Product, error)
	Tips(ctx context.Context, req TipsRequest) (TipsResponse, error)
}

type service struct {
	data     *Data
	products ProductRepository
	logger   *slog.Logger
}

// NewService wires the catalog over the static tables and a product repository.
func NewService(data *Data, products ProductRepository, logger *slog.Logger) Service {
	return &service{
		data:     data,
		products: products,
		logger:   logger.With("component", "catalog.service"),
	}
}

func (s *service) RoutineGuide(_ context.Context, req RoutineGuideRequest) (RoutineGuideResponse, error) {
	skinType := strings.ToLower(strings.TrimSpace(req.SkinType))
	if skinType == "" {
		skinType = "normal"
	}
	routineType := strings.ToLower(strings.TrimSpace(req.RoutineType))
	if routineType == "" {
		routineType = "morning"
	}
	var wanted []string
	switch routineType {
	case "both":
		wanted = []string{"morning", "evening"}
	case "morning", "evening":
		wanted = []string{routineType}
	default:
		return RoutineGuideResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "routine_type must be morning, evening or both", nil)
	}

	routines := make([]Routine, 0, len(wanted))
	for _, rt := range wanted {
		for _, r := range s.data.Routines {
			if r.SkinType == skinType && r.RoutineType == rt && r.Level == defaultLevel {
				routines = append(routines, r)
				break
			}
		}
	}
	return RoutineGuideResponse{
		SkinType:    skinType,
		RoutineType: routineType,
		Concern:     strings.TrimSpace(req.Concern),
		Routines:    routines,
		Disclaimer:  Disclaimer,
	}, nil
}

func (s *service) IngredientInfo(_ context.Context, req IngredientRequest) (IngredientResponse, error) {
	if len(req.Ingredients) == 0 {
		return IngredientResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "at least one ingredient is required", nil)
	}
	infoType := strings.ToLower(strings.TrimSpace(req.InfoType))
	if infoType == "" {
		infoType = "all"
	}
	switch infoType {
	case "benefits", "usage", "precautions", "all":
	default:
		return IngredientResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "info_type must be benefits, usage, precautions or all", nil)
	}

	resp := IngredientResponse{Ingredients: []Ingredient{}, Disclaimer: Disclaimer}
	for _, name := range req.Ingredients {
		ing, ok := s.findIngredient(name)
		if !ok {
			resp.NotFound = append(resp.NotFound, name)
			continue
		}
		resp.Ingredients = append(resp.Ingredients, projectIngredient(ing, infoType))
	}
	return resp, nil
}

func (s *service) SearchProducts(ctx context.Context, query ProductQuery) ([]Product, error) {
	query = normalizeQuery(query)
	products, err := s.products.Search(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCatalog, "failed to search products", err)
	}
	s.logger.Debug("product search", "product_type", query.ProductType, "skin_type", query.SkinType, "results", len(products))
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

func (s *service) Tips(_ context.Context, req TipsRequest) (TipsResponse, error) {
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category == "" {
		category = "all"
	}
	concern := strings.ToLower(strings.TrimSpace(req.Concern))

	tips := make([]Tip, 0, len(s.data.Tips))
	for _, tip := range s.data.Tips {
		if category != "all" && tip.Category != category {
			continue
		}
		if concern != "" && !containsFold(tip.SkinConcerns, concern) {
			continue
		}
		tips = append(tips, tip)
	}

	season := strings.ToLower(strings.TrimSpace(req.Season))
	trending := make([]TrendingIngredient, 0, len(s.data.TrendingIngredients))
	for _, ing := range s.data.TrendingIngredients {
		if ing.Season == "" || ing.Season == "all" || (season != "" && ing.Season == season) {
			trending = append(trending, ing)
		}
	}

	resp := TipsResponse{
		Tips:                tips,
		TrendingIngredients: trending,
		CategoryFilter:      category,
		TotalTipsAvailable:  len(s.data.Tips),
	}
	if name := strings.TrimSpace(req.FeaturedRoutine); name != "" {
		if routine, ok := s.findFeaturedRoutine(name); ok {
			resp.FeaturedRoutine = &routine
		}
	}
	return resp, nil
}

func (s *service) findIngredient(name string) (Ingredient, bool) {
	raw := strings.ToLower(strings.TrimSpace(name))
	key := NormalizeKey(raw)
	for _, ing := range s.data.Ingredients {
		if ing.ID == key || strings.ToLower(ing.Name) == raw {
			return ing, true
		}
		for _, aka := range ing.AlsoKnownAs {
			if strings.ToLower(aka) == raw {
				return ing, true
			}
		}
	}
	return Ingredient{}, false
}

func (s *service) findFeaturedRoutine(name string) (FeaturedRoutine, bool) {
	lower := strings.ToLower(name)
	id := strings.Join(strings.Fields(lower), "_")
	for _, r := range s.data.FeaturedRoutines {
		if strings.Contains(strings.ToLower(r.Name), lower) ||
			(r.KoreanName != "" && strings.Contains(strings.ToLower(r.KoreanName), lower)) ||
			strings.Contains(strings.ToLower(r.ID), id) {
			return r, true
		}
	}
	return FeaturedRoutine{}, false
}

func projectIngredient(ing Ingredient, infoType string) Ingredient {
	out := Ingredient{ID: ing.ID, Name: ing.Name, AlsoKnownAs: ing.AlsoKnownAs, Category: ing.Category}
	if infoType == "all" || infoType == "benefits" {
		out.Benefits = ing.Benefits
		out.BestFor = ing.BestFor
		out.FunFact = ing.FunFact
	}
	if infoType == "all" || infoType == "usage" {
		out.HowToUse = ing.HowToUse
		out.Concentration = ing.Concentration
		out.PairsWellWith = ing.PairsWellWith
	}
	if infoType == "all" || infoType == "precautions" {
		out.Precautions = ing.Precautions
		out.AvoidMixingWith = ing.AvoidMixingWith
	}
	return out
}

var keySeparators = regexp.MustCompile(`[\s\-]+`)

// NormalizeKey turns "Hyaluronic Acid" or "hyaluronic-acid" into "hyaluronic_acid".
func NormalizeKey(value string) string {
	return keySeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "_")
}

func normalizeQuery(q ProductQuery) ProductQuery {
	q.ProductType = strings.ToLower(strings.TrimSpace(q.ProductType))
	q.SkinType = strings.ToLower(strings.TrimSpace(q.SkinType))
	q.PriceRange = strings.ToLower(strings.TrimSpace(q.PriceRange))
	q.Brand = strings.TrimSpace(q.Brand)
	q.Query = strings.TrimSpace(q.Query)
	ingredients := make([]string, 0, len(q.Ingredients))
	for _, ing := range q.Ingredients {
		if key := NormalizeKey(ing); key != "" {
			ingredients = append(ingredients, key)
		}
	}
	q.Ingredients = ingredients
	if q.Limit <= 0 {
		q.Limit = defaultProductLimit
	}
	if q.Limit > maxProductLimit {
		q.Limit = maxProductLimit
	}
	return q
}

// FilterProducts applies a normalized query to an in-memory product table, best rated first.
func FilterProducts(products []Product, q ProductQuery) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q.ProductType != "" && p.ProductType != q.ProductType {
			continue
		}
		if q.SkinType != "" && !contains(p.SkinTypes, q.SkinType) && !contains(p.SkinTypes, "all") {
			continue
		}
		if q.PriceRange != "" && p.PriceRange != q.PriceRange {
			continue
		}
		if q.Brand != "" && !strings.Contains(strings.ToLower(p.Brand), strings.ToLower(q.Brand)) {
			continue
		}
		if len(q.Ingredients) > 0 && !overlaps(p.KeyIngredients, q.Ingredients) {
			continue
		}
		if q.Query != "" && !matchesText(p, q.Query) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func matchesText(p Product, text string) bool {
	needle := strings.ToLower(text)
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Brand), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func containsFold(items []string, target string) bool {
	for _, item := range items {
		if strings.Contains(strings.ToLower(item), target) {
			return true
		}
	}
	return false
}

func overlaps(have, want []string) bool {
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}

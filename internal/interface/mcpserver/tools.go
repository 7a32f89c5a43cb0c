package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yanqian/skinguide/internal/domain/catalog"
	"github.com/yanqian/skinguide/internal/domain/personalization"
	"github.com/yanqian/skinguide/internal/domain/skinlog"
	apperrors "github.com/yanqian/skinguide/pkg/errors"
)

// Tool names.
const (
	ToolRoutineGuide        = "get_routine_guide"
	ToolIngredientInfo      = "get_ingredient_info"
	ToolSearchProducts      = "search_products"
	ToolKBeautyTips         = "get_kbeauty_tips"
	ToolLogSkinCondition    = "log_skin_condition"
	ToolSkinHistory         = "get_skin_history"
	ToolPersonalizedRoutine = "generate_personalized_routine"
)

var (
	skinTypes    = []string{"dry", "oily", "combination", "sensitive", "normal"}
	routineTypes = []string{"morning", "evening", "both"}
	productTypes = []string{"cleanser", "toner", "essence", "serum", "moisturizer", "sunscreen", "mask", "exfoliator"}
	priceRanges  = []string{"budget", "mid", "premium"}
	focusTags    = []string{"hydration", "oil_control", "anti_aging", "brightening", "acne"}
	tipTopics    = []string{"morning", "evening", "weekly", "seasonal", "trending", "all"}
	seasons      = []string{"spring", "summer", "fall", "winter"}
)

func stringList(name, description string) mcp.ToolOption {
	return mcp.WithArray(name,
		mcp.Description(description),
		mcp.Items(map[string]any{"type": "string"}),
	)
}

func (s *Server) registerTools() {
	s.addTool(mcp.NewTool(ToolRoutineGuide,
		mcp.WithDescription("Use this when the user asks about skincare routines, wants to know how to care for their skin type, or is starting a skincare journey. Returns step-by-step K-beauty routine information."),
		mcp.WithString("skin_type", mcp.Enum(skinTypes...), mcp.Description("User's skin type")),
		mcp.WithString("concern", mcp.Description("Specific skin concern like 'acne', 'aging', 'dullness'")),
		mcp.WithString("routine_type", mcp.Enum(routineTypes...), mcp.Description("Time of day for the routine")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.routineGuide)

	s.addTool(mcp.NewTool(ToolIngredientInfo,
		mcp.WithDescription("Use this when the user asks about specific skincare ingredients, what they do, how to use them, or wants to compare ingredients. Returns benefits, usage and precautions."),
		mcp.WithArray("ingredients",
			mcp.Required(),
			mcp.Description("Ingredient names to look up, e.g. ['niacinamide', 'hyaluronic_acid']"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("info_type", mcp.Enum("benefits", "usage", "precautions", "all"), mcp.Description("Type of information to return")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.ingredientInfo)

	s.addTool(mcp.NewTool(ToolSearchProducts,
		mcp.WithDescription("Use this when the user wants to find or browse K-beauty products. Can filter by product type, ingredients, skin type, brand or price range."),
		mcp.WithString("product_type", mcp.Enum(productTypes...), mcp.Description("Type of product to search for")),
		stringList("ingredients", "Filter by products containing these ingredients"),
		mcp.WithString("skin_type", mcp.Enum(skinTypes...), mcp.Description("Filter by suitable skin type")),
		mcp.WithString("price_range", mcp.Enum(priceRanges...), mcp.Description("Filter by price range")),
		mcp.WithString("brand", mcp.Description("Filter by brand name")),
		mcp.WithString("query", mcp.Description("Free text matched against name, brand and description")),
		mcp.WithNumber("limit", mcp.Min(1), mcp.Max(50), mcp.Description("Maximum number of products to return (default: 10)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.searchProducts)

	s.addTool(mcp.NewTool(ToolKBeautyTips,
		mcp.WithDescription("Use this when the user wants K-beauty tips, trending ingredients or a featured routine such as glass skin or the 7-skin method."),
		mcp.WithString("category", mcp.Enum(tipTopics...), mcp.Description("Tip category")),
		mcp.WithString("concern", mcp.Description("Only tips addressing this concern")),
		mcp.WithString("season", mcp.Enum(seasons...), mcp.Description("Season for trending ingredients")),
		mcp.WithString("featured_routine", mcp.Description("Name of a featured routine, e.g. 'glass skin'")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.tips)

	s.addTool(mcp.NewTool(ToolLogSkinCondition,
		mcp.WithDescription("Use this when the user wants to log or record their daily skin condition. Requires sign-in. Saves hydration level, oiliness, breakouts, and notes."),
		mcp.WithNumber("hydration", mcp.Min(1), mcp.Max(5), mcp.Description("Hydration level from 1 (very dry) to 5 (well hydrated)")),
		mcp.WithNumber("oiliness", mcp.Min(1), mcp.Max(5), mcp.Description("Oiliness level from 1 (not oily) to 5 (very oily)")),
		mcp.WithBoolean("has_breakouts", mcp.Description("Whether the user has breakouts today")),
		stringList("breakout_areas", "Areas with breakouts, e.g. ['forehead', 'chin', 'cheeks']"),
		mcp.WithString("notes", mcp.Description("Additional notes about skin condition")),
		mcp.WithReadOnlyHintAnnotation(false),
	), withUser(s.logSkinCondition))

	s.addTool(mcp.NewTool(ToolSkinHistory,
		mcp.WithDescription("Use this when the user wants to view their skin diary or history of logged skin conditions. Requires sign-in. Returns past entries."),
		mcp.WithNumber("days", mcp.Min(1), mcp.Description("Number of days to look back (default: 7)")),
		mcp.WithNumber("limit", mcp.Min(1), mcp.Description("Maximum number of entries to return (default: 10)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), withUser(s.skinHistory))

	s.addTool(mcp.NewTool(ToolPersonalizedRoutine,
		mcp.WithDescription("Use this when the user wants a routine tailored to their logged skin history. Requires sign-in. Analyzes the last 14 days of skin logs and returns a seasonal AM/PM routine."),
		mcp.WithString("routine_type", mcp.Enum(routineTypes...), mcp.Description("Which routine to build (default: both)")),
		mcp.WithString("focus", mcp.Enum(focusTags...), mcp.Description("Override the focus derived from the skin analysis")),
		mcp.WithBoolean("include_products", mcp.Description("Recommend matching products (default: true)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), withUser(s.personalizedRoutine))
}

func (s *Server) addTool(tool mcp.Tool, fn toolFunc) {
	handler := s.handle(tool.Name, fn)
	s.handlers[tool.Name] = handler
	s.mcp.AddTool(tool, handler)
}

func bind(req mcp.CallToolRequest, target any) error {
	if req.GetArguments() == nil {
		return nil
	}
	if err := req.BindArguments(target); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid tool arguments", err)
	}
	return nil
}

func (s *Server) routineGuide(ctx context.Context, req mcp.CallToolRequest) (any, string, error) {
	var args catalog.RoutineGuideRequest
	if err := bind(req, &args); err != nil {
		return nil, "", err
	}
	resp, err := s.catalog.RoutineGuide(ctx, args)
	if err != nil {
		return nil, "", err
	}
	return resp, fmt.Sprintf("Here's your %s skin %s routine guide.", resp.SkinType, resp.RoutineType), nil
}

func (s *Server) ingredientInfo(ctx context.Context, req mcp.CallToolRequest) (any, string, error) {
	var args catalog.IngredientRequest
	if err := bind(req, &args); err != nil {
		return nil, "", err
	}
	resp, err := s.catalog.IngredientInfo(ctx, args)
	if err != nil {
		return nil, "", err
	}
	return resp, fmt.Sprintf("Here's information about %s.", strings.Join(args.Ingredients, ", ")), nil
}

// SearchResult is the search_products payload.
type SearchResult struct {
	QuerySummary   string               `json:"query_summary"`
	TotalCount     int                  `json:"total_count"`
	Products       []catalog.Product    `json:"products"`
	FiltersApplied catalog.ProductQuery `json:"filters_applied"`
}

func (s *Server) searchProducts(ctx context.Context, req mcp.CallToolRequest) (any, string, error) {
	var query catalog.ProductQuery
	if err := bind(req, &query); err != nil {
		return nil, "", err
	}
	products, err := s.catalog.SearchProducts(ctx, query)
	if err != nil {
		return nil, "", err
	}
	summary := "All products"
	if query.ProductType != "" {
		summary = query.ProductType + " products"
	}
	if len(query.Ingredients) > 0 {
		summary += " with " + strings.Join(query.Ingredients, ", ")
	}
	return SearchResult{
		QuerySummary:   summary,
		TotalCount:     len(products),
		Products:       products,
		FiltersApplied: query,
	}, fmt.Sprintf("Found %d products matching your criteria.", len(products)), nil
}

func (s *Server) tips(ctx context.Context, req mcp.CallToolRequest) (any, string, error) {
	var args catalog.TipsRequest
	if err := bind(req, &args); err != nil {
		return nil, "", err
	}
	resp, err := s.catalog.Tips(ctx, args)
	if err != nil {
		return nil, "", err
	}
	return resp, fmt.Sprintf("Here are %d K-beauty tips and %d trending ingredients.", len(resp.Tips), len(resp.TrendingIngredients)), nil
}

func (s *Server) logSkinCondition(ctx context.Context, userID string, req mcp.CallToolRequest) (any, string, error) {
	var args skinlog.LogRequest
	if err := bind(req, &args); err != nil {
		return nil, "", err
	}
	resp, err := s.skinLogs.Log(ctx, userID, args)
	if err != nil {
		return nil, "", err
	}
	return resp, "Your skin condition has been logged successfully!", nil
}

func (s *Server) skinHistory(ctx context.Context, userID string, req mcp.CallToolRequest) (any, string, error) {
	var args skinlog.HistoryRequest
	if err := bind(req, &args); err != nil {
		return nil, "", err
	}
	resp, err := s.skinLogs.History(ctx, userID, args)
	if err != nil {
		return nil, "", err
	}
	return resp, fmt.Sprintf("Found %d skin log entries from the past %d days.", resp.TotalCount, resp.PeriodDays), nil
}

func (s *Server) personalizedRoutine(ctx context.Context, userID string, req mcp.CallToolRequest) (any, string, error) {
	var args personalization.Request
	if err := bind(req, &args); err != nil {
		return nil, "", err
	}
	resp, err := s.personalization.Generate(ctx, userID, args)
	if err != nil {
		return nil, "", err
	}
	analysis := resp.UserSkinAnalysis
	summary := fmt.Sprintf("Built %d personalized routine(s) for %s skin this %s, focusing on %s.",
		len(resp.PersonalizedRoutines), analysis.SkinTypeAssessment, resp.SeasonalContext.CurrentSeason, focusLabel(resp))
	if !analysis.DataQuality.IsSufficient {
		summary += " " + analysis.DataQuality.Message
	}
	return resp, summary, nil
}

func focusLabel(resp personalization.Response) string {
	if len(resp.PersonalizedRoutines) > 0 && len(resp.PersonalizedRoutines[0].FocusAreas) > 0 {
		return strings.ReplaceAll(resp.PersonalizedRoutines[0].FocusAreas[0], "_", " ")
	}
	return "balance"
}

package packaging

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModels is the ordered model fallback chain used when the
// integrator does not configure one.
var DefaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
}

// Generator produces a recommendation from an upstream generative service.
// Implementations return an error when no usable result was produced;
// the Recommender then falls back to the deterministic engine.
type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// Advisor implements Generator against the Gemini API, trying each
// configured model in order until one returns parseable JSON.
type Advisor struct {
	client *genai.Client
	models []string
	logger zerolog.Logger
}

// NewAdvisor creates an Advisor. An empty model list uses DefaultModels.
func NewAdvisor(ctx context.Context, apiKey string, models []string, logger zerolog.Logger) (*Advisor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if len(models) == 0 {
		models = DefaultModels
	}
	return &Advisor{client: client, models: models, logger: logger}, nil
}

// Generate tries each model in order and returns the first parseable
// recommendation. Per-model failures are isolated and logged; an error is
// returned only after every model has been tried.
func (a *Advisor) Generate(ctx context.Context, req Request) (Result, error) {
	prompt := buildPrompt(req)

	var lastErr error
	for _, model := range a.models {
		resp, err := a.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			lastErr = fmt.Errorf("model %s: %w", model, err)
			a.logger.Warn().Err(err).Str("model", model).Msg("generative recommendation attempt failed")
			continue
		}

		result, err := parseGeneratedResult(resp.Text())
		if err != nil {
			lastErr = fmt.Errorf("model %s: %w", model, err)
			a.logger.Warn().Err(err).Str("model", model).Msg("generative response was not usable")
			continue
		}

		a.logger.Debug().Str("model", model).Msg("generative recommendation accepted")
		return result, nil
	}

	return Result{}, fmt.Errorf("all models exhausted: %w", lastErr)
}

// buildPrompt encodes every request field into the natural-language prompt.
func buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are a sustainable packaging consultant. Recommend packaging for this product ")
	b.WriteString("and respond with a single JSON object with keys: recommended_materials (array of up to 3 strings), ")
	b.WriteString("estimated_cost (number), cost_comparison {plastic_cost, sustainable_cost, cost_difference_percent, cost_difference_absolute}, ")
	b.WriteString("environmental_impact {co2_reduction, disposal_method, recyclability, biodegradability}, recommendations (string).\n\n")
	fmt.Fprintf(&b, "Product category: %s\n", req.ProductCategory)
	fmt.Fprintf(&b, "Product weight: %s\n", req.ProductWeight)
	fmt.Fprintf(&b, "Dimensions (cm): %.1f x %.1f x %.1f\n", req.Dimensions.Length, req.Dimensions.Width, req.Dimensions.Height)
	fmt.Fprintf(&b, "Fragility: %s\n", req.FragilityLevel)
	fmt.Fprintf(&b, "Shipping distance: %s\n", req.ShippingDistance)
	fmt.Fprintf(&b, "Monthly shipping volume: %s\n", req.MonthlyShippingVolume)
	fmt.Fprintf(&b, "Current material: %s\n", req.CurrentMaterialUsed)
	fmt.Fprintf(&b, "Budget per unit: %s\n", req.BudgetPerUnit)
	fmt.Fprintf(&b, "Sustainability priority (1-5): %s\n", req.SustainabilityPriority)
	fmt.Fprintf(&b, "Moisture/temperature sensitive: %t\n", req.MoistureTempSensitive)
	if req.RegulatoryCompliance != "" {
		fmt.Fprintf(&b, "Regulatory compliance: %s\n", req.RegulatoryCompliance)
	}
	return b.String()
}

// stripFences removes markdown code fences the model may wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseGeneratedResult parses a model response into a Result, requiring at
// minimum the recommended materials and a positive estimated cost.
func parseGeneratedResult(text string) (Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(stripFences(text)), &result); err != nil {
		return Result{}, fmt.Errorf("parsing generated recommendation: %w", err)
	}
	if len(result.RecommendedMaterials) == 0 {
		return Result{}, fmt.Errorf("generated recommendation missing recommended_materials")
	}
	if result.EstimatedCost <= 0 {
		return Result{}, fmt.Errorf("generated recommendation missing estimated_cost")
	}
	if len(result.RecommendedMaterials) > maxRecommendedMaterials {
		result.RecommendedMaterials = result.RecommendedMaterials[:maxRecommendedMaterials]
	}
	return result, nil
}

// Package packaging recommends sustainable packaging materials and costs
// for a product, using a deterministic decision table with an optional
// generative delegation that falls back to the local engine.
package packaging

import "strconv"

// Dimensions are product dimensions in centimeters.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Request describes the product being packaged. Numeric fields arrive as
// strings from the intake form and are parsed leniently with defaults.
type Request struct {
	ProductWeight          string     `json:"product_weight"`
	ProductCategory        string     `json:"product_category"`
	Dimensions             Dimensions `json:"dimensions"`
	FragilityLevel         string     `json:"fragility_level"`
	ShippingDistance       string     `json:"shipping_distance"`
	MonthlyShippingVolume  string     `json:"monthly_shipping_volume"`
	CurrentMaterialUsed    string     `json:"current_material_used"`
	BudgetPerUnit          string     `json:"budget_per_unit"`
	SustainabilityPriority string     `json:"sustainability_priority"`
	MoistureTempSensitive  bool       `json:"moisture_temp_sensitive"`
	RegulatoryCompliance   string     `json:"regulatory_compliance,omitempty"`
}

// CostComparison compares conventional plastic packaging cost to the
// recommended sustainable alternative.
type CostComparison struct {
	PlasticCost            float64 `json:"plastic_cost"`
	SustainableCost        float64 `json:"sustainable_cost"`
	CostDifferencePercent  float64 `json:"cost_difference_percent"`
	CostDifferenceAbsolute float64 `json:"cost_difference_absolute"`
}

// EnvironmentalImpact carries free-text descriptive impact fields.
type EnvironmentalImpact struct {
	CO2Reduction     string `json:"co2_reduction"`
	DisposalMethod   string `json:"disposal_method"`
	Recyclability    string `json:"recyclability"`
	Biodegradability string `json:"biodegradability"`
}

// Result is a packaging recommendation. Produced fresh per request; no
// caching, no identity.
type Result struct {
	RecommendedMaterials []string            `json:"recommended_materials"`
	EstimatedCost        float64             `json:"estimated_cost"`
	CostComparison       CostComparison      `json:"cost_comparison"`
	EnvironmentalImpact  EnvironmentalImpact `json:"environmental_impact"`
	Recommendations      string              `json:"recommendations"`
}

// Defaults substituted for unparseable numeric inputs.
const (
	defaultBudgetPerUnit    = 50.0
	defaultPriority         = 3
	maxRecommendedMaterials = 3
)

// budget returns the parsed budget per unit, defaulting when missing,
// unparseable, or non-positive.
func (r Request) budget() float64 {
	v, err := strconv.ParseFloat(r.BudgetPerUnit, 64)
	if err != nil || v <= 0 {
		return defaultBudgetPerUnit
	}
	return v
}

// priority returns the parsed sustainability priority clamped to 1..5,
// defaulting to neutral when unparseable.
func (r Request) priority() int {
	v, err := strconv.Atoi(r.SustainabilityPriority)
	if err != nil {
		return defaultPriority
	}
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// monthlyVolume returns the parsed monthly shipping volume, defaulting to 0.
func (r Request) monthlyVolume() int {
	v, err := strconv.Atoi(r.MonthlyShippingVolume)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

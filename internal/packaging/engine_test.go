package packaging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRequest() Request {
	return Request{
		ProductWeight:          "1.2",
		ProductCategory:        "Electronics",
		Dimensions:             Dimensions{Length: 20, Width: 15, Height: 10},
		FragilityLevel:         "Low",
		ShippingDistance:       "local",
		MonthlyShippingVolume:  "1000",
		CurrentMaterialUsed:    "bubble wrap",
		BudgetPerUnit:          "50",
		SustainabilityPriority: "3",
	}
}

func TestRecommend_IsDeterministic(t *testing.T) {
	req := baseRequest()
	req.MoistureTempSensitive = true
	req.FragilityLevel = "medium"

	first := Recommend(req)
	second := Recommend(req)
	assert.Equal(t, first, second, "identical input must produce identical output")
}

// TestRecommend_ElectronicsHighFragilityHighPriority covers the intake
// scenario: electronics, high fragility, priority 5, budget 50, national
// shipping. The fragility override takes precedence over the category set
// and the priority qualifier prefixes every material.
func TestRecommend_ElectronicsHighFragilityHighPriority(t *testing.T) {
	req := baseRequest()
	req.FragilityLevel = "High"
	req.SustainabilityPriority = "5"
	req.ShippingDistance = "national"

	result := Recommend(req)

	require.Len(t, result.RecommendedMaterials, 3)
	for i, material := range result.RecommendedMaterials {
		assert.True(t, strings.HasPrefix(material, sustainableQualifier),
			"material %d should carry the certified-sustainable qualifier: %q", i, material)
		assert.Contains(t, material, reinforcedMaterials[i],
			"fragility override should replace the category material set")
	}

	// 0.95 (high fragility) + 0.02 (national) - 0.05 (priority) = 0.92
	assert.InDelta(t, 46, result.EstimatedCost, 1e-9)
	assert.LessOrEqual(t, result.EstimatedCost, 50.0)
}

// TestRecommend_PriorityNeverIncreasesCost pins the monotonicity property:
// raising sustainability priority from 3 to 5 cannot raise the estimate.
func TestRecommend_PriorityNeverIncreasesCost(t *testing.T) {
	for _, category := range []string{"Electronics", "Food", "Cosmetics", "Clothing", "Books", "Other"} {
		t.Run(category, func(t *testing.T) {
			neutral := baseRequest()
			neutral.ProductCategory = category

			high := neutral
			high.SustainabilityPriority = "5"

			neutralResult := Recommend(neutral)
			highResult := Recommend(high)
			assert.LessOrEqual(t, highResult.EstimatedCost, neutralResult.EstimatedCost)

			for _, material := range highResult.RecommendedMaterials {
				assert.True(t, strings.HasPrefix(material, sustainableQualifier))
			}
			for _, material := range neutralResult.RecommendedMaterials {
				assert.False(t, strings.HasPrefix(material, sustainableQualifier))
			}
		})
	}
}

func TestRecommend_LowPriorityAddsCostBump(t *testing.T) {
	neutral := baseRequest()
	low := neutral
	low.SustainabilityPriority = "2"

	// Electronics 0.90 neutral -> 45; +0.03 low -> 46.5 -> 47 (round half up)
	assert.InDelta(t, 45, Recommend(neutral).EstimatedCost, 1e-9)
	assert.InDelta(t, 47, Recommend(low).EstimatedCost, 1e-9)
}

func TestRecommend_CostNeverBelowOne(t *testing.T) {
	req := baseRequest()
	req.ProductCategory = "Books"
	req.BudgetPerUnit = "0.4"
	req.SustainabilityPriority = "5"
	req.MonthlyShippingVolume = "10000"

	result := Recommend(req)
	assert.GreaterOrEqual(t, result.EstimatedCost, 1.0)
}

func TestRecommend_MediumFragilityQualifiesNames(t *testing.T) {
	req := baseRequest()
	req.FragilityLevel = "medium"

	result := Recommend(req)
	require.Len(t, result.RecommendedMaterials, 3)
	for i, material := range result.RecommendedMaterials {
		assert.True(t, strings.HasSuffix(material, " with standard protection"), "material %d: %q", i, material)
		assert.Contains(t, material, classProfiles[ClassElectronics].materials[i],
			"medium fragility keeps the category material set")
	}
	// Medium fragility pins the multiplier at 0.87.
	assert.InDelta(t, 44, result.EstimatedCost, 1e-9) // round(50 x 0.87) = 44 (43.5 rounds up)
}

func TestRecommend_MoistureSensitivityRaisesCost(t *testing.T) {
	dry := baseRequest()
	dry.ProductCategory = "garden tools" // generic branch, multiplier 0.85
	dry.BudgetPerUnit = "100"

	wet := dry
	wet.MoistureTempSensitive = true

	assert.InDelta(t, 85, Recommend(dry).EstimatedCost, 1e-9)
	assert.InDelta(t, 93, Recommend(wet).EstimatedCost, 1e-9) // +0.08 barrier allowance

	// The materials list stays capped at three, last-applied appends dropping out.
	assert.Len(t, Recommend(wet).RecommendedMaterials, 3)
}

// TestRecommend_MultiplierOrderGolden pins the sequential rule order
// (category, fragility, shipping, priority, volume, moisture) via final
// costs: the adjustments are additive and order-dependent.
func TestRecommend_MultiplierOrderGolden(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Request)
		wantCost float64
	}{
		{"category only (electronics)", func(r *Request) {}, 45},                // 0.90
		{"food category", func(r *Request) { r.ProductCategory = "Food" }, 41},  // 0.82
		{"books category", func(r *Request) { r.ProductCategory = "Books" }, 38}, // 0.76
		{"high fragility overrides category", func(r *Request) { r.FragilityLevel = "high" }, 48}, // 0.95 -> 47.5 -> 48
		{"international shipping", func(r *Request) { r.ShippingDistance = "International" }, 48}, // 0.90+0.05
		{"bulk volume", func(r *Request) { r.MonthlyShippingVolume = "6000" }, 43},                // 0.90-0.05 -> 42.5 -> 43
		{"everything stacked", func(r *Request) {
			r.FragilityLevel = "high"
			r.ShippingDistance = "international"
			r.SustainabilityPriority = "5"
			r.MonthlyShippingVolume = "9000"
			r.MoistureTempSensitive = true
		}, 49}, // 0.95+0.05-0.05-0.05+0.08 = 0.98
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(&req)
			assert.InDelta(t, tt.wantCost, Recommend(req).EstimatedCost, 1e-9)
		})
	}
}

func TestRecommend_UnparseableNumbersUseDefaults(t *testing.T) {
	req := baseRequest()
	req.BudgetPerUnit = "not-a-number"
	req.SustainabilityPriority = ""
	req.MonthlyShippingVolume = "lots"

	result := Recommend(req)
	assert.InDelta(t, defaultBudgetPerUnit, result.CostComparison.PlasticCost, 1e-9)
	assert.InDelta(t, 45, result.EstimatedCost, 1e-9) // electronics neutral
}

func TestRecommend_CostComparisonIsConsistent(t *testing.T) {
	result := Recommend(baseRequest())

	cc := result.CostComparison
	assert.InDelta(t, result.EstimatedCost, cc.SustainableCost, 1e-9)
	assert.InDelta(t, 50, cc.PlasticCost, 1e-9)
	assert.InDelta(t, cc.SustainableCost-cc.PlasticCost, cc.CostDifferenceAbsolute, 1e-9)
	assert.InDelta(t, (cc.SustainableCost-cc.PlasticCost)/cc.PlasticCost*100, cc.CostDifferencePercent, 0.05)
}

func TestRecommend_ImpactWordingBranchesOnPriority(t *testing.T) {
	neutral := Recommend(baseRequest())

	high := baseRequest()
	high.SustainabilityPriority = "4"
	highResult := Recommend(high)

	assert.NotEqual(t, neutral.EnvironmentalImpact, highResult.EnvironmentalImpact)
	assert.Contains(t, highResult.EnvironmentalImpact.CO2Reduction, "70%")
	assert.Contains(t, neutral.EnvironmentalImpact.CO2Reduction, "40-60%")
}

func TestRecommend_RationaleInterpolatesInputs(t *testing.T) {
	req := baseRequest()
	req.RegulatoryCompliance = "EU food contact"
	result := Recommend(req)

	for _, fragment := range []string{"Electronics", "bubble wrap", "EU food contact", "50"} {
		assert.Contains(t, result.Recommendations, fragment)
	}
}

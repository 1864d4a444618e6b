package packaging

import (
	"fmt"
	"math"
	"strings"
)

// baseCostMultiplier is the starting multiplier before any rule applies.
const baseCostMultiplier = 0.85

// classProfile is the material set and cost profile for one product class.
type classProfile struct {
	materials  []string
	multiplier float64
	fragment   string
}

// classProfiles drives the category branch of the decision table.
var classProfiles = map[ProductClass]classProfile{
	ClassElectronics: {
		materials:  []string{"Recycled molded pulp trays", "Corrugated cardboard with paper foam inserts", "Biodegradable air pillows"},
		multiplier: 0.90,
		fragment:   "anti-static recycled cushioning suited to electronics",
	},
	ClassFood: {
		materials:  []string{"Compostable PLA containers", "Kraft paper wrap", "Recycled cardboard boxes"},
		multiplier: 0.82,
		fragment:   "food-safe compostable materials",
	},
	ClassCosmetics: {
		materials:  []string{"Glass containers with bamboo lids", "Recycled paperboard cartons", "Compostable cellulose wrap"},
		multiplier: 0.88,
		fragment:   "premium low-impact materials for cosmetics",
	},
	ClassClothing: {
		materials:  []string{"Recycled poly mailers", "Kraft paper envelopes", "Compostable garment bags"},
		multiplier: 0.78,
		fragment:   "lightweight recycled mailers for textiles",
	},
	ClassBooks: {
		materials:  []string{"Rigid recycled cardboard mailers", "Kraft paper wrap", "Corrugated book wraps"},
		multiplier: 0.76,
		fragment:   "rigid recycled wraps for printed media",
	},
	ClassGeneric: {
		materials:  []string{"Recycled cardboard boxes", "Kraft paper fill", "Biodegradable packing peanuts"},
		multiplier: baseCostMultiplier,
		fragment:   "general-purpose recycled packaging",
	},
}

// reinforcedMaterials replaces the category set for high-fragility products.
var reinforcedMaterials = []string{
	"Double-wall corrugated boxes",
	"Molded pulp cushioning",
	"Honeycomb paper wrap",
}

// Multiplier adjustments applied by the sequential rules. The adjustments
// are additive and order-dependent: category, fragility, shipping distance,
// sustainability priority, volume, moisture sensitivity, in that order.
const (
	fragilityHighMultiplier   = 0.95
	fragilityMediumMultiplier = 0.87
	shippingInternationalBump = 0.05
	shippingNationalBump      = 0.02
	highPriorityDiscount      = 0.05
	lowPriorityBump           = 0.03
	bulkVolumeThreshold       = 5000
	bulkVolumeDiscount        = 0.05
	moistureBarrierBump       = 0.08
)

// sustainableQualifier prefixes material names for priority >= 4 requests.
const sustainableQualifier = "100% certified sustainable "

// ruleState is the working state threaded through the decision-table rules.
type ruleState struct {
	materials  []string
	multiplier float64
	fragment   string
	notes      []string
	priority   int
}

// rule is one ordered step of the decision table.
type rule struct {
	name  string
	apply func(Request, *ruleState)
}

// rules is the decision table in application order. The order is
// load-bearing: adjustments are sequential and not reconciled against each
// other, so reordering changes the final cost.
var rules = []rule{
	{"category", applyCategory},
	{"fragility", applyFragility},
	{"shipping_distance", applyShipping},
	{"sustainability_priority", applyPriority},
	{"shipping_volume", applyVolume},
	{"moisture_sensitivity", applyMoisture},
}

func applyCategory(req Request, s *ruleState) {
	profile := classProfiles[Classify(req.ProductCategory)]
	s.materials = append([]string(nil), profile.materials...)
	s.multiplier = profile.multiplier
	s.fragment = profile.fragment
}

func applyFragility(req Request, s *ruleState) {
	switch strings.ToLower(strings.TrimSpace(req.FragilityLevel)) {
	case "high":
		s.materials = append([]string(nil), reinforcedMaterials...)
		s.multiplier = fragilityHighMultiplier
		s.notes = append(s.notes, "Reinforced packaging selected for high fragility.")
	case "medium":
		for i, m := range s.materials {
			s.materials[i] = m + " with standard protection"
		}
		s.multiplier = fragilityMediumMultiplier
	}
}

func applyShipping(req Request, s *ruleState) {
	switch strings.ToLower(strings.TrimSpace(req.ShippingDistance)) {
	case "international":
		s.multiplier += shippingInternationalBump
		s.notes = append(s.notes, "International shipping: added durability allowance for long transit.")
	case "national":
		s.multiplier += shippingNationalBump
		s.notes = append(s.notes, "National shipping: standard transit protection applied.")
	}
}

func applyPriority(req Request, s *ruleState) {
	s.priority = req.priority()
	switch {
	case s.priority >= 4:
		s.multiplier -= highPriorityDiscount
		for i, m := range s.materials {
			s.materials[i] = sustainableQualifier + m
		}
		s.notes = append(s.notes, "High sustainability priority: certified materials throughout, maximizing CO2 reduction.")
	case s.priority <= 2:
		s.multiplier += lowPriorityBump
		s.notes = append(s.notes, "Cost-optimized selection: sustainable where it does not raise unit cost materially.")
	}
}

func applyVolume(req Request, s *ruleState) {
	if req.monthlyVolume() > bulkVolumeThreshold {
		s.multiplier -= bulkVolumeDiscount
		s.notes = append(s.notes, "Bulk volume discount applied for orders above 5000 units/month.")
	}
}

func applyMoisture(req Request, s *ruleState) {
	if req.MoistureTempSensitive {
		s.materials = append(s.materials, "Moisture barrier lining")
		s.multiplier += moistureBarrierBump
		s.notes = append(s.notes, "Moisture/temperature barrier added for sensitive contents.")
	}
}

// Recommend runs the deterministic decision table and assembles the
// recommendation. It is a pure function of the request: no I/O, no
// external calls, and every numeric path has a default, so it cannot fail.
func Recommend(req Request) Result {
	state := &ruleState{}
	for _, r := range rules {
		r.apply(req, state)
	}

	baseCost := req.budget()
	sustainableCost := math.Max(1, math.Round(baseCost*state.multiplier))
	diffAbsolute := round2(sustainableCost - baseCost)
	diffPercent := round1((sustainableCost - baseCost) / baseCost * 100)

	materials := state.materials
	if len(materials) > maxRecommendedMaterials {
		materials = materials[:maxRecommendedMaterials]
	}

	return Result{
		RecommendedMaterials: materials,
		EstimatedCost:        sustainableCost,
		CostComparison: CostComparison{
			PlasticCost:            baseCost,
			SustainableCost:        sustainableCost,
			CostDifferencePercent:  diffPercent,
			CostDifferenceAbsolute: diffAbsolute,
		},
		EnvironmentalImpact: buildImpact(state.priority),
		Recommendations:     buildRationale(req, state, baseCost, sustainableCost),
	}
}

// buildImpact returns the fixed-shape impact block. Wording branches only
// on the sustainability-priority threshold.
func buildImpact(priority int) EnvironmentalImpact {
	if priority >= 4 {
		return EnvironmentalImpact{
			CO2Reduction:     "Up to 70% lower CO2e than conventional plastic packaging with certified materials",
			DisposalMethod:   "Home or industrial composting; remaining components via curbside recycling",
			Recyclability:    "Fully recyclable or compostable across all recommended materials",
			Biodegradability: "Certified biodegradable under standard composting conditions",
		}
	}
	return EnvironmentalImpact{
		CO2Reduction:     "Approximately 40-60% lower CO2e than conventional plastic packaging",
		DisposalMethod:   "Curbside recycling; compostable components via industrial composting",
		Recyclability:    "High recyclability for paper and cardboard components",
		Biodegradability: "Partially biodegradable depending on material mix",
	}
}

// buildRationale interpolates the request and computed costs into the
// multi-section free-text recommendation.
func buildRationale(req Request, s *ruleState, baseCost, sustainableCost float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Packaging recommendation for %s (%s):\n\n",
		nonEmpty(req.ProductCategory, "your product"), Classify(req.ProductCategory))
	fmt.Fprintf(&b, "Materials: %s.\n", strings.Join(s.materials, "; "))
	fmt.Fprintf(&b, "Selection rationale: %s.\n\n", s.fragment)

	fmt.Fprintf(&b, "Cost: estimated %.0f per unit against a budget of %.0f (conventional plastic baseline %.0f).\n",
		sustainableCost, baseCost, baseCost)
	fmt.Fprintf(&b, "Profile: weight %s, fragility %s, shipping %s, volume %s units/month, priority %d/5, moisture sensitive %t.\n",
		nonEmpty(req.ProductWeight, "unspecified"),
		nonEmpty(req.FragilityLevel, "standard"),
		nonEmpty(req.ShippingDistance, "local"),
		nonEmpty(req.MonthlyShippingVolume, "0"),
		s.priority,
		req.MoistureTempSensitive)
	if req.CurrentMaterialUsed != "" {
		fmt.Fprintf(&b, "Replaces current material: %s.\n", req.CurrentMaterialUsed)
	}
	if req.RegulatoryCompliance != "" {
		fmt.Fprintf(&b, "Regulatory requirement noted: %s.\n", req.RegulatoryCompliance)
	}

	if len(s.notes) > 0 {
		b.WriteString("\nNotes:\n")
		for _, note := range s.notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}

	return b.String()
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

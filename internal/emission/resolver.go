package emission

import (
	"strings"

	"github.com/rs/zerolog"
)

// Resolver maps (category, canonical activity key) pairs to emission
// factors, applying profile personalization where a rule exists. The table
// is injected so tests can run against fixtures.
type Resolver struct {
	table  FactorTable
	logger zerolog.Logger
}

// NewResolver creates a Resolver over the given factor table.
func NewResolver(table FactorTable, logger zerolog.Logger) *Resolver {
	return &Resolver{table: table, logger: logger}
}

// Resolve returns the emission factor (kg CO2e per unit) for the given
// category and canonical activity key. Missing categories or keys degrade
// to DefaultFactor with a warning; Resolve never fails.
//
// Personalization: car travel (TRANSPORT keys ending in "CAR_KM") is
// overridden by the profile's fuel type when a profile is supplied,
// short-circuiting the standard lookup.
func (r *Resolver) Resolve(category, activityKey string, profile *UserProfile) float64 {
	category = strings.ToUpper(strings.TrimSpace(category))

	if factor, ok := r.personalize(category, activityKey, profile); ok {
		return factor
	}

	factors, ok := r.table[category]
	if !ok {
		r.logger.Warn().
			Str("category", category).
			Str("activity_key", activityKey).
			Float64("default_factor", DefaultFactor).
			Msg("unknown category, using default emission factor")
		return DefaultFactor
	}

	factor, ok := factors[activityKey]
	if !ok {
		r.logger.Warn().
			Str("category", category).
			Str("activity_key", activityKey).
			Float64("default_factor", DefaultFactor).
			Msg("unknown activity key, using default emission factor")
		return DefaultFactor
	}

	return factor
}

// personalize applies the transport fuel-type override. Returns (0, false)
// when no personalization rule matches.
func (r *Resolver) personalize(category, activityKey string, profile *UserProfile) (float64, bool) {
	if profile == nil || category != CategoryTransport {
		return 0, false
	}
	if !strings.HasSuffix(activityKey, "CAR_KM") {
		return 0, false
	}

	var personalizedKey string
	switch strings.ToLower(strings.TrimSpace(profile.FuelType)) {
	case "electric":
		personalizedKey = "EV_CAR_KM"
	case "diesel":
		personalizedKey = "DIESEL_CAR_KM"
	default:
		personalizedKey = "PETROL_CAR_KM"
	}

	factors, ok := r.table[CategoryTransport]
	if !ok {
		return DefaultFactor, true
	}
	factor, ok := factors[personalizedKey]
	if !ok {
		r.logger.Warn().
			Str("activity_key", personalizedKey).
			Msg("personalized key missing from factor table, using default")
		return DefaultFactor, true
	}

	r.logger.Debug().
		Str("activity_key", activityKey).
		Str("personalized_key", personalizedKey).
		Str("fuel_type", profile.FuelType).
		Msg("applied transport personalization")
	return factor, true
}

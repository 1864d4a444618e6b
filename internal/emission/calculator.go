package emission

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RemoteEstimator is a best-effort external emissions-estimation service.
// Any error from it triggers the local fallback; it is never a hard failure.
type RemoteEstimator interface {
	EstimateCO2e(ctx context.Context, category, activity string, amount float64, unit string) (float64, error)
}

// Estimate sources, in fallback order.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// Attempt records one step of the remote-then-local fallback chain so the
// chain's order and failure causes stay observable without exception-style
// control flow.
type Attempt struct {
	Source string
	Value  float64
	Err    error
}

// Calculator converts activity records into rounded CO2e estimates.
// The pure Calculate path never fails; the Estimate path additionally
// delegates to an optional remote service with local fallback.
type Calculator struct {
	resolver *Resolver
	remote   RemoteEstimator // nil disables remote delegation
	logger   zerolog.Logger
}

// NewCalculator creates a Calculator. Pass a nil remote to run purely local.
func NewCalculator(resolver *Resolver, remote RemoteEstimator, logger zerolog.Logger) *Calculator {
	return &Calculator{resolver: resolver, remote: remote, logger: logger}
}

// Calculate returns the CO2e estimate in kilograms for the record, rounded
// to 3 decimals. The pipeline: synonym lookup (falling back to mechanical
// key construction), unit rekeying, gram normalization for FOOD, factor
// resolution, multiply. Calculate is pure given the factor table and
// cannot fail; unresolved lookups use DefaultFactor.
func (c *Calculator) Calculate(rec ActivityRecord, profile *UserProfile) float64 {
	category := strings.ToUpper(strings.TrimSpace(rec.Category))
	unit, _ := ParseUnit(rec.Unit)
	amount := rec.Amount

	key, ok := lookupSynonym(category, rec.Activity)
	if ok {
		key = Rekey(key, unit)
	} else {
		key = mechanicalKey(rec.Activity, unit)
	}

	// Food amounts reported in grams are normalized to kilograms before
	// the factor (kg CO2e per kg) is applied.
	if category == CategoryFood && unit == UnitG {
		amount /= GramsPerKg
		key = Rekey(key, UnitKG)
	}

	factor := c.resolver.Resolve(category, key, profile)
	return Round3(amount * factor)
}

// Estimate runs the remote-then-local fallback chain for the record and
// returns the value, its source, and the attempts made. A caller always
// receives a number; remote failures are captured in the attempt list and
// logged, never propagated.
func (c *Calculator) Estimate(ctx context.Context, rec ActivityRecord, profile *UserProfile) (float64, string, []Attempt) {
	var attempts []Attempt
	start := time.Now()

	if c.remote != nil {
		value, err := c.remote.EstimateCO2e(ctx, rec.Category, rec.Activity, rec.Amount, rec.Unit)
		if err == nil {
			attempts = append(attempts, Attempt{Source: SourceRemote, Value: value})
			c.logger.Debug().
				Str("category", rec.Category).
				Str("activity", rec.Activity).
				Float64("co2e_kg", value).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("remote estimation succeeded")
			return value, SourceRemote, attempts
		}
		attempts = append(attempts, Attempt{Source: SourceRemote, Err: err})
		c.logger.Warn().
			Err(err).
			Str("category", rec.Category).
			Str("activity", rec.Activity).
			Msg("remote estimation failed, falling back to local calculation")
	}

	local := rec
	if strings.EqualFold(strings.TrimSpace(rec.Category), CategoryFood) {
		local.Activity = remapFoodPhrase(rec.Activity)
	}

	value := c.Calculate(local, profile)
	attempts = append(attempts, Attempt{Source: SourceLocal, Value: value})
	return value, SourceLocal, attempts
}

// Transport estimates CO2e for a transport activity, remote-first.
func (c *Calculator) Transport(ctx context.Context, activity string, amount float64, unit string, profile *UserProfile) float64 {
	return c.estimateCategory(ctx, CategoryTransport, activity, amount, unit, profile)
}

// Food estimates CO2e for a food activity, remote-first.
func (c *Calculator) Food(ctx context.Context, activity string, amount float64, unit string, profile *UserProfile) float64 {
	return c.estimateCategory(ctx, CategoryFood, activity, amount, unit, profile)
}

// Energy estimates CO2e for an energy activity, remote-first.
func (c *Calculator) Energy(ctx context.Context, activity string, amount float64, unit string, profile *UserProfile) float64 {
	return c.estimateCategory(ctx, CategoryEnergy, activity, amount, unit, profile)
}

// Packaging estimates CO2e for a packaging activity, remote-first.
func (c *Calculator) Packaging(ctx context.Context, activity string, amount float64, unit string, profile *UserProfile) float64 {
	return c.estimateCategory(ctx, CategoryPackaging, activity, amount, unit, profile)
}

func (c *Calculator) estimateCategory(ctx context.Context, category, activity string, amount float64, unit string, profile *UserProfile) float64 {
	value, _, _ := c.Estimate(ctx, ActivityRecord{
		Category: category,
		Activity: activity,
		Amount:   amount,
		Unit:     unit,
	}, profile)
	return value
}

// mechanicalKey constructs a canonical key when no synonym matches:
// uppercase, spaces to underscores, unit suffix appended.
func mechanicalKey(activity string, unit Unit) string {
	name := strings.ToUpper(strings.TrimSpace(activity))
	name = strings.ReplaceAll(name, " ", "_")
	return name + "_" + string(unit)
}

// Round3 rounds to 3 decimal places. Applied once, at the end of the
// calculation pipeline.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

package packaging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Recommendation sources, in fallback order.
const (
	SourceGenerative = "generative"
	SourceLocal      = "local"
)

// Recommender runs the generative-first, deterministic-fallback chain.
// First success wins; generative and local results are never blended.
type Recommender struct {
	generator Generator // nil when no credentials are configured
	logger    zerolog.Logger
}

// NewRecommender creates a Recommender. Pass a nil generator to run the
// deterministic engine only.
func NewRecommender(generator Generator, logger zerolog.Logger) *Recommender {
	return &Recommender{generator: generator, logger: logger}
}

// Recommend returns a recommendation and its source. The caller always
// receives a result: generative failures fall through to the deterministic
// engine, which cannot fail.
func (r *Recommender) Recommend(ctx context.Context, req Request) (Result, string) {
	start := time.Now()

	if r.generator != nil {
		result, err := r.generator.Generate(ctx, req)
		if err == nil {
			r.logger.Info().
				Str("source", SourceGenerative).
				Str("product_category", req.ProductCategory).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("recommendation generated")
			return result, SourceGenerative
		}
		r.logger.Warn().
			Err(err).
			Str("product_category", req.ProductCategory).
			Msg("generative recommendation failed, falling back to deterministic engine")
	}

	result := Recommend(req)
	r.logger.Info().
		Str("source", SourceLocal).
		Str("product_category", req.ProductCategory).
		Float64("estimated_cost", result.EstimatedCost).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("recommendation generated")
	return result, SourceLocal
}

package engine

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"cricket_go/internal/domain"
)

// drawOrder is the fixed order in which outcome categories accumulate
// probability mass during a draw.
var drawOrder = []domain.BallOutcome{
	domain.OutcomeDot,
	domain.OutcomeSingle,
	domain.OutcomeDouble,
	domain.OutcomeTriple,
	domain.OutcomeFour,
	domain.OutcomeSix,
	domain.OutcomeWicket,
	domain.OutcomeWide,
	domain.OutcomeNoBall,
}

// Simulator draws ball outcomes from a configured distribution. The random
// source is injected and seedable so outcome sequences are reproducible.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator creates a simulator with a deterministic seed.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// NextOutcome draws a uniform value in [0,100) and walks the nine outcome
// categories in their fixed order, returning the first whose cumulative mass
// exceeds the draw. If the masses do not sum to exactly 100, no-ball absorbs
// the residual or deficit; that boundary behavior is intentional.
func (s *Simulator) NextOutcome(p domain.Probabilities) domain.BallOutcome {
	draw := decimal.NewFromFloat(s.rng.Float64() * 100)

	cumulative := decimal.Zero
	for i, mass := range p.InOrder() {
		cumulative = cumulative.Add(mass)
		if cumulative.GreaterThan(draw) {
			return drawOrder[i]
		}
	}
	return domain.OutcomeNoBall
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// probSumTolerance is how far the nine probabilities may drift from 100.
var probSumTolerance = decimal.NewFromFloat(0.01)

var hundred = decimal.NewFromInt(100)

// Probabilities holds the percentage mass for each of the nine ball
// outcomes. Values are percentages; a valid set sums to 100.
type Probabilities struct {
	Dots    decimal.Decimal `yaml:"dots" json:"dots"`
	Singles decimal.Decimal `yaml:"singles" json:"singles"`
	Doubles decimal.Decimal `yaml:"doubles" json:"doubles"`
	Triples decimal.Decimal `yaml:"triples" json:"triples"`
	Fours   decimal.Decimal `yaml:"fours" json:"fours"`
	Sixes   decimal.Decimal `yaml:"sixes" json:"sixes"`
	Wickets decimal.Decimal `yaml:"wickets" json:"wickets"`
	Wides   decimal.Decimal `yaml:"wides" json:"wides"`
	NoBalls decimal.Decimal `yaml:"no_balls" json:"no_balls"`
}

// InOrder returns the probability mass in the fixed draw order used by the
// simulator: dot, single, double, triple, four, six, wicket, wide, no-ball.
func (p Probabilities) InOrder() []decimal.Decimal {
	return []decimal.Decimal{
		p.Dots, p.Singles, p.Doubles, p.Triples, p.Fours,
		p.Sixes, p.Wickets, p.Wides, p.NoBalls,
	}
}

// Sum returns the total probability mass.
func (p Probabilities) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range p.InOrder() {
		total = total.Add(v)
	}
	return total
}

// SimulationSettings controls the event simulator. Validated before
// acceptance; validity is never re-checked at use time.
type SimulationSettings struct {
	BallIntervalSec float64       `yaml:"ball_interval_sec" json:"ball_interval_sec"`
	Probabilities   Probabilities `yaml:"probabilities" json:"probabilities"`
}

// DefaultSimulationSettings mirrors the default match profile.
func DefaultSimulationSettings() SimulationSettings {
	return SimulationSettings{
		BallIntervalSec: 2.5,
		Probabilities: Probabilities{
			Dots:    decimal.NewFromInt(30),
			Singles: decimal.NewFromInt(35),
			Doubles: decimal.NewFromInt(10),
			Triples: decimal.NewFromInt(1),
			Fours:   decimal.NewFromInt(10),
			Sixes:   decimal.NewFromInt(5),
			Wickets: decimal.NewFromInt(5),
			Wides:   decimal.NewFromInt(2),
			NoBalls: decimal.NewFromInt(2),
		},
	}
}

// Validate checks the settings against their accepted ranges: ball interval
// in [1,30] seconds, each probability in [0,100], total within tolerance
// of 100.
func (s SimulationSettings) Validate() error {
	if s.BallIntervalSec < 1 || s.BallIntervalSec > 30 {
		return &ValidationError{
			Field: "ball_interval_sec",
			Err:   fmt.Errorf("must be between 1 and 30 seconds, got %v", s.BallIntervalSec),
		}
	}

	names := []string{"dots", "singles", "doubles", "triples", "fours", "sixes", "wickets", "wides", "no_balls"}
	for i, v := range s.Probabilities.InOrder() {
		if v.IsNegative() || v.GreaterThan(hundred) {
			return &ValidationError{
				Field: "probabilities." + names[i],
				Err:   fmt.Errorf("must be between 0 and 100, got %s", v),
			}
		}
	}

	if sum := s.Probabilities.Sum(); sum.Sub(hundred).Abs().GreaterThan(probSumTolerance) {
		return &ValidationError{
			Field: "probabilities",
			Err:   fmt.Errorf("must sum to 100, got %s", sum),
		}
	}

	return nil
}

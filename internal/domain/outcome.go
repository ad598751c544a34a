package domain

// BallOutcome is the result of a single simulated delivery.
type BallOutcome string

const (
	OutcomeDot    BallOutcome = "0"
	OutcomeSingle BallOutcome = "1"
	OutcomeDouble BallOutcome = "2"
	OutcomeTriple BallOutcome = "3"
	OutcomeFour   BallOutcome = "4"
	OutcomeSix    BallOutcome = "6"
	OutcomeWicket BallOutcome = "W"
	OutcomeWide   BallOutcome = "Wd"
	OutcomeNoBall BallOutcome = "Nb"
)

// Runs returns the runs credited to the batting side for this outcome.
// Wides and no-balls concede a single run.
func (o BallOutcome) Runs() int64 {
	switch o {
	case OutcomeSingle, OutcomeWide, OutcomeNoBall:
		return 1
	case OutcomeDouble:
		return 2
	case OutcomeTriple:
		return 3
	case OutcomeFour:
		return 4
	case OutcomeSix:
		return 6
	default:
		return 0
	}
}

// IsLegal reports whether the delivery counts toward the over.
func (o BallOutcome) IsLegal() bool {
	return o != OutcomeWide && o != OutcomeNoBall
}

// IsBoundary reports whether the outcome scores a boundary.
func (o BallOutcome) IsBoundary() bool {
	return o == OutcomeFour || o == OutcomeSix
}

// BallRecord is one entry of the rolling ball history.
type BallRecord struct {
	BallNumber int         `json:"ball_number"`
	Outcome    BallOutcome `json:"outcome"`
	TsUnixM    int64       `json:"ts"`
}

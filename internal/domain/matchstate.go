package domain

// OversPerMatch is the configured over limit for the short-format match.
const OversPerMatch = 5

// BallsPerOver is fixed by the laws of the game.
const BallsPerOver = 6

// MatchStatus is the lifecycle state of the simulated match.
// Transitions are one-directional except for an explicit reset.
type MatchStatus string

const (
	MatchNotStarted MatchStatus = "not_started"
	MatchInProgress MatchStatus = "in_progress"
	MatchFinished   MatchStatus = "finished"
)

// MatchState is a snapshot of the live match. It is mutated only through
// ApplyOutcome, which works value-in/value-out so transitions stay pure and
// replayable.
type MatchState struct {
	Ball         int   `json:"ball"`    // legal deliveries bowled
	Over         int   `json:"over"`    // completed overs, Ball / BallsPerOver
	Striker      int   `json:"striker"` // 1 or 2
	Player1Score int64 `json:"player1_score"`
	Player2Score int64 `json:"player2_score"`
	TeamScore    int64 `json:"team_score"`
	Wickets      int64 `json:"num_wickets"`
	Boundaries   int64 `json:"num_boundaries"`
	FreeHit      bool  `json:"free_hit"`
}

// NewMatchState returns the state before the first delivery.
func NewMatchState() MatchState {
	return MatchState{Striker: 1}
}

// ApplyOutcome advances the match by one delivery and returns the new state.
//
// Rules, in order: score runs (boundaries and wickets tracked per outcome,
// a wicket on a free hit is voided), attribute runs to the striker and the
// team, advance ball/over counters on legal deliveries only (clearing any
// free hit), rotate strike on odd runs, and rotate again at the end of a
// completed over while the match still has overs to bowl.
func (s MatchState) ApplyOutcome(outcome BallOutcome) MatchState {
	runs := outcome.Runs()

	if outcome.IsBoundary() {
		s.Boundaries++
	}
	if outcome == OutcomeWicket && !s.FreeHit {
		s.Wickets++
	}
	if outcome == OutcomeNoBall {
		s.FreeHit = true
	}

	s.TeamScore += runs
	if s.Striker == 1 {
		s.Player1Score += runs
	} else {
		s.Player2Score += runs
	}

	if outcome.IsLegal() {
		s.Ball++
		s.Over = s.Ball / BallsPerOver
		s.FreeHit = false // a free hit covers exactly one legal delivery
	}

	if runs == 1 || runs == 3 {
		s.rotateStrike()
	}
	if outcome.IsLegal() && s.Ball%BallsPerOver == 0 && s.Over < OversPerMatch {
		s.rotateStrike()
	}

	return s
}

func (s *MatchState) rotateStrike() {
	if s.Striker == 1 {
		s.Striker = 2
	} else {
		s.Striker = 1
	}
}

// Complete reports whether the configured over limit has been reached.
func (s MatchState) Complete() bool {
	return s.Over >= OversPerMatch
}

// SettlementValue returns the final value of a market's underlying quantity.
// Only meaningful once the match is finished.
func (s MatchState) SettlementValue(id MarketID) int64 {
	switch id {
	case MarketPlayer1Score:
		return s.Player1Score
	case MarketPlayer2Score:
		return s.Player2Score
	case MarketTeamScore:
		return s.TeamScore
	case MarketWickets:
		return s.Wickets
	case MarketBoundaries:
		return s.Boundaries
	default:
		return 0
	}
}

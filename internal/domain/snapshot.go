package domain

// BookLevel is one aggregated price level of an order book summary.
type BookLevel struct {
	Price  int64 `json:"price"`
	Volume int64 `json:"volume"`
}

// BookSummary is the top of one market's book, best prices first.
type BookSummary struct {
	Bids []BookLevel `json:"bids"`
	Asks []BookLevel `json:"asks"`
}

// ExchangeSnapshot is a consistent read-only view of the whole exchange,
// taken atomically by the sequencer. It is what external collaborators (the
// advisor, logs) see; they never touch live state.
type ExchangeSnapshot struct {
	Seq         uint64                   `json:"seq"`
	Status      MatchStatus              `json:"status"`
	Match       MatchState               `json:"match"`
	Settings    SimulationSettings       `json:"settings"`
	Books       map[MarketID]BookSummary `json:"books"`
	Ledger      LedgerState              `json:"ledger"`
	BallHistory []BallRecord             `json:"ball_history"`
}

package advisor

import (
	"github.com/shopspring/decimal"

	"cricket_go/internal/domain"
)

// MaxSuggestions caps how many suggestions a response may carry; anything
// beyond it is discarded.
const MaxSuggestions = 3

// Suggestion is one advisory trade idea. The rationale and risk text are
// opaque to the exchange; confidence is a value in [0,1].
type Suggestion struct {
	Market     string  `json:"market"`
	Side       string  `json:"action"` // "BUY" or "SELL"
	Price      int64   `json:"price"`
	Volume     int64   `json:"volume"`
	Rationale  string  `json:"rationale"`
	Confidence float64 `json:"confidence"`
	Risks      string  `json:"risks"`
}

// Valid reports whether the suggestion is structurally usable: a known
// market, a recognizable side and an in-range confidence.
func (s Suggestion) Valid() bool {
	if _, ok := domain.Markets[domain.MarketID(s.Market)]; !ok {
		return false
	}
	if s.Side != string(domain.SideBuy) && s.Side != string(domain.SideSell) {
		return false
	}
	return s.Confidence >= 0 && s.Confidence <= 1
}

// request is the serialized state handed to the advisory service.
type request struct {
	Status          domain.MatchStatus                     `json:"status"`
	Match           domain.MatchState                      `json:"match"`
	Books           map[domain.MarketID]domain.BookSummary `json:"books"`
	Positions       map[domain.MarketID]int64              `json:"positions"`
	TotalRealized   decimal.Decimal                        `json:"total_realized"`
	TotalUnrealized decimal.Decimal                        `json:"total_unrealized"`
}

// response is what the advisory service sends back.
type response struct {
	Suggestions []Suggestion `json:"suggestions"`
}

func buildRequest(snap domain.ExchangeSnapshot) request {
	totalRealized := decimal.Zero
	totalUnrealized := decimal.Zero
	for _, pnl := range snap.Ledger.PnL {
		totalRealized = totalRealized.Add(pnl.Realized)
		totalUnrealized = totalUnrealized.Add(pnl.Unrealized)
	}
	return request{
		Status:          snap.Status,
		Match:           snap.Match,
		Books:           snap.Books,
		Positions:       snap.Ledger.Positions,
		TotalRealized:   totalRealized,
		TotalUnrealized: totalUnrealized,
	}
}

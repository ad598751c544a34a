package domain

import "github.com/shopspring/decimal"

// PnL is the per-market profit-and-loss pair. Realized changes only on trade
// execution and runs as a raw signed cash-flow accumulator: a BUY is a cash
// outflow, a SELL an inflow. Unrealized is always derivable from realized,
// position and a mark price, and is zero whenever the position is flat.
type PnL struct {
	Realized   decimal.Decimal `json:"realized"`
	Unrealized decimal.Decimal `json:"unrealized"`
}

// LedgerState is the persistable part of the ledger: net position and PnL
// per market. Everything else the exchange holds is transient.
type LedgerState struct {
	Positions map[MarketID]int64 `json:"positions"`
	PnL       map[MarketID]PnL   `json:"pnl"`
}

// NewLedgerState returns a flat ledger covering every market.
func NewLedgerState() LedgerState {
	st := LedgerState{
		Positions: make(map[MarketID]int64, len(Markets)),
		PnL:       make(map[MarketID]PnL, len(Markets)),
	}
	for _, id := range MarketIDs() {
		st.Positions[id] = 0
		st.PnL[id] = PnL{Realized: decimal.Zero, Unrealized: decimal.Zero}
	}
	return st
}

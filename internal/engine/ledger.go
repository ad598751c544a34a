package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cricket_go/internal/domain"
)

// Ledger tracks the user's net position and PnL per market. It is the only
// writer of that state; trades are the only events that move positions and
// realized PnL, and mark-to-market passes are the only thing that moves
// unrealized PnL.
//
// Realized PnL is deliberately a signed cash-flow accumulator (BUY executions
// subtract price*volume, SELL executions add it), not a matched-cost-basis
// gain/loss figure. Unrealized is realized plus position valued at the mark.
type Ledger struct {
	state domain.LedgerState
}

// NewLedger returns a flat ledger.
func NewLedger() *Ledger {
	return &Ledger{state: domain.NewLedgerState()}
}

// NewLedgerFrom restores a ledger from persisted state. Markets missing from
// the input start flat.
func NewLedgerFrom(st domain.LedgerState) *Ledger {
	l := NewLedger()
	for id := range domain.Markets {
		if v, ok := st.Positions[id]; ok {
			l.state.Positions[id] = v
		}
		if p, ok := st.PnL[id]; ok {
			l.state.PnL[id] = p
		}
	}
	return l
}

// ApplySubmission records the effect of one order submission: the signed
// submitted volume minus the signed volume of every fill it generated moves
// the position (the unmatched remainder now resting on the book), and each
// fill moves realized PnL by -sign(side) * price * volume.
func (l *Ledger) ApplySubmission(market domain.MarketID, side domain.Side, submittedVolume int64, trades []domain.Trade) {
	sign := side.Sign()

	positionDelta := sign * submittedVolume
	pnl := l.state.PnL[market]
	for _, t := range trades {
		if t.Volume <= 0 {
			panic(fmt.Sprintf("LEDGER_INVARIANT_VIOLATION: trade %d has volume %d", t.ID, t.Volume))
		}
		positionDelta -= sign * t.Volume
		cashFlow := decimal.NewFromInt(sign * t.Price * t.Volume)
		pnl.Realized = pnl.Realized.Sub(cashFlow)
	}

	l.state.Positions[market] += positionDelta
	l.state.PnL[market] = pnl
}

// MarkToMarket revalues every market. marks resolves the mark price for a
// market; when it reports no mark, that market's unrealized PnL is left
// unchanged. A flat position always values to zero.
func (l *Ledger) MarkToMarket(marks func(domain.MarketID) (decimal.Decimal, bool)) {
	for _, id := range domain.MarketIDs() {
		pnl := l.state.PnL[id]
		position := l.state.Positions[id]

		if position == 0 {
			pnl.Unrealized = decimal.Zero
			l.state.PnL[id] = pnl
			continue
		}

		mark, ok := marks(id)
		if !ok {
			continue
		}
		pnl.Unrealized = pnl.Realized.Add(decimal.NewFromInt(position).Mul(mark))
		l.state.PnL[id] = pnl
	}
}

// Position returns the net position for a market.
func (l *Ledger) Position(id domain.MarketID) int64 {
	return l.state.Positions[id]
}

// PnL returns the PnL pair for a market.
func (l *Ledger) PnL(id domain.MarketID) domain.PnL {
	return l.state.PnL[id]
}

// State returns a deep copy of the ledger state, safe to hand out.
func (l *Ledger) State() domain.LedgerState {
	st := domain.NewLedgerState()
	for id, v := range l.state.Positions {
		st.Positions[id] = v
	}
	for id, p := range l.state.PnL {
		st.PnL[id] = p
	}
	return st
}

package event

import (
	"cricket_go/internal/domain"
)

// Type defines the type of event.
type Type uint16

const (
	EvBallTick Type = iota + 1
	EvPlaceOrder
	EvStartMatch
	EvReset
	EvUpdateSettings
	EvMarkToMarket
	EvSnapshot
)

// Event is the interface for everything the sequencer processes. Commands
// carry a reply channel so callers get a synchronous answer; the sequencer
// itself stamps the processing sequence, so events carry none.
type Event interface {
	GetType() Type
}

// BallTickEvent advances the match by one simulated delivery.
type BallTickEvent struct{}

func (BallTickEvent) GetType() Type { return EvBallTick }

// MarkEvent triggers a mark-to-market pass over every market.
type MarkEvent struct{}

func (MarkEvent) GetType() Type { return EvMarkToMarket }

// OrderRequest is a user order intent.
type OrderRequest struct {
	UserID string
	Market domain.MarketID
	Side   domain.Side
	Price  int64
	Volume int64
}

// OrderResult is the synchronous outcome of a submission: either Err is set
// and nothing entered the book, or Order holds the accepted order (Volume is
// what remains resting, possibly zero) and Trades the generated fills.
type OrderResult struct {
	Order  domain.Order
	Trades []domain.Trade
	Err    error
}

// PlaceOrderEvent submits an order for matching.
type PlaceOrderEvent struct {
	Req   OrderRequest
	Reply chan OrderResult
}

func (PlaceOrderEvent) GetType() Type { return EvPlaceOrder }

// StartMatchEvent moves the match from not_started to in_progress.
type StartMatchEvent struct {
	Reply chan error
}

func (StartMatchEvent) GetType() Type { return EvStartMatch }

// ResetEvent discards all accumulated state except settings and returns the
// match to not_started.
type ResetEvent struct {
	Reply chan struct{}
}

func (ResetEvent) GetType() Type { return EvReset }

// UpdateSettingsEvent swaps in new simulation settings after validation;
// an invalid set is rejected and the prior settings stay in effect.
type UpdateSettingsEvent struct {
	Settings domain.SimulationSettings
	Reply    chan error
}

func (UpdateSettingsEvent) GetType() Type { return EvUpdateSettings }

// SnapshotEvent asks for an atomic read-only view of the whole exchange.
type SnapshotEvent struct {
	Reply chan domain.ExchangeSnapshot
}

func (SnapshotEvent) GetType() Type { return EvSnapshot }

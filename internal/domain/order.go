package domain

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Sign returns +1 for BUY and -1 for SELL.
func (s Side) Sign() int64 {
	if s == SideBuy {
		return 1
	}
	return -1
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Order is a plain limit order. IDs are monotonic counters issued by the
// sequencer, so they double as the time-priority tie-break without depending
// on wall-clock resolution. Volume is the remaining open volume; it is
// decremented by fills and never goes negative.
type Order struct {
	ID             uint64
	UserID         string
	Market         MarketID
	Side           Side
	Price          int64
	Volume         int64
	SubmittedUnixM int64
}

package domain

// Trade is a single execution between an aggressor order and a resting order.
// Price is always the resting order's price. Immutable once created; the
// per-market trade log is append-only.
type Trade struct {
	ID            uint64
	Market        MarketID
	Price         int64
	Volume        int64
	AggressorID   uint64
	RestingID     uint64
	AggressorSide Side
	ExecutedUnixM int64
}

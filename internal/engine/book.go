package engine

import (
	"fmt"
	"sort"

	"cricket_go/internal/domain"
)

// Book is a single market's limit order book. Both sides are kept in
// price-time priority order at all times: buys by descending price, sells by
// ascending price, ties broken by ascending order ID (IDs are monotonic, so
// older orders sort first). The book owns its resting orders exclusively.
//
// This is an append/match-only book: no cancellation or amendment.
type Book struct {
	market domain.Market
	buys   []*domain.Order
	sells  []*domain.Order
}

// NewBook creates an empty book for the given market.
func NewBook(market domain.Market) *Book {
	return &Book{market: market}
}

// Match runs the incoming aggressor against the opposite side of the book
// and returns the generated trades, oldest fill first.
//
// Standard continuous double auction: candidates are walked in price-time
// priority, each trade executes at the resting order's price for
// min(remaining volumes), exhausted resters leave the book, and any
// aggressor remainder is inserted on its own side. Volume is conserved:
// submitted volume = sum of trade volumes + resting remainder.
func (b *Book) Match(aggressor *domain.Order, nextTradeID func() uint64, nowUnixM int64) []domain.Trade {
	var trades []domain.Trade

	resting := b.sells
	if aggressor.Side == domain.SideSell {
		resting = b.buys
	}

	for _, candidate := range resting {
		if aggressor.Volume <= 0 {
			break
		}
		if !crosses(aggressor, candidate) {
			break // sides are price-sorted, nothing further can match
		}

		volume := min64(aggressor.Volume, candidate.Volume)
		trades = append(trades, domain.Trade{
			ID:            nextTradeID(),
			Market:        b.market.ID,
			Price:         candidate.Price, // resting price always wins
			Volume:        volume,
			AggressorID:   aggressor.ID,
			RestingID:     candidate.ID,
			AggressorSide: aggressor.Side,
			ExecutedUnixM: nowUnixM,
		})
		aggressor.Volume -= volume
		candidate.Volume -= volume
	}

	if aggressor.Side == domain.SideBuy {
		b.sells = dropFilled(b.sells)
		if aggressor.Volume > 0 {
			b.insertBuy(aggressor)
		}
	} else {
		b.buys = dropFilled(b.buys)
		if aggressor.Volume > 0 {
			b.insertSell(aggressor)
		}
	}

	b.verifyInvariants()
	return trades
}

// crosses reports whether the aggressor's limit reaches the candidate's price.
func crosses(aggressor, candidate *domain.Order) bool {
	if aggressor.Side == domain.SideBuy {
		return aggressor.Price >= candidate.Price
	}
	return aggressor.Price <= candidate.Price
}

func (b *Book) insertBuy(o *domain.Order) {
	// After all strictly better prices; equal prices keep FIFO order since
	// the incoming ID is the largest yet issued.
	i := sort.Search(len(b.buys), func(i int) bool { return b.buys[i].Price < o.Price })
	b.buys = append(b.buys, nil)
	copy(b.buys[i+1:], b.buys[i:])
	b.buys[i] = o
}

func (b *Book) insertSell(o *domain.Order) {
	i := sort.Search(len(b.sells), func(i int) bool { return b.sells[i].Price > o.Price })
	b.sells = append(b.sells, nil)
	copy(b.sells[i+1:], b.sells[i:])
	b.sells[i] = o
}

func dropFilled(side []*domain.Order) []*domain.Order {
	kept := side[:0]
	for _, o := range side {
		if o.Volume > 0 {
			kept = append(kept, o)
		}
	}
	return kept
}

// BestBid returns the highest resting buy price.
func (b *Book) BestBid() (int64, bool) {
	if len(b.buys) == 0 {
		return 0, false
	}
	return b.buys[0].Price, true
}

// BestAsk returns the lowest resting sell price.
func (b *Book) BestAsk() (int64, bool) {
	if len(b.sells) == 0 {
		return 0, false
	}
	return b.sells[0].Price, true
}

// Depth returns the top maxLevels aggregated price levels per side, best
// prices first.
func (b *Book) Depth(maxLevels int) domain.BookSummary {
	return domain.BookSummary{
		Bids: aggregate(b.buys, maxLevels),
		Asks: aggregate(b.sells, maxLevels),
	}
}

func aggregate(side []*domain.Order, maxLevels int) []domain.BookLevel {
	levels := make([]domain.BookLevel, 0, maxLevels)
	for _, o := range side {
		if n := len(levels); n > 0 && levels[n-1].Price == o.Price {
			levels[n-1].Volume += o.Volume
			continue
		}
		if len(levels) == maxLevels {
			break
		}
		levels = append(levels, domain.BookLevel{Price: o.Price, Volume: o.Volume})
	}
	return levels
}

// Orders returns the number of resting orders on both sides.
func (b *Book) Orders() int {
	return len(b.buys) + len(b.sells)
}

// verifyInvariants halts on book corruption. A crossed book or non-positive
// resting volume after matching is a logic error, not a runtime condition.
func (b *Book) verifyInvariants() {
	for _, o := range append(b.buys[:len(b.buys):len(b.buys)], b.sells...) {
		if o.Volume <= 0 {
			panic(fmt.Sprintf("BOOK_INVARIANT_VIOLATION: %s order %d resting with volume %d",
				b.market.ID, o.ID, o.Volume))
		}
	}
	bid, hasBid := b.BestBid()
	ask, hasAsk := b.BestAsk()
	if hasBid && hasAsk && bid >= ask {
		panic(fmt.Sprintf("BOOK_CROSSED: %s bid %d >= ask %d after matching",
			b.market.ID, bid, ask))
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

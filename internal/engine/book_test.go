package engine

import (
	"testing"

	"cricket_go/internal/domain"
)

type idSource struct {
	next uint64
}

func (s *idSource) alloc() uint64 {
	s.next++
	return s.next
}

func testBook() (*Book, *idSource) {
	return NewBook(domain.Markets[domain.MarketTeamScore]), &idSource{}
}

func order(id uint64, side domain.Side, price, volume int64) *domain.Order {
	return &domain.Order{
		ID:     id,
		UserID: "user",
		Market: domain.MarketTeamScore,
		Side:   side,
		Price:  price,
		Volume: volume,
	}
}

func TestBook_RestWhenNoOpposite(t *testing.T) {
	book, ids := testBook()

	trades := book.Match(order(1, domain.SideBuy, 50, 10), ids.alloc, 1)
	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(trades))
	}

	bid, ok := book.BestBid()
	if !ok || bid != 50 {
		t.Fatalf("best bid = %d (%v), want 50", bid, ok)
	}
	depth := book.Depth(5)
	if len(depth.Bids) != 1 || depth.Bids[0].Volume != 10 {
		t.Fatalf("bid depth = %+v, want one level of 10", depth.Bids)
	}
}

func TestBook_PartialFillAtRestingPrice(t *testing.T) {
	book, ids := testBook()

	// Resting SELL {price:50, volume:10}, then incoming BUY {price:55, volume:4}.
	book.Match(order(1, domain.SideSell, 50, 10), ids.alloc, 1)
	trades := book.Match(order(2, domain.SideBuy, 55, 4), ids.alloc, 2)

	if len(trades) != 1 {
		t.Fatalf("expected one trade, got %d", len(trades))
	}
	if trades[0].Price != 50 {
		t.Errorf("trade price = %d, want the resting order's 50", trades[0].Price)
	}
	if trades[0].Volume != 4 {
		t.Errorf("trade volume = %d, want 4", trades[0].Volume)
	}

	ask, ok := book.BestAsk()
	if !ok || ask != 50 {
		t.Fatalf("best ask = %d (%v), want 50", ask, ok)
	}
	depth := book.Depth(5)
	if depth.Asks[0].Volume != 6 {
		t.Errorf("resting sell volume = %d, want 6", depth.Asks[0].Volume)
	}
	if len(depth.Bids) != 0 {
		t.Errorf("fully consumed aggressor must not rest, bids = %+v", depth.Bids)
	}
}

func TestBook_PriceTimePriority(t *testing.T) {
	book, ids := testBook()

	// Two sells at the same price; the lower ID is the older order.
	book.Match(order(1, domain.SideSell, 50, 10), ids.alloc, 1)
	book.Match(order(2, domain.SideSell, 50, 10), ids.alloc, 2)

	trades := book.Match(order(3, domain.SideBuy, 50, 4), ids.alloc, 3)
	if len(trades) != 1 {
		t.Fatalf("expected one trade, got %d", len(trades))
	}
	if trades[0].RestingID != 1 {
		t.Errorf("filled resting order %d, want the older order 1", trades[0].RestingID)
	}
}

func TestBook_PricePriorityBeatsTime(t *testing.T) {
	book, ids := testBook()

	// Older order at a worse price, newer order at a better price.
	book.Match(order(1, domain.SideSell, 52, 5), ids.alloc, 1)
	book.Match(order(2, domain.SideSell, 50, 5), ids.alloc, 2)

	trades := book.Match(order(3, domain.SideBuy, 55, 8), ids.alloc, 3)
	if len(trades) != 2 {
		t.Fatalf("expected two trades, got %d", len(trades))
	}
	if trades[0].Price != 50 || trades[1].Price != 52 {
		t.Errorf("fill prices = %d,%d, want best price 50 first then 52",
			trades[0].Price, trades[1].Price)
	}
}

func TestBook_SellAggressorGetsPriceImprovement(t *testing.T) {
	book, ids := testBook()

	book.Match(order(1, domain.SideBuy, 60, 5), ids.alloc, 1)
	trades := book.Match(order(2, domain.SideSell, 55, 5), ids.alloc, 2)

	if len(trades) != 1 {
		t.Fatalf("expected one trade, got %d", len(trades))
	}
	if trades[0].Price != 60 {
		t.Errorf("trade price = %d, want the resting bid's 60", trades[0].Price)
	}
	if book.Orders() != 0 {
		t.Errorf("book should be empty, has %d orders", book.Orders())
	}
}

func TestBook_VolumeConservation(t *testing.T) {
	book, ids := testBook()

	book.Match(order(1, domain.SideSell, 48, 3), ids.alloc, 1)
	book.Match(order(2, domain.SideSell, 50, 4), ids.alloc, 2)
	book.Match(order(3, domain.SideSell, 52, 5), ids.alloc, 3)

	incoming := order(4, domain.SideBuy, 50, 10)
	trades := book.Match(incoming, ids.alloc, 4)

	var filled int64
	for _, tr := range trades {
		filled += tr.Volume
	}
	// Submitted volume = filled + remainder resting on the book.
	if filled+incoming.Volume != 10 {
		t.Errorf("volume not conserved: filled %d + resting %d != 10", filled, incoming.Volume)
	}
	if filled != 7 {
		t.Errorf("filled = %d, want 7 (both compatible sells)", filled)
	}

	// The 52 sell was not compatible and must still rest; the 3-lot
	// remainder rests as a bid at 50 without crossing it.
	bid, _ := book.BestBid()
	ask, _ := book.BestAsk()
	if bid != 50 || ask != 52 {
		t.Errorf("best bid/ask = %d/%d, want 50/52", bid, ask)
	}
}

func TestBook_NeverCrossedAfterMatch(t *testing.T) {
	book, ids := testBook()

	steps := []*domain.Order{
		order(1, domain.SideBuy, 45, 5),
		order(2, domain.SideSell, 55, 5),
		order(3, domain.SideBuy, 55, 2),
		order(4, domain.SideSell, 45, 2),
		order(5, domain.SideBuy, 50, 1),
		order(6, domain.SideSell, 50, 4),
	}
	for i, o := range steps {
		book.Match(o, ids.alloc, int64(i))
		bid, hasBid := book.BestBid()
		ask, hasAsk := book.BestAsk()
		if hasBid && hasAsk && bid >= ask {
			t.Fatalf("book crossed after step %d: bid %d >= ask %d", i, bid, ask)
		}
	}
}

func TestBook_DepthAggregatesLevels(t *testing.T) {
	book, ids := testBook()

	book.Match(order(1, domain.SideSell, 50, 3), ids.alloc, 1)
	book.Match(order(2, domain.SideSell, 50, 4), ids.alloc, 2)
	book.Match(order(3, domain.SideSell, 51, 2), ids.alloc, 3)

	depth := book.Depth(1)
	if len(depth.Asks) != 1 {
		t.Fatalf("ask levels = %d, want 1", len(depth.Asks))
	}
	if depth.Asks[0].Price != 50 || depth.Asks[0].Volume != 7 {
		t.Errorf("top ask level = %+v, want 7 @ 50", depth.Asks[0])
	}
}

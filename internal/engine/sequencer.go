package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"cricket_go/internal/domain"
	"cricket_go/internal/event"
	"cricket_go/internal/infra"
)

const (
	// markInterval is how often open positions are revalued.
	markInterval = 5 * time.Second

	// historyLimit caps the rolling ball history.
	historyLimit = 30

	// snapshotDepth is how many aggregated levels per side go into a
	// snapshot's book summaries.
	snapshotDepth = 5
)

// StateStore persists the state that survives a restart: the ledger and the
// simulation settings. May be nil (tests).
type StateStore interface {
	SaveLedger(domain.LedgerState) error
	SaveSettings(domain.SimulationSettings) error
}

// Sequencer is the core single-threaded event processor. It exclusively owns
// every piece of mutable exchange state: the per-market books and trade
// logs, the ledger, the match state and the simulation settings. All
// interaction goes through the inbox, so every transition is atomic with
// respect to every other; nothing ever observes a half-applied update.
type Sequencer struct {
	inbox    chan event.Event
	books    map[domain.MarketID]*Book
	trades   map[domain.MarketID][]domain.Trade
	ledger   *Ledger
	match    domain.MatchState
	status   domain.MatchStatus
	settings domain.SimulationSettings
	sim      *Simulator
	history  []domain.BallRecord

	nextSeq     uint64
	nextOrderID uint64
	nextTradeID uint64

	store StateStore

	ballTicker *time.Ticker
	markTicker *time.Ticker
}

// NewSequencer creates a new sequencer instance. The ledger state is the
// restored persisted state (flat for a fresh install); books, trades and
// match state always start empty.
func NewSequencer(inboxSize int, settings domain.SimulationSettings, ledgerState domain.LedgerState, store StateStore, seed int64) *Sequencer {
	s := &Sequencer{
		inbox:       make(chan event.Event, inboxSize),
		books:       make(map[domain.MarketID]*Book, len(domain.Markets)),
		trades:      make(map[domain.MarketID][]domain.Trade, len(domain.Markets)),
		ledger:      NewLedgerFrom(ledgerState),
		match:       domain.NewMatchState(),
		status:      domain.MatchNotStarted,
		settings:    settings,
		sim:         NewSimulator(seed),
		nextSeq:     1,
		nextOrderID: 1,
		nextTradeID: 1,
		store:       store,
	}
	for id, m := range domain.Markets {
		s.books[id] = NewBook(m)
	}
	return s
}

// Inbox returns the event channel. External callers send events here.
func (s *Sequencer) Inbox() chan<- event.Event {
	return s.inbox
}

// Run starts the main event loop. This MUST be run in a single goroutine.
func (s *Sequencer) Run(ctx context.Context) {
	slog.Info("Sequencer started (Single-Thread Hotpath)")

	defer func() {
		if r := recover(); r != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", r))
			s.DumpState("panic_dump.json")
			panic(fmt.Sprintf("HALTED: %v", r))
		}
	}()

	s.markTicker = time.NewTicker(markInterval)
	defer s.markTicker.Stop()
	defer s.stopBallTicker()

	for {
		var ballC <-chan time.Time
		if s.ballTicker != nil {
			ballC = s.ballTicker.C
		}

		select {
		case <-ctx.Done():
			slog.Info("Sequencer stopping...")
			return
		case ev := <-s.inbox:
			s.processEvent(ev)
		case <-ballC:
			s.processEvent(event.BallTickEvent{})
		case <-s.markTicker.C:
			s.processEvent(event.MarkEvent{})
		}
	}
}

// processEvent applies a single event to the exchange state. Exported only
// through Run and tests drive it via the inbox; each processed event gets
// the next sequence number.
func (s *Sequencer) processEvent(ev event.Event) {
	switch e := ev.(type) {
	case event.BallTickEvent:
		s.simulateBall()
	case event.MarkEvent:
		s.markToMarket()
	case event.PlaceOrderEvent:
		e.Reply <- s.placeOrder(e.Req)
	case event.StartMatchEvent:
		e.Reply <- s.startMatch()
	case event.ResetEvent:
		s.reset()
		e.Reply <- struct{}{}
	case event.UpdateSettingsEvent:
		e.Reply <- s.updateSettings(e.Settings)
	case event.SnapshotEvent:
		e.Reply <- s.snapshot()
	default:
		slog.Warn("Unknown event type", slog.Any("type", ev.GetType()))
	}

	s.nextSeq++
}

func (s *Sequencer) startMatch() error {
	if s.status != domain.MatchNotStarted {
		return domain.ErrMatchAlreadyStarted
	}
	s.status = domain.MatchInProgress
	s.match = domain.NewMatchState()
	s.startBallTicker()
	slog.Info("Match started",
		slog.Float64("ball_interval_sec", s.settings.BallIntervalSec),
		slog.Int("overs", domain.OversPerMatch))
	return nil
}

func (s *Sequencer) reset() {
	for id, m := range domain.Markets {
		s.books[id] = NewBook(m)
	}
	s.trades = make(map[domain.MarketID][]domain.Trade, len(domain.Markets))
	s.ledger = NewLedger()
	s.match = domain.NewMatchState()
	s.status = domain.MatchNotStarted
	s.history = nil
	s.stopBallTicker()
	s.persistLedger()
	slog.Info("Match reset, all accumulated state discarded")
}

func (s *Sequencer) updateSettings(settings domain.SimulationSettings) error {
	if err := settings.Validate(); err != nil {
		return err // prior settings remain in effect
	}
	s.settings = settings
	if s.ballTicker != nil {
		s.ballTicker.Reset(s.ballInterval())
	}
	s.persistSettings()
	slog.Info("Simulation settings updated",
		slog.Float64("ball_interval_sec", settings.BallIntervalSec))
	return nil
}

func (s *Sequencer) simulateBall() {
	if s.status != domain.MatchInProgress {
		return
	}

	outcome := s.sim.NextOutcome(s.settings.Probabilities)
	s.match = s.match.ApplyOutcome(outcome)

	s.history = append(s.history, domain.BallRecord{
		BallNumber: s.match.Ball,
		Outcome:    outcome,
		TsUnixM:    time.Now().UnixMicro(),
	})
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}

	infra.GlobalMetrics.RecordBall()
	slog.Debug("Ball simulated",
		slog.String("outcome", string(outcome)),
		slog.Int("ball", s.match.Ball),
		slog.Int64("team_score", s.match.TeamScore))

	if s.match.Complete() {
		s.status = domain.MatchFinished
		s.stopBallTicker()
		// Close out open positions against settlement values right away.
		s.markToMarket()
		slog.Info("Match finished",
			slog.Int64("team_score", s.match.TeamScore),
			slog.Int64("wickets", s.match.Wickets))
	}
}

func (s *Sequencer) placeOrder(req event.OrderRequest) event.OrderResult {
	start := time.Now()

	if err := s.validateOrder(req); err != nil {
		infra.GlobalMetrics.RecordOrderRejected()
		return event.OrderResult{Err: err}
	}

	order := domain.Order{
		ID:             s.nextOrderID,
		UserID:         req.UserID,
		Market:         req.Market,
		Side:           req.Side,
		Price:          req.Price,
		Volume:         req.Volume,
		SubmittedUnixM: start.UnixMicro(),
	}
	s.nextOrderID++

	trades := s.books[req.Market].Match(&order, s.allocTradeID, start.UnixMicro())
	s.trades[req.Market] = append(s.trades[req.Market], trades...)
	s.ledger.ApplySubmission(req.Market, req.Side, req.Volume, trades)

	if len(trades) > 0 {
		infra.GlobalMetrics.RecordTrades(len(trades))
		s.persistLedger()
	}
	infra.GlobalMetrics.RecordOrderAccepted(time.Since(start).Nanoseconds())

	slog.Info("Order processed",
		slog.Uint64("order_id", order.ID),
		slog.String("market", string(req.Market)),
		slog.String("side", string(req.Side)),
		slog.Int64("price", req.Price),
		slog.Int64("resting", order.Volume),
		slog.Int("trades", len(trades)))

	return event.OrderResult{Order: order, Trades: trades}
}

func (s *Sequencer) validateOrder(req event.OrderRequest) error {
	if s.status != domain.MatchInProgress {
		return domain.ErrMatchNotLive
	}
	market, ok := domain.Markets[req.Market]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownMarket, req.Market)
	}
	if req.Volume <= 0 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidVolume, req.Volume)
	}
	if !market.ValidPrice(req.Price) {
		return fmt.Errorf("%w: %d not in [%d,%d]",
			domain.ErrPriceOutOfRange, req.Price, market.MinPrice, market.MaxPrice)
	}
	return nil
}

// markToMarket revalues every open position. Mark price resolution: a
// finished match settles to the match state's final value; otherwise the mid
// of best bid/ask, or whichever single side exists; with an empty book the
// previous unrealized value stands.
func (s *Sequencer) markToMarket() {
	s.ledger.MarkToMarket(func(id domain.MarketID) (decimal.Decimal, bool) {
		if s.status == domain.MatchFinished {
			return decimal.NewFromInt(s.match.SettlementValue(id)), true
		}

		book := s.books[id]
		bid, hasBid := book.BestBid()
		ask, hasAsk := book.BestAsk()
		switch {
		case hasBid && hasAsk:
			return decimal.NewFromInt(bid + ask).Div(decimal.NewFromInt(2)), true
		case hasBid:
			return decimal.NewFromInt(bid), true
		case hasAsk:
			return decimal.NewFromInt(ask), true
		default:
			return decimal.Zero, false
		}
	})
	infra.GlobalMetrics.RecordMark()
	s.persistLedger()
}

func (s *Sequencer) snapshot() domain.ExchangeSnapshot {
	books := make(map[domain.MarketID]domain.BookSummary, len(s.books))
	for id, book := range s.books {
		books[id] = book.Depth(snapshotDepth)
	}
	history := make([]domain.BallRecord, len(s.history))
	copy(history, s.history)

	return domain.ExchangeSnapshot{
		Seq:         s.nextSeq,
		Status:      s.status,
		Match:       s.match,
		Settings:    s.settings,
		Books:       books,
		Ledger:      s.ledger.State(),
		BallHistory: history,
	}
}

func (s *Sequencer) allocTradeID() uint64 {
	id := s.nextTradeID
	s.nextTradeID++
	return id
}

func (s *Sequencer) ballInterval() time.Duration {
	return time.Duration(s.settings.BallIntervalSec * float64(time.Second))
}

func (s *Sequencer) startBallTicker() {
	if s.ballTicker != nil {
		s.ballTicker.Reset(s.ballInterval())
		return
	}
	s.ballTicker = time.NewTicker(s.ballInterval())
}

func (s *Sequencer) stopBallTicker() {
	if s.ballTicker != nil {
		s.ballTicker.Stop()
		s.ballTicker = nil
	}
}

// persistLedger writes positions and PnL through the store. Storage is a
// collaborator, not part of exchange correctness: failures are logged and
// the loop keeps going.
func (s *Sequencer) persistLedger() {
	if s.store == nil {
		return
	}
	if err := s.store.SaveLedger(s.ledger.State()); err != nil {
		slog.Error("Failed to persist ledger", slog.Any("error", err))
	}
}

// persistSettings writes the accepted settings through the store so a restart
// picks them up instead of the startup set. Same failure policy as the ledger.
func (s *Sequencer) persistSettings() {
	if s.store == nil {
		return
	}
	if err := s.store.SaveSettings(s.settings); err != nil {
		slog.Error("Failed to persist settings", slog.Any("error", err))
	}
}

// DumpState writes the entire internal state to a file (for post-mortem).
func (s *Sequencer) DumpState(filename string) {
	slog.Info("Dumping internal state...", slog.String("file", filename))

	data := struct {
		NextSeq uint64                  `json:"next_seq"`
		Status  domain.MatchStatus      `json:"status"`
		Match   domain.MatchState       `json:"match"`
		Ledger  domain.LedgerState      `json:"ledger"`
		Books   map[domain.MarketID]int `json:"resting_orders"`
	}{
		NextSeq: s.nextSeq,
		Status:  s.status,
		Match:   s.match,
		Ledger:  s.ledger.State(),
		Books:   make(map[domain.MarketID]int, len(s.books)),
	}
	for id, book := range s.books {
		data.Books[id] = book.Orders()
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	if err := os.WriteFile(filename, b, 0644); err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}

// ============================================================================
// Synchronous wrappers. These are what cmd and the advisor loop use; they
// block until the sequencer has fully applied the command.
// ============================================================================

// PlaceOrder submits an order and waits for the matching outcome.
func (s *Sequencer) PlaceOrder(ctx context.Context, req event.OrderRequest) event.OrderResult {
	reply := make(chan event.OrderResult, 1)
	select {
	case s.inbox <- event.PlaceOrderEvent{Req: req, Reply: reply}:
	case <-ctx.Done():
		return event.OrderResult{Err: ctx.Err()}
	}
	select {
	case res := <-reply:
		return res
	case <-ctx.Done():
		return event.OrderResult{Err: ctx.Err()}
	}
}

// StartMatch begins the simulated match.
func (s *Sequencer) StartMatch(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case s.inbox <- event.StartMatchEvent{Reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset discards all accumulated state except settings.
func (s *Sequencer) Reset(ctx context.Context) error {
	reply := make(chan struct{}, 1)
	select {
	case s.inbox <- event.ResetEvent{Reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateSettings validates and applies new simulation settings.
func (s *Sequencer) UpdateSettings(ctx context.Context, settings domain.SimulationSettings) error {
	reply := make(chan error, 1)
	select {
	case s.inbox <- event.UpdateSettingsEvent{Settings: settings, Reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns an atomic view of the exchange.
func (s *Sequencer) Snapshot(ctx context.Context) (domain.ExchangeSnapshot, error) {
	reply := make(chan domain.ExchangeSnapshot, 1)
	select {
	case s.inbox <- event.SnapshotEvent{Reply: reply}:
	case <-ctx.Done():
		return domain.ExchangeSnapshot{}, ctx.Err()
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return domain.ExchangeSnapshot{}, ctx.Err()
	}
}

package position

import (
	"fmt"
	"log"
	"sync"
	"time"

	"TrendSentinel/internal/model"
)

// Book tracks open paper positions with concurrency safety. All mutations
// persist the state file so a restart keeps the live positions.
type Book struct {
	mu       sync.Mutex
	state    *model.BookState
	filePath string

	maxOpen        int
	maxDailyOrders int
	lotSize        int
	cooldown       time.Duration
}

// NewBook creates a Book, loading or initializing state from disk.
func NewBook(filePath string, maxOpen, maxDailyOrders, lotSize int, cooldown time.Duration) (*Book, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	if lotSize <= 0 {
		lotSize = 1
	}
	b := &Book{
		state:          state,
		filePath:       filePath,
		maxOpen:        maxOpen,
		maxDailyOrders: maxDailyOrders,
		lotSize:        lotSize,
		cooldown:       cooldown,
	}
	b.rollDay(time.Now())
	if err := b.save(); err != nil {
		return nil, err
	}
	return b, nil
}

// CanEnter reports whether a new position in symbol is allowed right now.
// The reason string explains a refusal. This is a preview: the same gates
// are re-checked inside Open, which is the authoritative one under
// concurrent scans.
func (b *Book) CanEnter(symbol string, now time.Time) (bool, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canEnterLocked(symbol, now)
}

// canEnterLocked evaluates the entry gates. Callers hold b.mu.
func (b *Book) canEnterLocked(symbol string, now time.Time) (bool, string) {
	if _, open := b.state.Open[symbol]; open {
		return false, "position already open"
	}
	if len(b.state.Open) >= b.maxOpen {
		return false, fmt.Sprintf("max positions reached (%d/%d)", len(b.state.Open), b.maxOpen)
	}
	if b.state.OrdersToday >= b.maxDailyOrders {
		return false, fmt.Sprintf("daily order limit reached (%d/%d)", b.state.OrdersToday, b.maxDailyOrders)
	}
	if exitAt, ok := b.state.LastExitAt[symbol]; ok {
		if since := now.Sub(exitAt); since < b.cooldown {
			return false, fmt.Sprintf("cooldown active (%.1f min remaining)", (b.cooldown - since).Minutes())
		}
	}
	return true, ""
}

// Open records a new paper position from an entry signal. The entry gates
// (duplicate symbol, max open positions, daily order cap, cooldown) are
// enforced here, inside the lock, so overlapping scans cannot both slip past
// a CanEnter preview and exceed the limits.
func (b *Book) Open(sig *model.TradeSignal, now time.Time) (*model.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ok, reason := b.canEnterLocked(sig.Symbol, now); !ok {
		return nil, fmt.Errorf("entry refused for %s: %s", sig.Symbol, reason)
	}
	pos := &model.Position{
		Symbol:       sig.Symbol,
		Side:         sig.Side,
		EntryPrice:   sig.EntryPrice,
		StopLoss:     sig.StopLoss,
		TrailingStop: sig.StopLoss,
		Target:       sig.Target,
		Lots:         sig.Lots,
		Quantity:     sig.Lots * b.lotSize,
		HighestPrice: sig.EntryPrice,
		LowestPrice:  sig.EntryPrice,
		EntryTime:    now,
	}
	b.state.Open[sig.Symbol] = pos
	b.state.OrdersToday++
	delete(b.state.LastExitAt, sig.Symbol)

	if err := b.save(); err != nil {
		log.Printf("[ERROR] save book state: %v", err)
	}
	out := *pos
	return &out, nil
}

// Get returns a copy of the open position for symbol.
func (b *Book) Get(symbol string) (model.Position, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pos, ok := b.state.Open[symbol]
	if !ok {
		return model.Position{}, false
	}
	return *pos, true
}

// Positions returns copies of all open positions.
func (b *Book) Positions() []model.Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Position, 0, len(b.state.Open))
	for _, pos := range b.state.Open {
		out = append(out, *pos)
	}
	return out
}

// UpdateTrailing tightens the trailing stop and extreme-price marks for an
// open position.
func (b *Book) UpdateTrailing(symbol string, newStop, price float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos, ok := b.state.Open[symbol]
	if !ok {
		return
	}
	pos.TrailingStop = newStop
	if price > pos.HighestPrice {
		pos.HighestPrice = price
	}
	if price < pos.LowestPrice {
		pos.LowestPrice = price
	}
	if err := b.save(); err != nil {
		log.Printf("[ERROR] save book state: %v", err)
	}
}

// Close exits an open position at price and records the round trip.
func (b *Book) Close(symbol string, price float64, exitType model.ExitType, now time.Time) (model.ClosedTrade, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos, ok := b.state.Open[symbol]
	if !ok {
		return model.ClosedTrade{}, fmt.Errorf("no open position for %s", symbol)
	}
	pnl := (price - pos.EntryPrice) * float64(pos.Quantity)
	if pos.Side == model.SideShort {
		pnl = -pnl
	}
	trade := model.ClosedTrade{
		Symbol:     symbol,
		Side:       pos.Side,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  price,
		Quantity:   pos.Quantity,
		PnL:        pnl,
		ExitType:   exitType,
		EntryTime:  pos.EntryTime,
		ExitTime:   now,
	}
	delete(b.state.Open, symbol)
	b.state.Closed = append(b.state.Closed, trade)
	b.state.LastExitAt[symbol] = now
	b.state.RealizedPnLToday += pnl

	if err := b.save(); err != nil {
		log.Printf("[ERROR] save book state: %v", err)
	}
	return trade, nil
}

// Snapshot returns a copy of the full book state.
func (b *Book) Snapshot() model.BookState {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := *b.state
	out.Open = make(map[string]*model.Position, len(b.state.Open))
	for k, v := range b.state.Open {
		cp := *v
		out.Open[k] = &cp
	}
	out.Closed = append([]model.ClosedTrade(nil), b.state.Closed...)
	return out
}

// ResetDay clears the daily counters when the trading day changes. Safe to
// call repeatedly; only the first call of a new day does anything.
func (b *Book) ResetDay(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rollDay(now) {
		if err := b.save(); err != nil {
			log.Printf("[ERROR] save book state: %v", err)
		}
	}
}

func (b *Book) rollDay(now time.Time) bool {
	day := now.Format("2006-01-02")
	if b.state.TradingDay == day {
		return false
	}
	b.state.TradingDay = day
	b.state.OrdersToday = 0
	b.state.RealizedPnLToday = 0
	b.state.Closed = nil
	b.state.LastExitAt = make(map[string]time.Time)
	return true
}

func (b *Book) save() error {
	return SaveState(b.filePath, b.state)
}

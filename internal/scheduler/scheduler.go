package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/indicator"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/position"
	"TrendSentinel/internal/recorder"
	"TrendSentinel/internal/strategy"

	"github.com/robfig/cron/v3"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Book      *position.Book
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Entry     strategy.Params
	Exit      strategy.ExitParams
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, book *position.Book,
	tn *notifier.TelegramNotifier, rec recorder.Recorder, entry strategy.Params, exit strategy.ExitParams) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Book:      book,
		Notifier:  tn,
		Recorder:  rec,
		Entry:     entry,
		Exit:      exit,
		Ctx:       ctx,
	}
}

// RegisterAll registers the scan, square-off, summary and day-reset tasks.
func (s *Scheduler) RegisterAll(scanCron, squareOffCron, summaryCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if _, err := s.Cron.AddFunc(squareOffCron, s.squareOffTask); err != nil {
		return fmt.Errorf("register square-off task: %w", err)
	}
	if _, err := s.Cron.AddFunc(summaryCron, s.summaryTask); err != nil {
		return fmt.Errorf("register summary task: %w", err)
	}
	// Day reset: every day 00:05
	if _, err := s.Cron.AddFunc("0 5 0 * * *", func() {
		s.Book.ResetDay(time.Now())
		log.Println("[INFO] trading day reset")
	}); err != nil {
		return fmt.Errorf("register day reset: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the scan task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

// scanTask fetches the watchlist, records the engine output, manages exits on
// open positions and then evaluates fresh entries.
func (s *Scheduler) scanTask() {
	log.Println("[INFO] running scan")
	snaps := s.Collector.ScanAll(s.Ctx)

	var recs []*recorder.ScanRecord
	latest := make(map[string]*collector.Snapshot, len(snaps))
	for _, snap := range snaps {
		if snap.Err != nil {
			continue
		}
		latest[snap.Symbol] = snap
		if pt, _, err := indicator.LatestValid(snap.Points); err == nil {
			recs = append(recs, &recorder.ScanRecord{
				Symbol:       snap.Symbol,
				Close:        snap.Series.LastClose(),
				TR:           pt.TR,
				ATR:          pt.ATR,
				LongStop:     pt.LongStop,
				ShortStop:    pt.ShortStop,
				Trend:        int(pt.Trend),
				Signal:       string(pt.Signal),
				StopLoss:     pt.StopLoss,
				StopDistance: pt.StopDistance,
				RiskPercent:  pt.RiskPercent,
			})
		}
	}
	if len(recs) > 0 {
		if err := s.Recorder.RecordScan(recs); err != nil {
			log.Printf("[ERROR] record scan: %v", err)
		}
	}

	now := time.Now()
	s.manageExits(latest, now)
	s.evaluateEntries(latest, now)
}

// manageExits trails and closes open positions against the latest scan.
func (s *Scheduler) manageExits(latest map[string]*collector.Snapshot, now time.Time) {
	for _, pos := range s.Book.Positions() {
		snap, ok := latest[pos.Symbol]
		if !ok {
			continue
		}
		price := snap.Series.LastClose()
		if price <= 0 {
			continue
		}

		if pt, _, err := indicator.LatestValid(snap.Points); err == nil {
			if trail, moved := strategy.TrailFromPoint(&pos, pt); moved {
				s.Book.UpdateTrailing(pos.Symbol, trail, price)
				pos.TrailingStop = trail
			}
		}

		dec := strategy.CheckExit(&pos, price, now, s.Exit)
		if !dec.Exit {
			continue
		}
		s.closePosition(pos.Symbol, price, dec.Type, dec.Reason, now)
	}
}

// evaluateEntries opens new positions wherever a fresh flip passed the book's
// entry gates and the risk limits.
func (s *Scheduler) evaluateEntries(latest map[string]*collector.Snapshot, now time.Time) {
	for _, snap := range latest {
		sig := strategy.EvaluateEntry(snap.Series, snap.Points, s.Entry)
		if sig == nil {
			continue
		}
		// Open enforces the entry gates atomically; a refusal is routine.
		pos, err := s.Book.Open(sig, now)
		if err != nil {
			log.Printf("[INFO] %v", err)
			continue
		}
		log.Printf("[INFO] opened %s %s @ %.2f, SL %.2f, qty %d",
			pos.Side, pos.Symbol, pos.EntryPrice, pos.StopLoss, pos.Quantity)
		s.trySend(notifier.FormatSignalAlert(sig))
		if err := s.Recorder.RecordSignal(sig); err != nil {
			log.Printf("[ERROR] record signal: %v", err)
		}
	}
}

// squareOffTask closes every open position at the last traded price.
func (s *Scheduler) squareOffTask() {
	positions := s.Book.Positions()
	if len(positions) == 0 {
		return
	}
	log.Printf("[INFO] square off: closing %d positions", len(positions))
	now := time.Now()
	for _, pos := range positions {
		price, err := s.Collector.Fetcher.FetchLTP(pos.Symbol)
		if err != nil || price <= 0 {
			log.Printf("[WARN] square off %s: LTP unavailable (%v), using entry price", pos.Symbol, err)
			price = pos.EntryPrice
		}
		s.closePosition(pos.Symbol, price, model.ExitSquareOff, "time-based square off", now)
	}
}

// summaryTask sends the end of day report without a notification ping.
func (s *Scheduler) summaryTask() {
	state := s.Book.Snapshot()
	report := notifier.FormatDailySummary(state.TradingDay, state.Closed, state.RealizedPnLToday, state.OrdersToday)
	if err := s.Notifier.SendSilent(report); err != nil {
		log.Printf("[ERROR] send daily summary: %v", err)
	}
}

func (s *Scheduler) closePosition(symbol string, price float64, exitType model.ExitType, reason string, now time.Time) {
	trade, err := s.Book.Close(symbol, price, exitType, now)
	if err != nil {
		log.Printf("[ERROR] close %s: %v", symbol, err)
		return
	}
	log.Printf("[INFO] closed %s %s @ %.2f (%s): PnL %+.2f",
		trade.Side, trade.Symbol, trade.ExitPrice, reason, trade.PnL)
	s.trySend(notifier.FormatExitAlert(&trade))
	if err := s.Recorder.RecordTrade(&trade); err != nil {
		log.Printf("[ERROR] record trade: %v", err)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/scan":
		go s.scanTask()
		return "Scan started."
	case "/positions":
		positions := s.Book.Positions()
		ptrs := make([]*model.Position, len(positions))
		for i := range positions {
			ptrs[i] = &positions[i]
		}
		return notifier.FormatPositionStatus(ptrs)
	case "/summary":
		state := s.Book.Snapshot()
		return notifier.FormatDailySummary(state.TradingDay, state.Closed, state.RealizedPnLToday, state.OrdersToday)
	case "/squareoff":
		go s.squareOffTask()
		return "Square off started."
	default:
		return "Available commands:\n• /scan\n• /positions\n• /summary\n• /squareoff"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

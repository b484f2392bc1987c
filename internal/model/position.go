package model

import "time"

// Position is one open paper position tracked by the book.
type Position struct {
	Symbol       string    `json:"symbol"`
	Side         Side      `json:"side"`
	EntryPrice   float64   `json:"entry_price"`
	StopLoss     float64   `json:"stop_loss"`
	TrailingStop float64   `json:"trailing_stop"`
	Target       float64   `json:"target"`
	Lots         int       `json:"lots"`
	Quantity     int       `json:"quantity"`
	HighestPrice float64   `json:"highest_price"`
	LowestPrice  float64   `json:"lowest_price"`
	EntryTime    time.Time `json:"entry_time"`
}

// ClosedTrade records a completed round trip.
type ClosedTrade struct {
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Quantity   int       `json:"quantity"`
	PnL        float64   `json:"pnl"`
	ExitType   ExitType  `json:"exit_type"`
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
}

// BookState is the persisted state of the paper position book.
type BookState struct {
	Open             map[string]*Position `json:"open"`
	Closed           []ClosedTrade        `json:"closed"`
	OrdersToday      int                  `json:"orders_today"`
	TradingDay       string               `json:"trading_day"`
	LastExitAt       map[string]time.Time `json:"last_exit_at"`
	RealizedPnLToday float64              `json:"realized_pnl_today"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"TrendSentinel/internal/model"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_snapshots (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			close         REAL,
			tr            REAL,
			atr           REAL,
			long_stop     REAL,
			short_stop    REAL,
			trend         INTEGER,
			signal        TEXT,
			stop_loss     REAL,
			stop_distance REAL,
			risk_percent  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_ts ON scan_snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_symbol ON scan_snapshots(symbol)`,

		`CREATE TABLE IF NOT EXISTS entry_signals (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			side          TEXT,
			entry_price   REAL,
			stop_loss     REAL,
			target        REAL,
			stop_distance REAL,
			risk_percent  REAL,
			lots          INTEGER,
			reason        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signal_ts ON entry_signals(timestamp)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			side        TEXT,
			entry_price REAL,
			exit_price  REAL,
			quantity    INTEGER,
			pnl         REAL,
			exit_type   TEXT,
			entry_time  INTEGER,
			exit_time   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trade_ts ON trades(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordScan(recs []*ScanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO scan_snapshots
		(timestamp, symbol, close, tr, atr, long_stop, short_stop,
		 trend, signal, stop_loss, stop_distance, risk_percent)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, rec := range recs {
		if _, err := stmt.Exec(now, rec.Symbol, rec.Close, rec.TR, nullable(rec.ATR),
			nullable(rec.LongStop), nullable(rec.ShortStop), rec.Trend, rec.Signal,
			nullable(rec.StopLoss), nullable(rec.StopDistance), nullable(rec.RiskPercent)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// nullable maps the engine's NaN sentinel to SQL NULL.
func nullable(f float64) interface{} {
	if math.IsNaN(f) {
		return nil
	}
	return f
}

func (r *SQLiteRecorder) RecordSignal(sig *model.TradeSignal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO entry_signals
		(timestamp, symbol, side, entry_price, stop_loss, target,
		 stop_distance, risk_percent, lots, reason)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), sig.Symbol, string(sig.Side), sig.EntryPrice,
		sig.StopLoss, sig.Target, sig.StopDistance, sig.RiskPercent,
		sig.Lots, sig.Reason,
	)
	return err
}

func (r *SQLiteRecorder) RecordTrade(trade *model.ClosedTrade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trades
		(timestamp, symbol, side, entry_price, exit_price, quantity,
		 pnl, exit_type, entry_time, exit_time)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), trade.Symbol, string(trade.Side),
		trade.EntryPrice, trade.ExitPrice, trade.Quantity,
		trade.PnL, string(trade.ExitType),
		trade.EntryTime.Unix(), trade.ExitTime.Unix(),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL  string   `yaml:"base_url"`
		APIKey   string   `yaml:"api_key"`
		Symbols  []string `yaml:"symbols"`
		Interval string   `yaml:"interval"`
		Days     int      `yaml:"days"`
		Workers  int      `yaml:"workers"`
	} `yaml:"data_source"`
	Indicator struct {
		Period     int     `yaml:"period"`
		Multiplier float64 `yaml:"multiplier"`
		// ShiftStops delays the stop outputs by one bar; nil means the
		// engine default (on). ShiftSignal additionally delays the flip
		// signal, off by default.
		ShiftStops  *bool `yaml:"shift_stops"`
		ShiftSignal bool  `yaml:"shift_signal"`
	} `yaml:"indicator"`
	Strategy struct {
		RiskPerTrade      float64 `yaml:"risk_per_trade"`
		LotSize           int     `yaml:"lot_size"`
		MaxLots           int     `yaml:"max_lots"`
		MaxRiskPercent    float64 `yaml:"max_risk_percent"`
		RewardRatio       float64 `yaml:"reward_ratio"`
		SquareOffHour     int     `yaml:"square_off_hour"`
		SquareOffMinute   int     `yaml:"square_off_minute"`
		CircuitBreakerPct float64 `yaml:"circuit_breaker_pct"`
	} `yaml:"strategy"`
	Positions struct {
		MaxOpen         int    `yaml:"max_open"`
		MaxDailyOrders  int    `yaml:"max_daily_orders"`
		CooldownMinutes int    `yaml:"cooldown_minutes"`
		StateFile       string `yaml:"state_file"`
	} `yaml:"positions"`
	Schedule struct {
		ScanCron      string `yaml:"scan_cron"`
		SquareOffCron string `yaml:"square_off_cron"`
		SummaryCron   string `yaml:"summary_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logging struct {
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.DataSource.Symbols = splitList(v)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("ATR_PERIOD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indicator.Period = n
		}
	}
	if v := os.Getenv("ATR_MULTIPLIER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Indicator.Multiplier = f
		}
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if len(cfg.DataSource.Symbols) == 0 {
		cfg.DataSource.Symbols = []string{"NIFTY", "BANKNIFTY"}
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "5minute"
	}
	if cfg.DataSource.Days == 0 {
		cfg.DataSource.Days = 5
	}
	if cfg.DataSource.Workers == 0 {
		cfg.DataSource.Workers = 5
	}
	if cfg.Indicator.Period == 0 {
		cfg.Indicator.Period = 21
	}
	if cfg.Indicator.Multiplier == 0 {
		cfg.Indicator.Multiplier = 1.0
	}
	if cfg.Indicator.ShiftStops == nil {
		on := true
		cfg.Indicator.ShiftStops = &on
	}
	if cfg.Strategy.RiskPerTrade == 0 {
		cfg.Strategy.RiskPerTrade = 2000
	}
	if cfg.Strategy.LotSize == 0 {
		cfg.Strategy.LotSize = 75
	}
	if cfg.Strategy.MaxLots == 0 {
		cfg.Strategy.MaxLots = 10
	}
	if cfg.Strategy.MaxRiskPercent == 0 {
		cfg.Strategy.MaxRiskPercent = 2.5
	}
	if cfg.Strategy.RewardRatio == 0 {
		cfg.Strategy.RewardRatio = 2.0
	}
	if cfg.Strategy.SquareOffHour == 0 {
		cfg.Strategy.SquareOffHour = 15
		cfg.Strategy.SquareOffMinute = 15
	}
	if cfg.Strategy.CircuitBreakerPct == 0 {
		cfg.Strategy.CircuitBreakerPct = 30
	}
	if cfg.Positions.MaxOpen == 0 {
		cfg.Positions.MaxOpen = 3
	}
	if cfg.Positions.MaxDailyOrders == 0 {
		cfg.Positions.MaxDailyOrders = 10
	}
	if cfg.Positions.CooldownMinutes == 0 {
		cfg.Positions.CooldownMinutes = 10
	}
	if cfg.Positions.StateFile == "" {
		cfg.Positions.StateFile = "data/positions.json"
	}
	if cfg.Schedule.ScanCron == "" {
		// Every 5 minutes during market hours, Mon-Fri
		cfg.Schedule.ScanCron = "0 */5 9-15 * * 1-5"
	}
	if cfg.Schedule.SquareOffCron == "" {
		cfg.Schedule.SquareOffCron = "0 15 15 * * 1-5"
	}
	if cfg.Schedule.SummaryCron == "" {
		cfg.Schedule.SummaryCron = "0 45 15 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/trend_sentinel.db"
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = "logs/trend_sentinel.log"
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = 10
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = 5
	}
	if cfg.Logging.MaxAgeDays == 0 {
		cfg.Logging.MaxAgeDays = 30
	}

	return cfg, nil
}

// Validate checks that all required fields are set. Telegram is optional
// (the bot runs without notifications) but token and chat must come together.
func (c *Config) Validate() error {
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must both be set or both be empty")
	}
	if len(c.DataSource.Symbols) == 0 {
		return fmt.Errorf("data_source.symbols must not be empty")
	}
	if c.Indicator.Period < 1 {
		return fmt.Errorf("indicator.period must be at least 1")
	}
	if c.Indicator.Multiplier <= 0 {
		return fmt.Errorf("indicator.multiplier must be positive")
	}
	if c.Strategy.RiskPerTrade <= 0 {
		return fmt.Errorf("strategy.risk_per_trade must be positive")
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

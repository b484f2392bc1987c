package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_IndicatorDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Indicator.Period != 21 || cfg.Indicator.Multiplier != 1.0 {
		t.Errorf("period/multiplier = %d/%.1f, want 21/1.0", cfg.Indicator.Period, cfg.Indicator.Multiplier)
	}
	if cfg.Indicator.ShiftStops == nil || !*cfg.Indicator.ShiftStops {
		t.Error("shift_stops should default to on")
	}
	if cfg.Indicator.ShiftSignal {
		t.Error("shift_signal should default to off")
	}
}

func TestLoad_ShiftStopsExplicitOff(t *testing.T) {
	path := writeConfig(t, `
indicator:
  period: 14
  multiplier: 2.0
  shift_stops: false
  shift_signal: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Indicator.ShiftStops == nil || *cfg.Indicator.ShiftStops {
		t.Error("explicit shift_stops: false must survive defaulting")
	}
	if !cfg.Indicator.ShiftSignal {
		t.Error("shift_signal: true not applied")
	}
	if cfg.Indicator.Period != 14 || cfg.Indicator.Multiplier != 2.0 {
		t.Errorf("period/multiplier = %d/%.1f, want 14/2.0", cfg.Indicator.Period, cfg.Indicator.Multiplier)
	}
}

func TestValidate_TelegramOptionalButPaired(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config without telegram should validate: %v", err)
	}

	cfg.Telegram.BotToken = "token-only"
	if err := cfg.Validate(); err == nil {
		t.Error("bot token without chat id must fail validation")
	}
	cfg.Telegram.ChatID = "12345"
	if err := cfg.Validate(); err != nil {
		t.Errorf("paired telegram credentials should validate: %v", err)
	}
}

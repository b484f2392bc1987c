package notifier

import (
	"fmt"
	"strings"
	"time"

	"TrendSentinel/internal/model"
)

// FormatSignalAlert formats an entry signal message.
func FormatSignalAlert(sig *model.TradeSignal) string {
	var b strings.Builder
	emoji := "🟢"
	if sig.Side == model.SideShort {
		emoji = "🔴"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s Entry: %s</b>\n\n", emoji, sig.Side, sig.Symbol))
	b.WriteString(fmt.Sprintf("Entry: %.2f\n", sig.EntryPrice))
	b.WriteString(fmt.Sprintf("Stop Loss: %.2f\n", sig.StopLoss))
	b.WriteString(fmt.Sprintf("Target: %.2f\n", sig.Target))
	b.WriteString(fmt.Sprintf("Risk: %.2f (%.2f%%)\n", sig.StopDistance, sig.RiskPercent))
	b.WriteString(fmt.Sprintf("Lots: %d\n", sig.Lots))
	if sig.Reason != "" {
		b.WriteString(fmt.Sprintf("Reason: %s\n", sig.Reason))
	}
	b.WriteString(fmt.Sprintf("\n<i>%s</i>", sig.At.Format("2006-01-02 15:04:05")))
	return b.String()
}

// FormatExitAlert formats a closed trade message.
func FormatExitAlert(trade *model.ClosedTrade) string {
	emoji := "✅"
	if trade.PnL < 0 {
		emoji = "❌"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>Exit: %s</b> (%s)\n\n", emoji, trade.Symbol, trade.ExitType))
	b.WriteString(fmt.Sprintf("Side: %s\n", trade.Side))
	b.WriteString(fmt.Sprintf("Entry: %.2f → Exit: %.2f\n", trade.EntryPrice, trade.ExitPrice))
	b.WriteString(fmt.Sprintf("Quantity: %d\n", trade.Quantity))
	b.WriteString(fmt.Sprintf("PnL: %+.2f\n", trade.PnL))
	b.WriteString(fmt.Sprintf("\n<i>%s</i>", trade.ExitTime.Format("2006-01-02 15:04:05")))
	return b.String()
}

// FormatPositionStatus formats the current open positions.
func FormatPositionStatus(positions []*model.Position) string {
	if len(positions) == 0 {
		return "📊 <b>Positions</b>\n\nNo open positions."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Positions</b> (%d open)\n", len(positions)))
	for _, p := range positions {
		b.WriteString(fmt.Sprintf("\n<b>%s</b> %s\n", p.Symbol, p.Side))
		b.WriteString(fmt.Sprintf("  Entry: %.2f  Qty: %d\n", p.EntryPrice, p.Quantity))
		b.WriteString(fmt.Sprintf("  SL: %.2f  TSL: %.2f  Target: %.2f\n", p.StopLoss, p.TrailingStop, p.Target))
	}
	return b.String()
}

// FormatDailySummary formats the end of day report.
func FormatDailySummary(day string, trades []model.ClosedTrade, realizedPnL float64, ordersToday int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>Daily Summary: %s</b>\n\n", day))
	b.WriteString(fmt.Sprintf("Orders: %d\n", ordersToday))
	b.WriteString(fmt.Sprintf("Closed trades: %d\n", len(trades)))
	wins := 0
	for _, t := range trades {
		if t.PnL > 0 {
			wins++
		}
	}
	if len(trades) > 0 {
		b.WriteString(fmt.Sprintf("Wins: %d  Losses: %d\n", wins, len(trades)-wins))
	}
	b.WriteString(fmt.Sprintf("Realized PnL: %+.2f\n", realizedPnL))
	b.WriteString(fmt.Sprintf("\n<i>%s</i>", time.Now().Format("2006-01-02 15:04:05")))
	return b.String()
}

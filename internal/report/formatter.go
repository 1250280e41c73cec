// Package report renders an analysis result into advisory text.
package report

import (
	"fmt"
	"strings"

	"StockRadar/internal/analyzer"
	"StockRadar/internal/indicator"
	"StockRadar/internal/turtle"
)

var signalLabels = map[string]string{
	"golden_cross":      "均线金叉",
	"death_cross":       "均线死叉",
	"macd_golden_cross": "MACD金叉",
	"macd_death_cross":  "MACD死叉",
	"kdj_golden_cross":  "KDJ金叉",
	"kdj_death_cross":   "KDJ死叉",
	"rsi_overbought":    "RSI超买",
	"rsi_oversold":      "RSI超卖",
	"boll_break_upper":  "突破布林上轨",
	"boll_break_lower":  "跌破布林下轨",
}

var combinedLabels = map[string]string{
	turtle.SignalBuy:  "买入",
	turtle.SignalSell: "卖出",
	turtle.SignalExit: "离场",
	turtle.SignalHold: "持有观望",
	turtle.SignalNone: "数据不足",
}

// Format renders the full advisory report for one analysis result.
func Format(res *analyzer.Result) string {
	var b strings.Builder

	last, _ := res.Series.Last()
	b.WriteString(fmt.Sprintf("📊 %s 分析报告 | %s\n\n", res.Symbol, last.Date.Format("2006-01-02")))
	if res.Stale {
		b.WriteString("⚠️ 数据源全部失败，以下基于过期缓存数据\n\n")
	}

	b.WriteString(fmt.Sprintf("收盘价: %.2f\n", last.Close))
	writeIndicatorLine(&b, "MA", res.Latest, "ma5", "ma10", "ma20", "ma60")
	b.WriteString(fmt.Sprintf("MACD: %s | 信号线: %s | RSI: %s\n",
		res.Latest["macd"], res.Latest["macd_signal"], res.Latest["rsi"]))
	b.WriteString(fmt.Sprintf("KDJ: K=%s D=%s J=%s\n",
		res.Latest["kdj_k"], res.Latest["kdj_d"], res.Latest["kdj_j"]))
	b.WriteString(fmt.Sprintf("布林带: %s / %s / %s\n\n",
		res.Latest["boll_upper"], res.Latest["boll_mid"], res.Latest["boll_lower"]))

	if fired := firedLabels(res); len(fired) > 0 {
		b.WriteString("📈 触发信号: " + strings.Join(fired, "、") + "\n\n")
	}

	b.WriteString(fmt.Sprintf("⚖️ 风险评分: %.0f (%s)\n", res.Risk.Score, res.Risk.Level))
	for _, w := range res.Risk.Warnings {
		b.WriteString("  ⚠️ " + w + "\n")
	}
	for _, r := range res.Risk.Recommendations {
		b.WriteString("  💡 " + r + "\n")
	}
	b.WriteString("\n")

	writeTurtle(&b, res.Turtle)
	return b.String()
}

func writeIndicatorLine(b *strings.Builder, label string, latest map[string]indicator.Value, names ...string) {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", strings.ToUpper(name), latest[name]))
	}
	b.WriteString(label + ": " + strings.Join(parts, " ") + "\n")
}

func writeTurtle(b *strings.Builder, t *turtle.Result) {
	b.WriteString(fmt.Sprintf("🐢 策略信号: %s (置信度 %.0f%%)\n", combinedLabels[t.Combined], t.Confidence*100))
	b.WriteString(fmt.Sprintf("  系统1(%d日): %s | 系统2(%d日): %s\n",
		t.System1.EntryWindow, t.System1.Signal, t.System2.EntryWindow, t.System2.Signal))
	if stop, ok := t.StopLoss.Float(); ok {
		b.WriteString(fmt.Sprintf("  止损价: %.2f\n", stop))
	}
	if t.Combined == turtle.SignalBuy || t.Combined == turtle.SignalSell {
		b.WriteString(fmt.Sprintf("  建议仓位: %.0f%%\n", t.PositionSize*100))
	}
	b.WriteString(fmt.Sprintf("  年化波动率: %.1f%% | ATR占比: %.1f%% | 最大回撤: %.1f%% | 趋势: %s\n",
		t.Risk.Volatility*100, t.Risk.ATRPercent*100, t.Risk.MaxDrawdown*100, t.Risk.Trend))
}

func firedLabels(res *analyzer.Result) []string {
	order := []string{
		"golden_cross", "death_cross",
		"macd_golden_cross", "macd_death_cross",
		"kdj_golden_cross", "kdj_death_cross",
		"rsi_overbought", "rsi_oversold",
		"boll_break_upper", "boll_break_lower",
	}
	var fired []string
	for _, name := range order {
		if res.Signals.Fired(name) {
			fired = append(fired, signalLabels[name])
		}
	}
	return fired
}
